package stt

import (
	"fmt"
	"log"

	"pronounce/internal/config"
)

// CreateProvider creates an STT provider from configuration. sampleRate is
// the rate of the normalized audio the provider will receive.
func CreateProvider(cfg config.STTConfig, sampleRate int) (Provider, error) {
	providerName := cfg.Provider
	if providerName == "" {
		providerName = "google"
		log.Printf("[STT Factory] STT_PROVIDER not set, defaulting to 'google'")
	}

	switch providerName {
	case "google":
		return createGoogleProvider(cfg, sampleRate)
	case "whisper", "openai":
		return createWhisperProvider(cfg)
	case "fpt":
		return createFPTProvider(cfg)
	case "mock":
		log.Printf("[STT Factory] Creating mock STT provider")
		return NewMockProvider(cfg.MockTranscript, cfg.MockError)
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: google, whisper, fpt, mock", providerName)
	}
}

// createGoogleProvider creates a Google STT provider
// GOOGLE_STT_KEY_FILE can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
//   - Unset, to fall back to application default credentials
func createGoogleProvider(cfg config.STTConfig, sampleRate int) (Provider, error) {
	if isGoogleAPIKey(cfg.GoogleKey) {
		log.Printf("[STT Factory] Creating Google STT provider with API key")
	} else {
		log.Printf("[STT Factory] Creating Google STT provider with project: %s", cfg.GoogleProjectID)
	}
	return NewGoogleProvider(cfg.GoogleProjectID, cfg.GoogleKey, cfg.Language, sampleRate)
}

func createWhisperProvider(cfg config.STTConfig) (Provider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	log.Printf("[STT Factory] Creating Whisper STT provider (model: %s)", cfg.WhisperModel)
	return NewWhisperProvider(cfg.OpenAIKey, cfg.WhisperModel, cfg.Language), nil
}

// createFPTProvider creates an FPT STT provider
func createFPTProvider(cfg config.STTConfig) (Provider, error) {
	if cfg.FPTApiKey == "" {
		return nil, fmt.Errorf("FPT_AI_API_KEY environment variable is not set")
	}
	log.Printf("[STT Factory] Creating FPT STT provider")
	return NewFPTProvider(cfg.FPTApiKey, cfg.FPTSTTURL), nil
}
