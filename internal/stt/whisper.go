package stt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// WhisperProvider transcribes through the OpenAI audio transcription API.
type WhisperProvider struct {
	client   *openai.Client
	model    string
	language string // ISO-639-1
}

func NewWhisperProvider(apiKey, model, language string) *WhisperProvider {
	return newWhisperProvider(openai.DefaultConfig(apiKey), model, language)
}

func newWhisperProvider(cfg openai.ClientConfig, model, language string) *WhisperProvider {
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperProvider{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		language: whisperLanguage(language),
	}
}

func (p *WhisperProvider) Name() string {
	return "whisper"
}

func (p *WhisperProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()
	log.Printf("[Whisper STT] Processing audio file: %s (model: %s)", audioPath, p.model)

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: audioPath,
		Language: p.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			log.Printf("[Whisper STT] API error: Status %d, Message: %s", apiErr.HTTPStatusCode, apiErr.Message)
		} else {
			log.Printf("[Whisper STT] Request error: %v", err)
		}
		return nil, fmt.Errorf("%w: whisper transcription: %w", ErrServiceUnavailable, err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		log.Printf("[Whisper STT] Empty transcript returned")
		return &Result{Provider: p.Name()}, unintelligible("empty transcript returned")
	}

	log.Printf("[Whisper STT] Transcription successful: length=%d, duration=%v", len(transcript), time.Since(startTime))
	return &Result{
		Transcript: transcript,
		Provider:   p.Name(),
	}, nil
}

// whisperLanguage turns a BCP-47 tag like "en-US" into "en".
func whisperLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
