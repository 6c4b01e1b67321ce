package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleBaseURL = "https://speech.googleapis.com"

// GoogleProvider implements STT using Google Cloud Speech-to-Text REST API
type GoogleProvider struct {
	projectID  string
	apiKey     string
	language   string
	sampleRate int
	baseURL    string
	httpClient *http.Client
	useAPIKey  bool // true if using API key, false if using service account
}

// NewGoogleProvider creates a new Google STT provider
// keyData can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
//   - Empty, to use application default credentials
func NewGoogleProvider(projectID, keyData, language string, sampleRate int) (*GoogleProvider, error) {
	keyDataTrimmed := strings.TrimSpace(keyData)
	p := &GoogleProvider{
		projectID:  projectID,
		language:   language,
		sampleRate: sampleRate,
		baseURL:    googleBaseURL,
	}

	if isGoogleAPIKey(keyDataTrimmed) {
		log.Printf("[Google STT] Using API key authentication")
		p.apiKey = keyDataTrimmed
		p.useAPIKey = true
		p.httpClient = &http.Client{}
		return p, nil
	}

	// Otherwise, treat as service account (JSON file or JSON string)
	ctx := context.Background()
	var creds *google.Credentials
	var err error

	if keyDataTrimmed == "" {
		creds, err = google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w. Please set GOOGLE_STT_KEY_FILE", err)
		}
	} else {
		var jsonData []byte
		if strings.HasPrefix(keyDataTrimmed, "{") {
			log.Printf("[Google STT] Using JSON string from environment variable")
			jsonData = []byte(keyDataTrimmed)
		} else {
			log.Printf("[Google STT] Reading key file: %s", keyDataTrimmed)
			jsonData, err = os.ReadFile(keyDataTrimmed)
			if err != nil {
				return nil, fmt.Errorf("failed to read key file '%s': %w", keyDataTrimmed, err)
			}
		}

		creds, err = google.CredentialsFromJSON(ctx, jsonData, "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
		}
	}

	if p.projectID == "" {
		p.projectID = creds.ProjectID
	}
	log.Printf("[Google STT] Using service account authentication (project: %s)", p.projectID)
	p.httpClient = oauth2.NewClient(ctx, creds.TokenSource)
	return p, nil
}

func isGoogleAPIKey(key string) bool {
	return len(key) == 39 && strings.HasPrefix(key, "AIzaSy")
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// GoogleSTTRequest represents Google Speech-to-Text API request
type GoogleSTTRequest struct {
	Config GoogleSTTConfig `json:"config"`
	Audio  GoogleSTTAudio  `json:"audio"`
}

// GoogleSTTConfig represents recognition config
type GoogleSTTConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
	MaxAlternatives int    `json:"maxAlternatives,omitempty"`
}

// GoogleSTTAudio represents audio data
type GoogleSTTAudio struct {
	Content string `json:"content"` // Base64 encoded
}

// GoogleSTTResponse represents Google Speech-to-Text API response
type GoogleSTTResponse struct {
	Results []GoogleSTTResult `json:"results"`
	Error   *GoogleSTTError   `json:"error,omitempty"`
}

// GoogleSTTResult represents a recognition result
type GoogleSTTResult struct {
	Alternatives []GoogleSTTAlternative `json:"alternatives"`
}

// GoogleSTTAlternative represents a transcript alternative
type GoogleSTTAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// GoogleSTTError represents an API error
type GoogleSTTError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Transcribe sends LINEAR16 audio to speech:recognize and returns the
// top alternative of the first result.
func (p *GoogleProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	log.Printf("[Google STT] Processing audio file: %s, size: %d bytes", audioPath, len(audioBytes))

	if len(audioBytes) < minAudioBytes {
		return nil, unintelligible("audio file too small (%d bytes)", len(audioBytes))
	}

	reqBody := GoogleSTTRequest{
		Config: GoogleSTTConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: p.sampleRate,
			LanguageCode:    p.language,
			MaxAlternatives: 1,
		},
		Audio: GoogleSTTAudio{
			Content: base64.StdEncoding.EncodeToString(audioBytes),
		},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.recognizeURL(), bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if !p.useAPIKey && p.projectID != "" {
		req.Header.Set("x-goog-user-project", p.projectID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("[Google STT] HTTP error: %v", err)
		return nil, fmt.Errorf("%w: failed to send request to Google Speech-to-Text: %w", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrServiceUnavailable, err)
	}

	log.Printf("[Google STT] Response preview: %s", preview(body))

	raw := &Result{Provider: p.Name(), RawResponse: string(body)}

	var sttResp GoogleSTTResponse
	if resp.StatusCode != http.StatusOK {
		if err := json.Unmarshal(body, &sttResp); err == nil && sttResp.Error != nil {
			log.Printf("[Google STT] API error: Code %d, Status %s, Message: %s", sttResp.Error.Code, sttResp.Error.Status, sttResp.Error.Message)
			return raw, unavailable("Google Speech-to-Text API error: %s", sttResp.Error.Message)
		}
		log.Printf("[Google STT] API error: Status %d, Body: %s", resp.StatusCode, string(body))
		return raw, unavailable("Google Speech-to-Text API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, &sttResp); err != nil {
		log.Printf("[Google STT] Failed to parse response. Raw body: %s", string(body))
		return raw, fmt.Errorf("%w: failed to parse Google Speech-to-Text response: %w", ErrServiceUnavailable, err)
	}

	if sttResp.Error != nil {
		log.Printf("[Google STT] API error: Code %d, Status %s, Message: %s", sttResp.Error.Code, sttResp.Error.Status, sttResp.Error.Message)
		return raw, unavailable("Google Speech-to-Text API error: %s", sttResp.Error.Message)
	}

	// Longer clips come back as consecutive results; join their top
	// alternatives and keep the lowest confidence.
	var parts []string
	confidence := 0.0
	for _, result := range sttResp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		text := strings.TrimSpace(alt.Transcript)
		if text == "" {
			continue
		}
		if len(parts) == 0 || alt.Confidence < confidence {
			confidence = alt.Confidence
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		log.Printf("[Google STT] No results returned")
		return raw, unintelligible("no speech detected in audio")
	}
	transcript := strings.Join(parts, " ")

	log.Printf("[Google STT] Transcription successful: confidence=%.2f, length=%d, duration=%v",
		confidence, len(transcript), time.Since(startTime))

	raw.Transcript = transcript
	raw.Confidence = confidence
	return raw, nil
}

func (p *GoogleProvider) recognizeURL() string {
	if p.useAPIKey {
		return p.baseURL + "/v1/speech:recognize?key=" + p.apiKey
	}
	return p.baseURL + "/v1/speech:recognize"
}

// preview trims a response body for logging.
func preview(body []byte) string {
	s := string(body)
	if len(s) > 500 {
		s = s[:500] + "..."
	}
	return s
}
