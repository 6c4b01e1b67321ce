package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// FPTProvider implements STT using FPT.AI Speech-to-Text API
type FPTProvider struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewFPTProvider creates a new FPT STT provider
func NewFPTProvider(apiKey, url string) *FPTProvider {
	return &FPTProvider{
		apiKey:     apiKey,
		url:        url,
		httpClient: &http.Client{},
	}
}

// Name returns the provider name
func (p *FPTProvider) Name() string {
	return "fpt"
}

// FPTSTTResponse represents FPT.AI STT API response
type FPTSTTResponse struct {
	Hypotheses []struct {
		Utterance  string  `json:"utterance"`
		Confidence float64 `json:"confidence"`
	} `json:"hypotheses"`
	Status    int    `json:"status"`
	ErrorCode int    `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Transcribe posts the raw audio file body to FPT.AI and returns the first
// hypothesis.
func (p *FPTProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	log.Printf("[FPT STT] Processing audio file: %s, size: %d bytes", audioPath, len(audioBytes))

	if len(audioBytes) < minAudioBytes {
		return nil, unintelligible("audio file too small (%d bytes)", len(audioBytes))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(audioBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("api-key", p.apiKey)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request to FPT.AI: %w", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrServiceUnavailable, err)
	}

	log.Printf("[FPT STT] Response preview: %s", preview(body))

	raw := &Result{Provider: p.Name(), RawResponse: string(body)}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[FPT STT] API error: Status %d, Body: %s", resp.StatusCode, string(body))
		return raw, unavailable("FPT.AI API returned status %d", resp.StatusCode)
	}

	var sttResp FPTSTTResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		log.Printf("[FPT STT] Failed to parse response. Raw body: %s", string(body))
		return raw, fmt.Errorf("%w: failed to parse FPT.AI response: %w", ErrServiceUnavailable, err)
	}

	if sttResp.ErrorCode != 0 {
		log.Printf("[FPT STT] API error code %d: %s", sttResp.ErrorCode, sttResp.Message)
		return raw, unavailable("FPT.AI API error %d: %s", sttResp.ErrorCode, sttResp.Message)
	}

	if len(sttResp.Hypotheses) == 0 {
		log.Printf("[FPT STT] No hypotheses returned")
		return raw, unintelligible("no speech detected in audio")
	}

	hyp := sttResp.Hypotheses[0]
	transcript := strings.TrimSpace(hyp.Utterance)
	if transcript == "" {
		log.Printf("[FPT STT] Empty transcript returned")
		return raw, unintelligible("empty transcript returned")
	}

	log.Printf("[FPT STT] Transcription successful: confidence=%.2f, length=%d, duration=%v",
		hyp.Confidence, len(transcript), time.Since(startTime))

	raw.Transcript = transcript
	raw.Confidence = hyp.Confidence
	return raw, nil
}
