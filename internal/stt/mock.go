package stt

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider returns a fixed transcript, or a fixed failure.
type MockProvider struct {
	Transcript string
	Err        error
}

// NewMockProvider builds a mock from config strings. failure may be
// "unintelligible", "unavailable" or empty.
func NewMockProvider(transcript, failure string) (*MockProvider, error) {
	m := &MockProvider{Transcript: transcript}
	switch strings.ToLower(strings.TrimSpace(failure)) {
	case "":
	case "unintelligible":
		m.Err = unintelligible("mock")
	case "unavailable":
		m.Err = unavailable("mock")
	default:
		return nil, fmt.Errorf("unsupported mock failure: %s. Supported: unintelligible, unavailable", failure)
	}
	return m, nil
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Transcribe(ctx context.Context, _ string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if strings.TrimSpace(m.Transcript) == "" {
		return nil, unintelligible("mock transcript is empty")
	}
	return &Result{Transcript: m.Transcript, Confidence: 1, Provider: m.Name()}, nil
}
