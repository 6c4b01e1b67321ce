package stt

import "context"

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Transcribe transcribes a normalized audio file and returns the best
	// hypothesis. Failures wrap ErrUnintelligible or ErrServiceUnavailable.
	Transcribe(ctx context.Context, audioPath string) (*Result, error)

	// Name returns the name of the provider (e.g., "google", "whisper")
	Name() string
}
