package stt

import (
	"errors"
	"fmt"
)

// Result represents the result of a speech-to-text transcription
type Result struct {
	Transcript  string  // The transcribed text
	Confidence  float64 // Confidence score (0.0-1.0), may be 0 if not provided
	Provider    string  // The provider used (e.g., "google", "whisper")
	RawResponse string  // Raw response from the provider (for debugging/logging)
}

var (
	// ErrUnintelligible means the service processed the audio but found no
	// confident transcription.
	ErrUnintelligible = errors.New("could not understand audio")

	// ErrServiceUnavailable means the service could not be reached or
	// returned an error.
	ErrServiceUnavailable = errors.New("speech recognition service unavailable")
)

func unintelligible(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnintelligible, fmt.Sprintf(format, args...))
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrServiceUnavailable, fmt.Sprintf(format, args...))
}

// minAudioBytes is the smallest payload worth sending; anything shorter is
// a header with little or no audio.
const minAudioBytes = 1000
