package stt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func newTestWhisperProvider(t *testing.T, handler http.HandlerFunc) *WhisperProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = server.URL + "/v1"
	return newWhisperProvider(cfg, "", "en-US")
}

func TestWhisperTranscribe(t *testing.T) {
	p := newTestWhisperProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != openai.Whisper1 {
			t.Errorf("expected model %s, got %s", openai.Whisper1, got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("expected language en, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"Hello world."}`))
	})

	res, err := p.Transcribe(context.Background(), writeAudio(t, 2000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Transcript != "Hello world." || res.Provider != "whisper" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestWhisperTranscribeEmpty(t *testing.T) {
	p := newTestWhisperProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":""}`))
	})

	_, err := p.Transcribe(context.Background(), writeAudio(t, 2000))
	if !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("expected ErrUnintelligible, got %v", err)
	}
}

func TestWhisperTranscribeAPIError(t *testing.T) {
	p := newTestWhisperProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := p.Transcribe(context.Background(), writeAudio(t, 2000))
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestWhisperLanguage(t *testing.T) {
	tests := map[string]string{"en-US": "en", "pt_BR": "pt", "FR": "fr", "": ""}
	for in, want := range tests {
		if got := whisperLanguage(in); got != want {
			t.Errorf("whisperLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
