package stt

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedProvider struct {
	errs  []error
	calls int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Transcribe(ctx context.Context, _ string) (*Result, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &Result{Transcript: "hello", Provider: s.Name()}, nil
}

type slowProvider struct{ calls int }

func (s *slowProvider) Name() string { return "slow" }

func (s *slowProvider) Transcribe(ctx context.Context, _ string) (*Result, error) {
	s.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func fastRetry(p Provider, retries int, timeout time.Duration) Provider {
	r := WithRetry(p, retries, timeout).(*retryProvider)
	r.initialInterval = time.Millisecond
	r.maxInterval = 5 * time.Millisecond
	return r
}

func TestRetryRecoversFromUnavailable(t *testing.T) {
	inner := &scriptedProvider{errs: []error{unavailable("down"), unavailable("still down")}}
	res, err := fastRetry(inner, 2, time.Second).Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Transcript != "hello" {
		t.Fatalf("unexpected result %+v", res)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	inner := &scriptedProvider{errs: []error{unavailable("1"), unavailable("2"), unavailable("3"), unavailable("4")}}
	_, err := fastRetry(inner, 2, time.Second).Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetryDoesNotRetryUnintelligible(t *testing.T) {
	inner := &scriptedProvider{errs: []error{unintelligible("mumble")}}
	_, err := fastRetry(inner, 3, time.Second).Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("expected ErrUnintelligible, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetryZeroRetries(t *testing.T) {
	inner := &scriptedProvider{errs: []error{unavailable("down")}}
	_, err := fastRetry(inner, 0, time.Second).Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetryAttemptTimeout(t *testing.T) {
	inner := &slowProvider{}
	_, err := fastRetry(inner, 1, 20*time.Millisecond).Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", inner.calls)
	}
}

func TestRetryUnclassifiedErrorIsUnavailable(t *testing.T) {
	inner := &scriptedProvider{errs: []error{errors.New("failed to read audio file")}}
	_, err := fastRetry(inner, 2, time.Second).Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetryKeepsName(t *testing.T) {
	if got := WithRetry(&scriptedProvider{}, 1, time.Second).Name(); got != "scripted" {
		t.Fatalf("expected inner name, got %s", got)
	}
}
