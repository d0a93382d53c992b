package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  1 * time.Millisecond,
		MaxWait:    10 * time.Millisecond,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "PROBLEM: ok"},
	)
	p := WithRetry(mock, retryConfig(), discardLogger())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "PROBLEM: ok" {
		t.Fatalf("unexpected text: %s", resp.Text)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Text: "recovered"},
	)
	p := WithRetry(mock, retryConfig(), discardLogger())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "recovered" {
		t.Fatalf("unexpected text: %s", resp.Text)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_EmptyResponseIsRetryable(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrEmptyResponse{Model: "m"}},
		MockResponse{Text: "second time lucky"},
	)
	p := WithRetry(mock, retryConfig(), discardLogger())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "second time lucky" {
		t.Fatalf("unexpected text: %s", resp.Text)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithRetry(mock, retryConfig(), discardLogger())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected last failure propagated unchanged, got %v", err)
	}
	// MaxRetries=2 means 3 total attempts.
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCancellationNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockProvider(
		MockResponse{Err: ctx.Err()},
		MockResponse{Text: "never reached"},
	)
	p := WithRetry(mock, retryConfig(), discardLogger())

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}
	err := &ErrRateLimit{RetryAfter: 5 * time.Millisecond}

	if got := r.backoff(0, err); got != 5*time.Millisecond {
		t.Fatalf("backoff = %v, want RetryAfter 5ms", got)
	}
}

func TestRetry_BackoffDoubles(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
		MaxWait:    time.Second,
	}}
	err := &ErrProviderUnavailable{}

	// ±20% jitter around 10ms, 20ms, 40ms.
	bounds := []struct{ lo, hi time.Duration }{
		{8 * time.Millisecond, 12 * time.Millisecond},
		{16 * time.Millisecond, 24 * time.Millisecond},
		{32 * time.Millisecond, 48 * time.Millisecond},
	}
	for attempt, b := range bounds {
		got := r.backoff(attempt, err)
		if got < b.lo || got > b.hi {
			t.Errorf("backoff(%d) = %v, want within [%v, %v]", attempt, got, b.lo, b.hi)
		}
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		MaxRetries: 10,
		BaseDelay:  time.Second,
		MaxWait:    2 * time.Second,
	}}

	got := r.backoff(9, &ErrProviderUnavailable{})
	// Cap plus worst-case jitter.
	if got > 2*time.Second+400*time.Millisecond {
		t.Fatalf("backoff = %v, want capped near 2s", got)
	}
}
