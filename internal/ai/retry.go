package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// RetryConfig bounds the retry behavior around remote provider calls.
type RetryConfig struct {
	MaxRetries int           // 0 = no retries
	RetryDelay time.Duration // initial delay, doubled per attempt
	MaxDelay   time.Duration // caps the exponential backoff
	Timeout    time.Duration // per-attempt timeout
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    90 * time.Second,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.RetryDelay <= 0 {
		c.RetryDelay = 1 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 90 * time.Second
	}
	return c
}

type retryEmbedder struct {
	inner Embedder
	cfg   RetryConfig
}

type retryCompleter struct {
	inner Completer
	cfg   RetryConfig
}

// WithRetryEmbedder wraps an Embedder with bounded exponential-backoff retries.
func WithRetryEmbedder(inner Embedder, cfg RetryConfig) Embedder {
	return &retryEmbedder{inner: inner, cfg: cfg.withDefaults()}
}

// WithRetryCompleter wraps a Completer with bounded exponential-backoff retries.
func WithRetryCompleter(inner Completer, cfg RetryConfig) Completer {
	return &retryCompleter{inner: inner, cfg: cfg.withDefaults()}
}

func (r *retryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := retryCall(ctx, r.cfg, func(ctx context.Context) error {
		var err error
		vec, err = r.inner.Embed(ctx, text)
		return err
	})
	return vec, err
}

func (r *retryEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	err := retryCall(ctx, r.cfg, func(ctx context.Context) error {
		var err error
		vecs, err = r.inner.EmbedBatch(ctx, texts)
		return err
	})
	return vecs, err
}

func (r *retryCompleter) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	var out string
	err := retryCall(ctx, r.cfg, func(ctx context.Context) error {
		var err error
		out, err = r.inner.Complete(ctx, messages)
		return err
	})
	return out, err
}

func retryCall(ctx context.Context, cfg RetryConfig, call func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffDelay(cfg, attempt)):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		err := call(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}

func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	delay := cfg.RetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay > cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	return delay
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := err.Error()
	if strings.Contains(errStr, "status 429") {
		return true
	}
	if strings.Contains(errStr, "status 500") ||
		strings.Contains(errStr, "status 502") ||
		strings.Contains(errStr, "status 503") ||
		strings.Contains(errStr, "status 504") {
		return true
	}
	// Remaining 4xx are caller errors; retrying will not help.
	if strings.Contains(errStr, "status 4") {
		return false
	}
	return true
}
