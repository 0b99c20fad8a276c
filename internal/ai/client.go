package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 5
	retryBaseDelay     = time.Second
)

// Client sends prompts through a Generator with per-call timeout, retry with
// exponential backoff on transient errors, and fallback across model ids.
type Client struct {
	gen         Generator
	models      []string
	timeout     time.Duration
	maxAttempts int
	logger      *zap.Logger

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

// NewClient tries models in order; the first entry is the primary model.
func NewClient(gen Generator, models []string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gen:         gen,
		models:      models,
		timeout:     defaultTimeout,
		maxAttempts: defaultMaxAttempts,
		logger:      logger,
		sleep:       sleepContext,
		jitter:      func() time.Duration { return rand.N(retryBaseDelay) },
	}
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithMaxAttempts caps the total calls per model, the first call included.
func (c *Client) WithMaxAttempts(n int) *Client {
	c.maxAttempts = n
	return c
}

func (c *Client) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Client {
	c.sleep = fn
	return c
}

func (c *Client) WithJitter(fn func() time.Duration) *Client {
	c.jitter = fn
	return c
}

func (c *Client) Provider() string { return c.gen.Name() }

func (c *Client) Models() []string { return c.models }

// Generate returns the text of the first successful response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if len(c.models) == 0 {
		return "", fmt.Errorf("ai: no model configured for %s", c.gen.Name())
	}

	var tried []string
	var lastErr error
	for _, model := range c.models {
		tried = append(tried, model)
		text, err := c.generateWithRetry(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, ErrRequestTimeout) || !errors.Is(err, ErrModelNotFound) {
			return "", err
		}
		lastErr = err
		c.logger.Warn("model not found, trying next candidate",
			zap.String("provider", c.gen.Name()),
			zap.String("model", model),
			zap.Error(err))
	}
	return "", &ModelUnavailableError{Tried: tried, Last: lastErr}
}

func (c *Client) generateWithRetry(ctx context.Context, model, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt - 1)
			status := 0
			if pe, ok := AsProviderError(lastErr); ok {
				status = pe.Status
			}
			c.logger.Warn("transient model error, retrying",
				zap.String("provider", c.gen.Name()),
				zap.String("model", model),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", c.maxAttempts),
				zap.Int("status", status),
				zap.Duration("delay", delay))
			if err := c.sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		text, err := c.call(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		pe, ok := AsProviderError(err)
		if !ok || pe.NotFound() || !pe.Transient() {
			return "", err
		}
	}
	return "", fmt.Errorf("ai: %s %s failed after %d attempts: %w", c.gen.Name(), model, c.maxAttempts, lastErr)
}

// call runs a single request under the per-call deadline.
func (c *Client) call(ctx context.Context, model, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.gen.Generate(callCtx, model, prompt)
	if err == nil {
		return text, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w: %s %s exceeded %s", ErrRequestTimeout, c.gen.Name(), model, c.timeout)
	}
	return "", err
}

// backoff is 2^attempt seconds plus up to one second of jitter.
func (c *Client) backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt)*retryBaseDelay + c.jitter()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
