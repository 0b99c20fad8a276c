package ai

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedResult struct {
	text string
	err  error
}

// stubGenerator replays results per model and records every call.
type stubGenerator struct {
	mu      sync.Mutex
	scripts map[string][]scriptedResult
	calls   []string
	block   bool
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, model)
	if s.block {
		s.mu.Unlock()
		<-ctx.Done()
		return "", &ProviderError{Provider: "stub", Model: model, Message: ctx.Err().Error(), Err: ctx.Err()}
	}
	script := s.scripts[model]
	if len(script) == 0 {
		s.mu.Unlock()
		return "", errors.New("stub: script exhausted")
	}
	next := script[0]
	s.scripts[model] = script[1:]
	s.mu.Unlock()
	return next.text, next.err
}

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func providerErr(model string, status int, msg string) error {
	return &ProviderError{Provider: "stub", Model: model, Status: status, Message: msg}
}

func newTestClient(gen Generator, models ...string) (*Client, *sleepRecorder) {
	rec := &sleepRecorder{}
	c := NewClient(gen, models, nil).
		WithSleep(rec.sleep).
		WithJitter(func() time.Duration { return 250 * time.Millisecond })
	return c, rec
}

func TestClientRetriesOverloadedThenSucceeds(t *testing.T) {
	gen := &stubGenerator{scripts: map[string][]scriptedResult{
		"primary": {
			{err: providerErr("primary", http.StatusServiceUnavailable, "The model is overloaded")},
			{err: providerErr("primary", http.StatusServiceUnavailable, "The model is overloaded")},
			{text: `{"itinerary":[]}`},
		},
	}}
	c, rec := newTestClient(gen, "primary")

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"itinerary":[]}`, text)

	require.Len(t, rec.delays, 2)
	for attempt, d := range rec.delays {
		assert.GreaterOrEqual(t, d, time.Duration(1<<attempt)*time.Second)
		if attempt > 0 {
			assert.GreaterOrEqual(t, d, rec.delays[attempt-1])
		}
	}
	assert.Equal(t, []string{"primary", "primary", "primary"}, gen.calls)
}

func TestClientRealJitterStaysWithinBounds(t *testing.T) {
	c := NewClient(&stubGenerator{}, []string{"m"}, nil)
	for attempt := 0; attempt < 4; attempt++ {
		d := c.backoff(attempt)
		base := time.Duration(1<<attempt) * time.Second
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+time.Second)
	}
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	var script []scriptedResult
	for i := 0; i < 10; i++ {
		script = append(script, scriptedResult{err: providerErr("primary", http.StatusTooManyRequests, "Resource has been exhausted (e.g. check quota).")})
	}
	gen := &stubGenerator{scripts: map[string][]scriptedResult{"primary": script}}
	c, rec := newTestClient(gen, "primary")

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Len(t, gen.calls, 5)
	assert.Len(t, rec.delays, 4)
}

func TestClientQuotaMessageIsTransientWithoutStatus(t *testing.T) {
	gen := &stubGenerator{scripts: map[string][]scriptedResult{
		"primary": {
			{err: providerErr("primary", 0, "quota exceeded for project")},
			{text: "ok"},
		},
	}}
	c, rec := newTestClient(gen, "primary")

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Len(t, rec.delays, 1)
}

func TestClientFallsBackToNextModelWithoutDelay(t *testing.T) {
	gen := &stubGenerator{scripts: map[string][]scriptedResult{
		"primary":  {{err: providerErr("primary", http.StatusNotFound, "models/primary is not found for API version v1beta")}},
		"fallback": {{text: "from fallback"}},
	}}
	c, rec := newTestClient(gen, "primary", "fallback")

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "from fallback", text)
	assert.Empty(t, rec.delays)
	assert.Equal(t, []string{"primary", "fallback"}, gen.calls)
}

func TestClientReportsEveryModelTriedWhenNoneExists(t *testing.T) {
	gen := &stubGenerator{scripts: map[string][]scriptedResult{
		"a": {{err: providerErr("a", http.StatusNotFound, "not found")}},
		"b": {{err: providerErr("b", 0, "model b not found")}},
	}}
	c, rec := newTestClient(gen, "a", "b")

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelNotFound)

	var unavailable *ModelUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"a", "b"}, unavailable.Tried)
	assert.Contains(t, err.Error(), "a, b")
	assert.Contains(t, err.Error(), "model b not found")
	assert.Empty(t, rec.delays)
}

func TestClientFailsFastOnAuthorizationError(t *testing.T) {
	gen := &stubGenerator{scripts: map[string][]scriptedResult{
		"primary":  {{err: providerErr("primary", http.StatusForbidden, "API key not valid")}},
		"fallback": {{text: "unused"}},
	}}
	c, rec := newTestClient(gen, "primary", "fallback")

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, []string{"primary"}, gen.calls)
	assert.Empty(t, rec.delays)
}

func TestClientTimeoutDoesNotTryNextModel(t *testing.T) {
	gen := &stubGenerator{block: true}
	c, rec := newTestClient(gen, "primary", "fallback")
	c.WithTimeout(20 * time.Millisecond)

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestTimeout)
	assert.Equal(t, []string{"primary"}, gen.calls)
	assert.Empty(t, rec.delays)
}

func TestClientStopsWhenCallerCancels(t *testing.T) {
	gen := &stubGenerator{scripts: map[string][]scriptedResult{
		"primary": {{err: providerErr("primary", http.StatusServiceUnavailable, "overloaded")}},
	}}
	c := NewClient(gen, []string{"primary"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	c.WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	})

	_, err := c.Generate(ctx, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gen.calls, 1)
}

func TestClientWithoutModels(t *testing.T) {
	c := NewClient(&stubGenerator{}, nil, nil)
	_, err := c.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}
