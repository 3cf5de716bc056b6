package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a single strategy attempt.
const DefaultTimeout = 8 * time.Second

// Strategy is one way of retrieving posts for a username.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, username string) ([]Post, error)
}

// Observer is told about every strategy attempt.
type Observer interface {
	Attempt(strategy, outcome string, took time.Duration)
}

// Attempt outcomes reported to the Observer.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeTimeout   = "timeout"
	OutcomeEmpty     = "empty"
	OutcomeMalformed = "malformed"
)

// Chain tries strategies strictly in order until one yields posts.
type Chain struct {
	strategies []Strategy
	timeout    time.Duration
	limit      int
	logger     *slog.Logger
	observer   Observer
}

// Option configures a Chain.
type Option func(*Chain)

// WithTimeout sets the per-strategy timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLimit caps the number of posts returned.
func WithLimit(n int) Option {
	return func(c *Chain) { c.limit = n }
}

// WithLogger sets the logger used for attempt records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chain) { c.logger = l }
}

// WithObserver sets the attempt observer.
func WithObserver(o Observer) Option {
	return func(c *Chain) { c.observer = o }
}

// NewChain returns a chain over strategies.
func NewChain(strategies []Strategy, opts ...Option) *Chain {
	c := &Chain{
		strategies: strategies,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strategies returns the strategy names in the order they are tried.
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Fetch resolves profileURL to a username and returns the posts of the
// first strategy producing at least one well-formed post. Later strategies
// are not invoked. When all fail the error wraps ErrNoData.
func (c *Chain) Fetch(ctx context.Context, profileURL string) (Result, error) {
	username, err := ExtractUsername(profileURL)
	if err != nil {
		return Result{}, err
	}

	var failures []error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		posts, outcome, err := c.attempt(ctx, s, username)
		if outcome == OutcomeOK {
			return Result{Username: username, Source: s.Name(), Posts: capPosts(posts, c.limit)}, nil
		}
		failures = append(failures, fmt.Errorf("%s: %s: %w", s.Name(), outcome, err))
	}

	if len(failures) == 0 {
		return Result{Username: username}, ErrNoData
	}
	return Result{Username: username}, fmt.Errorf("%w: %w", ErrNoData, errors.Join(failures...))
}

// attempt runs one strategy under the per-strategy timeout and classifies
// the outcome. err is non-nil for every outcome but OutcomeOK.
func (c *Chain) attempt(ctx context.Context, s Strategy, username string) ([]Post, string, error) {
	sctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.Fetch(sctx, username)
	took := time.Since(start)

	posts := wellFormed(raw)
	outcome := OutcomeOK
	switch {
	case err != nil && errors.Is(sctx.Err(), context.DeadlineExceeded):
		outcome = OutcomeTimeout
	case err != nil:
		outcome = OutcomeError
	case len(raw) == 0:
		outcome, err = OutcomeEmpty, errors.New("no posts")
	case len(posts) == 0:
		outcome, err = OutcomeMalformed, errors.New("no well-formed posts")
	}

	if c.observer != nil {
		c.observer.Attempt(s.Name(), outcome, took)
	}
	if outcome == OutcomeOK {
		c.logger.Info("feed strategy succeeded", "strategy", s.Name(), "username", username,
			"posts", len(posts), "duration", took)
	} else {
		c.logger.Warn("feed strategy failed", "strategy", s.Name(), "username", username,
			"outcome", outcome, "error", err, "duration", took)
	}
	return posts, outcome, err
}
