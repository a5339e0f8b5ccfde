package typing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

// TextSource supplies the reference text for a new session.
type TextSource interface {
	ReferenceText(cfg model.TestConfig) (string, error)
}

// Engine owns the current session and replaces it on reset.
type Engine struct {
	source TextSource
	sink   ResultSink
	now    func() time.Time

	mu      sync.Mutex
	session *Session
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine with a fresh session for cfg.
func NewEngine(source TextSource, sink ResultSink, cfg model.TestConfig, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		source: source,
		sink:   sink,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Reset(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset discards the current session and starts a new one with freshly drawn
// text. An invalid cfg is rejected and the current session is kept.
func (e *Engine) Reset(cfg model.TestConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	text, err := e.source.ReferenceText(cfg)
	if err != nil {
		return fmt.Errorf("failed to draw reference text: %w", err)
	}
	session, err := NewSession(cfg, text, e.sink)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.session = session
	e.mu.Unlock()
	return nil
}

// Restart resets with the current session's configuration.
func (e *Engine) Restart() error {
	return e.Reset(e.Session().Config())
}

// Input forwards a buffer snapshot to the current session.
func (e *Engine) Input(ctx context.Context, buffer string) error {
	return e.Session().Input(ctx, buffer, e.now())
}

// Tick forwards a timer tick to the current session.
func (e *Engine) Tick(ctx context.Context) error {
	return e.Session().Tick(ctx, e.now())
}

// Remaining reports the time left in the current session.
func (e *Engine) Remaining() time.Duration {
	return e.Session().Remaining(e.now())
}

// Session returns the current session.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}
