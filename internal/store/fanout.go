package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/typetest/internal/model"
)

// Sink receives finished results.
type Sink interface {
	Submit(ctx context.Context, res model.Result) error
}

// NamedSink labels a sink for error reporting.
type NamedSink struct {
	Name string
	Sink Sink
}

// Fanout submits each result to every sink concurrently. A failing sink
// does not stop the others; all failures are joined.
type Fanout struct {
	sinks []NamedSink
}

// NewFanout builds a Fanout over sinks.
func NewFanout(sinks ...NamedSink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Submit implements Sink.
func (f *Fanout) Submit(ctx context.Context, res model.Result) error {
	errs := make([]error, len(f.sinks))
	var g errgroup.Group
	for i, ns := range f.sinks {
		i, ns := i, ns
		g.Go(func() error {
			if err := ns.Sink.Submit(ctx, res); err != nil {
				errs[i] = fmt.Errorf("%s: %w", ns.Name, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
