package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

type memorySink struct {
	mu      sync.Mutex
	results []model.Result
	err     error
}

func (m *memorySink) Submit(_ context.Context, res model.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.results = append(m.results, res)
	return nil
}

func TestFanoutSubmitsToEverySink(t *testing.T) {
	a := &memorySink{}
	b := &memorySink{}
	f := NewFanout(NamedSink{Name: "a", Sink: a}, NamedSink{Name: "b", Sink: b})

	if err := f.Submit(context.Background(), model.Result{ID: "x"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(a.results) != 1 || len(b.results) != 1 {
		t.Fatalf("expected both sinks to receive result, got %d and %d", len(a.results), len(b.results))
	}
}

func TestFanoutJoinsFailures(t *testing.T) {
	boom := errors.New("boom")
	ok := &memorySink{}
	bad := &memorySink{err: boom}
	f := NewFanout(NamedSink{Name: "local", Sink: ok}, NamedSink{Name: "remote", Sink: bad})

	err := f.Submit(context.Background(), model.Result{ID: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "remote") {
		t.Fatalf("expected sink name in error, got %q", err.Error())
	}
	if len(ok.results) != 1 {
		t.Fatalf("expected healthy sink to still receive result")
	}
}

func TestFanoutWithoutSinks(t *testing.T) {
	if err := NewFanout().Submit(context.Background(), model.Result{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
