package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typetest/internal/model"
)

type fakeSource struct {
	results []model.Result
	aggs    []model.CharAggregate
	err     error
	lastCfg model.StatsConfig
}

func (f *fakeSource) ListResults(_ context.Context, cfg model.StatsConfig) ([]model.Result, error) {
	f.lastCfg = cfg
	return f.results, f.err
}

func (f *fakeSource) ListCharAggregates(context.Context, []string) ([]model.CharAggregate, error) {
	return f.aggs, nil
}

func sampleSource() *fakeSource {
	end := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	return &fakeSource{
		results: []model.Result{
			{ID: "1", Mode: model.ModeTime, ModeLimit: 30, WPM: 50, Accuracy: 94, Elapsed: 30, EndedAt: end},
			{ID: "2", Mode: model.ModeQuote, WPM: 64.25, Accuracy: 98, Elapsed: 21.5, EndedAt: end.Add(time.Hour)},
		},
		aggs: []model.CharAggregate{{Char: "z", Correct: 1, Incorrect: 2}},
	}
}

func TestOverviewShowsSummary(t *testing.T) {
	m := NewModel(context.Background(), sampleSource(), model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "Best WPM", "Personal Bests", "time 30"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestHistoryRowsNewestFirst(t *testing.T) {
	rows := historyRows(sampleSource().results)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "quote" || rows[1][1] != "time 30" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[0][2] != "64.25" {
		t.Fatalf("unexpected wpm cell: %q", rows[0][2])
	}
}

func TestCharRows(t *testing.T) {
	rows := charRows([]model.CharAggregate{{Char: "z", Correct: 1, Incorrect: 3}})
	if rows[0][1] != "25.00%" || rows[0][4] != "4" {
		t.Fatalf("unexpected char row: %v", rows[0])
	}
}

func TestTabNavigation(t *testing.T) {
	m := NewModel(context.Background(), sampleSource(), model.StatsConfig{})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabChars {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	if !m.tables[tabChars].Focused() {
		t.Fatalf("expected active table to be focused")
	}
}

func TestApplyFilter(t *testing.T) {
	src := sampleSource()
	m := NewModel(context.Background(), src, model.StatsConfig{User: "ana"})
	m.startFilter()
	m.filterInputs[1].SetValue("words")
	m.filterInputs[3].SetValue("5")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter to close: %s", m.filterError)
	}
	if src.lastCfg.Mode != model.ModeWords || src.lastCfg.Last != 5 || src.lastCfg.User != "ana" {
		t.Fatalf("unexpected applied config: %+v", src.lastCfg)
	}

	m.startFilter()
	m.filterInputs[1].SetValue("sprint")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected invalid mode to keep the form open")
	}
}

func TestLoadErrorShown(t *testing.T) {
	m := NewModel(context.Background(), &fakeSource{err: errors.New("locked")}, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	if !strings.Contains(m.View(), "locked") {
		t.Fatalf("expected error in footer:\n%s", m.View())
	}
}

func TestCurveWindowSteps(t *testing.T) {
	if nextCurveWindow(1) != 5 || nextCurveWindow(5) != 10 || nextCurveWindow(7) != 10 {
		t.Fatalf("unexpected next windows")
	}
	if prevCurveWindow(10) != 5 || prevCurveWindow(7) != 5 || prevCurveWindow(5) != 1 {
		t.Fatalf("unexpected prev windows")
	}
}
