package stats

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samber/lo"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/model"
)

const (
	defaultTrendWindow  = 5
	defaultWeakWindow   = 20
	defaultWeakTop      = 8
	terminalWidthBackup = 80
)

// Source loads stored results.
type Source interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.Result, error)
	ListCharAggregates(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results []model.Result
	Summary Summary
	Bests   []BucketBest
	Trend   []float64
	Weak    []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	results, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list results: %w", err)
	}
	curveWindow := cfg.CurveWindow
	if curveWindow <= 0 {
		curveWindow = defaultTrendWindow
	}
	weakWindow := cfg.WeakWindow
	if weakWindow <= 0 {
		weakWindow = defaultWeakWindow
	}

	windowIDs := lo.Map(lastResults(results, weakWindow), func(r model.Result, _ int) string { return r.ID })
	aggs, err := src.ListCharAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate characters: %w", err)
	}

	return Report{
		Results: results,
		Summary: Summarize(results),
		Bests:   PersonalBests(results),
		Trend:   WPMTrend(results, curveWindow),
		Weak:    WeakestChars(aggs, defaultWeakTop),
	}, nil
}

func lastResults(results []model.Result, n int) []model.Result {
	if n <= 0 || len(results) <= n {
		return results
	}
	return results[len(results)-n:]
}

// RenderReport writes the whole report as plain text.
func RenderReport(w io.Writer, r Report, width int) error {
	if len(r.Results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if err := RenderBests(w, r.Bests); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Trend, width); err != nil {
		return err
	}
	return RenderCharTable(w, r.Weak)
}

// RenderSummary prints profile totals.
func RenderSummary(w io.Writer, s Summary) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests completed: %d", s.TestsCompleted),
		fmt.Sprintf("Time typing: %s", FormatDuration(s.TimeTyping)),
		fmt.Sprintf("Highest WPM: %.2f", s.HighestWPM),
		fmt.Sprintf("Average WPM: %.2f", s.AverageWPM),
		fmt.Sprintf("Average accuracy: %.2f%%", s.AverageAccuracy),
		fmt.Sprintf("Recent WPM (last %d): %.2f", recentWindow, s.RecentWPM),
		"",
	}
	return writeLines(w, lines)
}

// RenderBests prints personal bests per bucket.
func RenderBests(w io.Writer, bests []BucketBest) error {
	if _, err := fmt.Fprintln(w, "Personal Bests"); err != nil {
		return err
	}
	headers := []string{"Test", "WPM", "Accuracy", "Raw", "Date"}
	rows := make([][]string, 0, len(bests))
	for _, b := range bests {
		if b.Best == nil {
			rows = append(rows, []string{b.Bucket.String(), "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			b.Bucket.String(),
			fmt.Sprintf("%.2f", b.Best.WPM),
			fmt.Sprintf("%.2f%%", b.Best.Accuracy),
			fmt.Sprintf("%.2f", b.Best.RawWPM),
			b.Best.EndedAt.Local().Format("2006-01-02"),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})
	return writeLines(w, append(lines, ""))
}

// RenderTrend prints the WPM moving average as a sparkline fitted to width.
func RenderTrend(w io.Writer, trend []float64, width int) error {
	if len(trend) == 0 {
		return nil
	}
	if width > 0 && len(trend) > width {
		trend = trend[len(trend)-width:]
	}
	lines := []string{
		"WPM Trend",
		Sparkline(trend),
		fmt.Sprintf("min %.1f  max %.1f  last %.1f", lo.Min(trend), lo.Max(trend), trend[len(trend)-1]),
		"",
	}
	return writeLines(w, lines)
}

// RenderCharTable prints the weakest characters.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Weakest Characters"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.Char,
			fmt.Sprintf("%.2f%%", CharAccuracy(agg)*100),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})
	return writeLines(w, append(lines, ""))
}

// FormatDuration renders a duration as h:mm:ss.
func FormatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// TerminalWidth returns the width of w when it is a terminal.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
