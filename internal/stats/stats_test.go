package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

func result(id string, mode model.Mode, limit int, wpm, acc, elapsed float64) model.Result {
	return model.Result{ID: id, Mode: mode, ModeLimit: limit, WPM: wpm, Accuracy: acc, Elapsed: elapsed}
}

func TestSummarize(t *testing.T) {
	results := []model.Result{
		result("1", model.ModeTime, 30, 40, 90, 30),
		result("2", model.ModeWords, 10, 60, 100, 12.5),
		result("3", model.ModeTime, 15, 50, 95, 15),
	}
	sum := Summarize(results)
	if sum.TestsCompleted != 3 {
		t.Fatalf("expected 3 tests, got %d", sum.TestsCompleted)
	}
	if sum.TimeTyping != 57500*time.Millisecond {
		t.Fatalf("unexpected time typing: %v", sum.TimeTyping)
	}
	if sum.HighestWPM != 60 || sum.AverageWPM != 50 || sum.AverageAccuracy != 95 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.RecentWPM != 50 {
		t.Fatalf("expected recent wpm 50, got %v", sum.RecentWPM)
	}
}

func TestSummarizeRecentWindow(t *testing.T) {
	var results []model.Result
	for i := 0; i < 12; i++ {
		wpm := 10.0
		if i >= 2 {
			wpm = 70
		}
		results = append(results, result("r", model.ModeTime, 15, wpm, 100, 15))
	}
	sum := Summarize(results)
	if sum.RecentWPM != 70 {
		t.Fatalf("expected recent window to skip oldest results, got %v", sum.RecentWPM)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if sum := Summarize(nil); sum != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestPersonalBests(t *testing.T) {
	results := []model.Result{
		result("first", model.ModeTime, 30, 80, 95, 30),
		result("slower", model.ModeTime, 30, 70, 99, 30),
		result("tie", model.ModeTime, 30, 80, 100, 30),
		result("words", model.ModeWords, 25, 55, 97, 20),
		result("quote", model.ModeQuote, 0, 120, 100, 20),
		result("odd", model.ModeTime, 45, 150, 100, 45),
	}
	bests := PersonalBests(results)
	if len(bests) != len(model.RankedBuckets()) {
		t.Fatalf("expected one entry per bucket, got %d", len(bests))
	}
	for _, b := range bests {
		switch b.Bucket {
		case model.Bucket{Mode: model.ModeTime, Limit: 30}:
			if b.Best == nil || b.Best.ID != "first" {
				t.Fatalf("expected earlier result to keep tie, got %+v", b.Best)
			}
		case model.Bucket{Mode: model.ModeWords, Limit: 25}:
			if b.Best == nil || b.Best.ID != "words" {
				t.Fatalf("unexpected words 25 best: %+v", b.Best)
			}
		default:
			if b.Best != nil {
				t.Fatalf("expected empty bucket %s, got %+v", b.Bucket, b.Best)
			}
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestWPMTrend(t *testing.T) {
	results := []model.Result{
		result("1", model.ModeTime, 15, 10, 100, 15),
		result("2", model.ModeTime, 15, 30, 100, 15),
	}
	trend := WPMTrend(results, 2)
	if len(trend) != 2 || trend[0] != 10 || trend[1] != 20 {
		t.Fatalf("unexpected trend: %v", trend)
	}
}
