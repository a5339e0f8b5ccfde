// Package stats contains profile statistics and reporting.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetest/internal/model"
)

const (
	sparkChars   = " .:-=+*#%@"
	recentWindow = 10
)

// Summary holds profile totals across results.
type Summary struct {
	TestsCompleted  int
	TimeTyping      time.Duration
	HighestWPM      float64
	AverageWPM      float64
	AverageAccuracy float64
	RecentWPM       float64
}

// Summarize computes profile totals. Results are expected oldest first.
func Summarize(results []model.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	var sum Summary
	sum.TestsCompleted = len(results)
	elapsed := lo.SumBy(results, func(r model.Result) float64 { return r.Elapsed })
	sum.TimeTyping = time.Duration(elapsed * float64(time.Second))
	sum.HighestWPM = lo.MaxBy(results, func(a, b model.Result) bool { return a.WPM > b.WPM }).WPM
	sum.AverageWPM = round2(meanBy(results, func(r model.Result) float64 { return r.WPM }))
	sum.AverageAccuracy = round2(meanBy(results, func(r model.Result) float64 { return r.Accuracy }))
	recent := results
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	sum.RecentWPM = round2(meanBy(recent, func(r model.Result) float64 { return r.WPM }))
	return sum
}

// BucketBest is the personal best of one bucket. Best is nil when the
// bucket has no results.
type BucketBest struct {
	Bucket model.Bucket
	Best   *model.Result
}

// PersonalBests returns one entry per ranked bucket. Highest WPM wins and
// ties keep the earlier result.
func PersonalBests(results []model.Result) []BucketBest {
	buckets := model.RankedBuckets()
	index := make(map[model.Bucket]int, len(buckets))
	out := make([]BucketBest, len(buckets))
	for i, b := range buckets {
		index[b] = i
		out[i].Bucket = b
	}
	for i := range results {
		res := results[i]
		pos, ok := index[res.Bucket()]
		if !ok {
			continue
		}
		if cur := out[pos].Best; cur == nil || res.WPM > cur.WPM {
			out[pos].Best = &res
		}
	}
	return out
}

// WPMTrend returns the moving average of WPM over results.
func WPMTrend(results []model.Result, window int) []float64 {
	values := lo.Map(results, func(r model.Result, _ int) float64 { return r.WPM })
	return MovingAverage(values, window)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := lo.Min(values)
	maxVal := lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func meanBy(results []model.Result, fn func(model.Result) float64) float64 {
	if len(results) == 0 {
		return 0
	}
	return lo.SumBy(results, fn) / float64(len(results))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
