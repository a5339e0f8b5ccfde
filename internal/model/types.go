// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode selects how a test is bounded.
type Mode string

// Test modes.
const (
	ModeTime   Mode = "time"
	ModeWords  Mode = "words"
	ModeQuote  Mode = "quote"
	ModeCustom Mode = "custom"
)

// Recognized limits per mode.
var (
	TimeLimits = []int{15, 30, 60, 120}
	WordCounts = []int{10, 25, 50, 100}
)

// TestConfig defines the settings of a typing test.
type TestConfig struct {
	Mode        Mode
	TimeLimit   int
	WordCount   int
	Punctuation bool
	Numbers     bool
	Lang        string
	CustomText  string
	User        string
}

// ModeLimit returns seconds for time mode, the word count for words mode
// and zero otherwise.
func (c TestConfig) ModeLimit() int {
	switch c.Mode {
	case ModeTime:
		return c.TimeLimit
	case ModeWords:
		return c.WordCount
	default:
		return 0
	}
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	User        string
	Lang        string
	Mode        Mode
	Since       *time.Time
	Last        int
	CurveWindow int
	WeakWindow  int
}

// Result is the frozen record of a finished test.
type Result struct {
	ID        string
	User      string
	Lang      string
	Mode      Mode
	ModeLimit int
	StartedAt time.Time
	EndedAt   time.Time

	WPM        float64
	RawWPM     float64
	Accuracy   float64
	Correct    int
	Incorrect  int
	Characters int
	Elapsed    float64

	Reference string
	Typed     string
	Chars     []CharStats
}

// Bucket identifies the leaderboard category of a result.
func (r Result) Bucket() Bucket {
	return Bucket{Mode: r.Mode, Limit: r.ModeLimit}
}

// CharStats stores per-character tallies for a result.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across results.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// Bucket is a mode/limit pair such as time 30 or words 25.
type Bucket struct {
	Mode  Mode
	Limit int
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s %d", b.Mode, b.Limit)
}

// RankedBuckets lists every bucket that personal bests are tracked for.
func RankedBuckets() []Bucket {
	out := make([]Bucket, 0, len(TimeLimits)+len(WordCounts))
	for _, l := range TimeLimits {
		out = append(out, Bucket{Mode: ModeTime, Limit: l})
	}
	for _, l := range WordCounts {
		out = append(out, Bucket{Mode: ModeWords, Limit: l})
	}
	return out
}
