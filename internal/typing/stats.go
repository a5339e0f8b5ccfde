package typing

import (
	"math"

	"github.com/verte-zerg/typetest/internal/model"
)

// charsPerWord is the standard typing-speed word length.
const charsPerWord = 5.0

// Stats is a point-in-time scoring snapshot.
type Stats struct {
	WPM        float64
	RawWPM     float64
	Accuracy   float64
	Correct    int
	Incorrect  int
	Characters int
	Elapsed    float64
}

// ComputeStats scores typed against reference over elapsedSeconds.
//
// Positions beyond the shorter of the two strings are counted as incorrect,
// whether they are missing or overtyped. Rates are zero when no time has
// elapsed and accuracy is zero when nothing was typed.
func ComputeStats(typed, reference string, elapsedSeconds float64) Stats {
	return computeStats([]rune(typed), []rune(reference), elapsedSeconds)
}

func computeStats(typed, reference []rune, elapsedSeconds float64) Stats {
	minLen := min(len(typed), len(reference))
	correct, incorrect := 0, 0
	for i := 0; i < minLen; i++ {
		if typed[i] == reference[i] {
			correct++
		} else {
			incorrect++
		}
	}
	incorrect += absInt(len(typed) - len(reference))

	var wpm, raw, acc float64
	if elapsedSeconds > 0 {
		raw = float64(len(typed)) / charsPerWord / elapsedSeconds * 60
		wpm = float64(correct) / charsPerWord / elapsedSeconds * 60
	}
	if len(typed) > 0 {
		acc = float64(correct) / float64(len(typed)) * 100
	}
	return Stats{
		WPM:        round2(wpm),
		RawWPM:     round2(raw),
		Accuracy:   round2(acc),
		Correct:    correct,
		Incorrect:  incorrect,
		Characters: len(typed),
		Elapsed:    round2(elapsedSeconds),
	}
}

// CharTallies counts correct and incorrect attempts per reference character
// over the typed prefix. Spaces are skipped.
func CharTallies(typed, reference string) []model.CharStats {
	t := []rune(typed)
	r := []rune(reference)
	index := map[rune]int{}
	var out []model.CharStats
	for i := 0; i < len(t) && i < len(r); i++ {
		want := r[i]
		if want == ' ' {
			continue
		}
		pos, ok := index[want]
		if !ok {
			pos = len(out)
			index[want] = pos
			out = append(out, model.CharStats{Char: string(want)})
		}
		if t[i] == want {
			out[pos].Correct++
		} else {
			out[pos].Incorrect++
		}
	}
	return out
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
