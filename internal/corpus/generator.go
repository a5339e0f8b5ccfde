package corpus

import (
	"math/rand"
	"strconv"
	"unicode"
)

// GenOptions controls decoration of generated words.
type GenOptions struct {
	Punctuation bool
	Numbers     bool
	PunctPct    float64
	CapsPct     float64
	NumberPct   float64
	PunctSet    []rune
}

// DefaultGenOptions returns the probabilities used for random word tests.
func DefaultGenOptions() GenOptions {
	return GenOptions{
		PunctPct:  0.3,
		CapsPct:   0.2,
		NumberPct: 0.15,
		PunctSet:  []rune(".,!?;:"),
	}
}

func generate(rnd *rand.Rand, words []string, count int, opts GenOptions) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var word string
		if opts.Numbers && rnd.Float64() < opts.NumberPct {
			word = randomNumber(rnd)
		} else {
			word = words[rnd.Intn(len(words))]
		}
		if opts.Punctuation {
			word = applyCaps(rnd, word, opts.CapsPct)
			word = applyPunct(rnd, word, opts.PunctPct, opts.PunctSet)
		}
		result = append(result, word)
	}
	return result
}

func randomNumber(rnd *rand.Rand) string {
	digits := 1 + rnd.Intn(4)
	n := rnd.Intn(pow10(digits))
	return strconv.Itoa(n)
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() >= capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() >= punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
