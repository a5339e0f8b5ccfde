// Package typing implements the typing test scoring engine: per-character
// classification, WPM/accuracy statistics and the session state machine.
package typing

// CharStatus classifies one position of the reference/typed alignment.
type CharStatus int

// Character statuses.
const (
	Pending CharStatus = iota
	Correct
	Incorrect
	Extra
)

func (s CharStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Extra:
		return "extra"
	default:
		return "unknown"
	}
}

// CharacterStatuses classifies every reference position plus any overtyped
// positions. The result has max(len(typed), len(reference)) entries, counted
// in runes.
func CharacterStatuses(typed, reference string) []CharStatus {
	return characterStatuses([]rune(typed), []rune(reference))
}

func characterStatuses(typed, reference []rune) []CharStatus {
	n := len(reference)
	if len(typed) > n {
		n = len(typed)
	}
	out := make([]CharStatus, 0, n)
	for i, want := range reference {
		switch {
		case i >= len(typed):
			out = append(out, Pending)
		case typed[i] == want:
			out = append(out, Correct)
		default:
			out = append(out, Incorrect)
		}
	}
	for i := len(reference); i < len(typed); i++ {
		out = append(out, Extra)
	}
	return out
}
