package typing

import (
	"slices"
	"testing"
)

func TestCharacterStatuses(t *testing.T) {
	cases := []struct {
		typed     string
		reference string
		want      []CharStatus
	}{
		{typed: "cat", reference: "cat", want: []CharStatus{Correct, Correct, Correct}},
		{typed: "cot", reference: "cat", want: []CharStatus{Correct, Incorrect, Correct}},
		{typed: "cats", reference: "cat", want: []CharStatus{Correct, Correct, Correct, Extra}},
		{typed: "c", reference: "cat", want: []CharStatus{Correct, Pending, Pending}},
		{typed: "ab", reference: "", want: []CharStatus{Extra, Extra}},
		{typed: "", reference: "", want: []CharStatus{}},
	}
	for _, tc := range cases {
		got := CharacterStatuses(tc.typed, tc.reference)
		if !slices.Equal(got, tc.want) {
			t.Fatalf("typed=%q ref=%q: expected %v, got %v", tc.typed, tc.reference, tc.want, got)
		}
	}
}

func TestCharacterStatusesCountsRunes(t *testing.T) {
	got := CharacterStatuses("né", "né")
	if len(got) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(got))
	}
	for _, st := range got {
		if st != Correct {
			t.Fatalf("expected all correct, got %v", got)
		}
	}
}

func TestCharStatusString(t *testing.T) {
	if Extra.String() != "extra" || Pending.String() != "pending" {
		t.Fatalf("unexpected names: %s %s", Extra, Pending)
	}
}
