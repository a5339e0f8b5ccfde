package wordlist

import (
	"slices"
	"testing"
)

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestApplyKeepsOrder(t *testing.T) {
	got := Apply([]string{"one", "Two", "three", "4"}, FilterForLang("en"))
	if !slices.Equal(got, []string{"one", "three"}) {
		t.Fatalf("unexpected filtered words: %v", got)
	}
}

func TestFilterOtherLangRejectsBlanks(t *testing.T) {
	filter := FilterForLang("de")
	if !filter("straße") {
		t.Fatalf("expected unicode word to pass")
	}
	if filter(" ") || filter("zwei worte") {
		t.Fatalf("expected blank or multi-word entries to be rejected")
	}
}
