package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

func assertWellFormed(t *testing.T, text string) {
	t.Helper()
	if text == "" {
		t.Fatalf("expected non-empty text")
	}
	if strings.TrimSpace(text) != text {
		t.Fatalf("expected no surrounding whitespace: %q", text)
	}
	if strings.Contains(text, "  ") {
		t.Fatalf("expected single spaces: %q", text)
	}
}

func TestReferenceTextWordCounts(t *testing.T) {
	p, err := New(WithSeed(1))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	cases := []struct {
		cfg  model.TestConfig
		want int
	}{
		{cfg: model.TestConfig{Mode: model.ModeWords, WordCount: 10}, want: 10},
		{cfg: model.TestConfig{Mode: model.ModeWords, WordCount: 50, Punctuation: true, Numbers: true}, want: 50},
		{cfg: model.TestConfig{Mode: model.ModeTime, TimeLimit: 30}, want: TimeModeWords},
	}
	for _, tc := range cases {
		text, err := p.ReferenceText(tc.cfg)
		if err != nil {
			t.Fatalf("reference text: %v", err)
		}
		assertWellFormed(t, text)
		if got := len(strings.Split(text, " ")); got != tc.want {
			t.Fatalf("expected %d words, got %d", tc.want, got)
		}
	}
}

func TestReferenceTextPlainWordsComeFromList(t *testing.T) {
	p, err := New(WithSeed(7))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	words, err := p.Words("en")
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	known := map[string]bool{}
	for _, w := range words {
		known[w] = true
	}
	text, err := p.ReferenceText(model.TestConfig{Mode: model.ModeWords, WordCount: 100})
	if err != nil {
		t.Fatalf("reference text: %v", err)
	}
	for _, w := range strings.Split(text, " ") {
		if !known[w] {
			t.Fatalf("unexpected word %q without punctuation/numbers", w)
		}
	}
}

func TestReferenceTextQuoteAndCustom(t *testing.T) {
	quotes := []Quote{{Text: "Only quote here.", Source: "test"}}
	p, err := New(WithQuotes(quotes))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	text, err := p.ReferenceText(model.TestConfig{Mode: model.ModeQuote})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if text != "Only quote here." {
		t.Fatalf("unexpected quote %q", text)
	}
	text, err = p.ReferenceText(model.TestConfig{Mode: model.ModeCustom, CustomText: "  hello \n\t world  "})
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("expected normalized custom text, got %q", text)
	}
	if _, err := p.ReferenceText(model.TestConfig{Mode: model.ModeCustom, CustomText: " "}); err == nil {
		t.Fatalf("expected error for blank custom text")
	}
}

func TestWordsPrefersWordListDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en.txt"), []byte("zebra\nYak\nquokka\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	p, err := New(WithWordListDir(dir), WithSeed(3))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	words, err := p.Words("en")
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if len(words) != 2 || words[0] != "zebra" || words[1] != "quokka" {
		t.Fatalf("expected filtered custom list, got %v", words)
	}
	if _, err := p.Words("xx"); err == nil {
		t.Fatalf("expected error for language without list")
	}
}

func TestBuiltinQuotesAreNormalized(t *testing.T) {
	quotes, err := BuiltinQuotes()
	if err != nil {
		t.Fatalf("builtin quotes: %v", err)
	}
	if len(quotes) == 0 {
		t.Fatalf("expected builtin quotes")
	}
	for _, q := range quotes {
		assertWellFormed(t, q.Text)
	}
}

func TestReadQuotesRejectsUnknownFields(t *testing.T) {
	if _, err := ReadQuotes(strings.NewReader("- text: hi\n  author: me\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
	quotes, err := ReadQuotes(strings.NewReader("- text: \"  spaced   out \"\n- text: \"\"\n"))
	if err != nil {
		t.Fatalf("read quotes: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Text != "spaced out" {
		t.Fatalf("unexpected quotes: %+v", quotes)
	}
}
