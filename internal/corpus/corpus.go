// Package corpus supplies reference text for typing tests: random words,
// quotes and user-provided text.
package corpus

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

// TimeModeWords is how many words a time-boxed test draws.
const TimeModeWords = 100

//go:embed words_en.txt
var embeddedWords []byte

// Provider draws reference text. It is safe for concurrent use.
type Provider struct {
	mu  sync.Mutex
	rnd *rand.Rand

	wordListDir string
	quotes      []Quote
	lists       map[string][]string
	opts        GenOptions
}

// Option customizes a Provider.
type Option func(*Provider)

// WithWordListDir looks up <lang>.txt word lists in dir before falling back
// to the built-in English list.
func WithWordListDir(dir string) Option {
	return func(p *Provider) {
		p.wordListDir = dir
	}
}

// WithQuotes replaces the built-in quotes.
func WithQuotes(quotes []Quote) Option {
	return func(p *Provider) {
		p.quotes = quotes
	}
}

// WithSeed makes word and quote selection deterministic.
func WithSeed(seed int64) Option {
	return func(p *Provider) {
		p.rnd = rand.New(rand.NewSource(seed))
	}
}

// WithGenOptions overrides the punctuation and number probabilities.
func WithGenOptions(opts GenOptions) Option {
	return func(p *Provider) {
		p.opts = opts
	}
}

// New returns a Provider seeded with the current time.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		lists: map[string][]string{},
		opts:  DefaultGenOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.quotes == nil {
		quotes, err := BuiltinQuotes()
		if err != nil {
			return nil, err
		}
		p.quotes = quotes
	}
	if len(p.quotes) == 0 {
		return nil, fmt.Errorf("quote list is empty")
	}
	return p, nil
}

// ReferenceText draws the text for a test. The result has words separated
// by single spaces and no surrounding whitespace.
func (p *Provider) ReferenceText(cfg model.TestConfig) (string, error) {
	switch cfg.Mode {
	case model.ModeTime:
		return p.randomWords(cfg, TimeModeWords)
	case model.ModeWords:
		return p.randomWords(cfg, cfg.WordCount)
	case model.ModeQuote:
		return p.RandomQuote().Text, nil
	case model.ModeCustom:
		text := Normalize(cfg.CustomText)
		if text == "" {
			return "", fmt.Errorf("custom text is empty")
		}
		return text, nil
	default:
		return "", fmt.Errorf("unsupported mode %q", cfg.Mode)
	}
}

// RandomQuote picks one quote.
func (p *Provider) RandomQuote() Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quotes[p.rnd.Intn(len(p.quotes))]
}

// Quotes returns the quotes the provider draws from.
func (p *Provider) Quotes() []Quote {
	return append([]Quote(nil), p.quotes...)
}

func (p *Provider) randomWords(cfg model.TestConfig, count int) (string, error) {
	if count <= 0 {
		return "", fmt.Errorf("word count must be > 0")
	}
	words, err := p.Words(cfg.Lang)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	opts := p.opts
	opts.Punctuation = cfg.Punctuation
	opts.Numbers = cfg.Numbers
	return strings.Join(generate(p.rnd, words, count, opts), " "), nil
}

// Words returns the word list for lang.
func (p *Provider) Words(lang string) ([]string, error) {
	if lang == "" {
		lang = "en"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if words, ok := p.lists[lang]; ok {
		return words, nil
	}
	words, err := p.loadWords(lang)
	if err != nil {
		return nil, err
	}
	p.lists[lang] = words
	return words, nil
}

func (p *Provider) loadWords(lang string) ([]string, error) {
	if p.wordListDir != "" {
		path := wordlist.Path(p.wordListDir, lang)
		words, err := wordlist.LoadWords(path)
		switch {
		case err == nil:
			words = wordlist.Apply(words, wordlist.FilterForLang(lang))
			if len(words) == 0 {
				return nil, fmt.Errorf("word list %s has no usable words", path)
			}
			return words, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
	}
	if lang != "en" {
		return nil, fmt.Errorf("no word list for language %q", lang)
	}
	return wordlist.ReadWords(bytes.NewReader(embeddedWords))
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
