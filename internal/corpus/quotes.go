package corpus

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed quotes.yaml
var embeddedQuotes []byte

// Quote is a quote-mode text with its attribution.
type Quote struct {
	Text   string `yaml:"text"`
	Source string `yaml:"source"`
}

// BuiltinQuotes returns the quotes shipped with the binary.
func BuiltinQuotes() ([]Quote, error) {
	return ReadQuotes(bytes.NewReader(embeddedQuotes))
}

// LoadQuotes reads a YAML quote list from path.
func LoadQuotes(path string) ([]Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quotes file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	quotes, err := ReadQuotes(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quotes file %s: %w", path, err)
	}
	return quotes, nil
}

// ReadQuotes decodes a YAML sequence of quotes. Text is normalized and
// entries left empty are dropped.
func ReadQuotes(r io.Reader) ([]Quote, error) {
	var raw []Quote
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}
	quotes := lo.FilterMap(raw, func(q Quote, _ int) (Quote, bool) {
		q.Text = Normalize(q.Text)
		return q, q.Text != ""
	})
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quotes found")
	}
	return quotes, nil
}
