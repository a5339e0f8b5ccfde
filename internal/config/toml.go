// Package config provides configuration helpers, TOML parsing and
// environment overrides.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
	Sync SyncConfig `toml:"sync"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Mode        *string `toml:"mode"`
	Time        *int    `toml:"time"`
	Words       *int    `toml:"words"`
	Punctuation *bool   `toml:"punctuation"`
	Numbers     *bool   `toml:"numbers"`
	Lang        *string `toml:"lang"`
	QuotesFile  *string `toml:"quotes-file"`
	User        *string `toml:"user"`
}

// SyncConfig maps remote publishing settings.
type SyncConfig struct {
	PostgresDSN *string `toml:"postgres-dsn"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// Merge returns base with every key set in over applied on top.
func Merge(base, over FileConfig) FileConfig {
	out := base
	mergePtr(&out.Test.Mode, over.Test.Mode)
	mergePtr(&out.Test.Time, over.Test.Time)
	mergePtr(&out.Test.Words, over.Test.Words)
	mergePtr(&out.Test.Punctuation, over.Test.Punctuation)
	mergePtr(&out.Test.Numbers, over.Test.Numbers)
	mergePtr(&out.Test.Lang, over.Test.Lang)
	mergePtr(&out.Test.QuotesFile, over.Test.QuotesFile)
	mergePtr(&out.Test.User, over.Test.User)
	mergePtr(&out.Sync.PostgresDSN, over.Sync.PostgresDSN)
	return out
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
