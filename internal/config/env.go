package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognized by EnvConfig.
const (
	EnvMode        = "TYPETEST_MODE"
	EnvTime        = "TYPETEST_TIME"
	EnvWords       = "TYPETEST_WORDS"
	EnvPunctuation = "TYPETEST_PUNCTUATION"
	EnvNumbers     = "TYPETEST_NUMBERS"
	EnvLang        = "TYPETEST_LANG"
	EnvQuotesFile  = "TYPETEST_QUOTES_FILE"
	EnvUser        = "TYPETEST_USER"
	EnvPostgresDSN = "TYPETEST_POSTGRES_DSN"
	EnvLogLevel    = "TYPETEST_LOG_LEVEL"
)

// LoadEnv loads .env files into the process environment. Missing files are
// skipped and variables that are already set are kept.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// EnvConfig reads TYPETEST_* variables into a FileConfig.
func EnvConfig() (FileConfig, error) {
	var cfg FileConfig
	cfg.Test.Mode = envString(EnvMode)
	cfg.Test.Lang = envString(EnvLang)
	cfg.Test.QuotesFile = envString(EnvQuotesFile)
	cfg.Test.User = envString(EnvUser)
	cfg.Sync.PostgresDSN = envString(EnvPostgresDSN)

	var err error
	if cfg.Test.Time, err = envInt(EnvTime); err != nil {
		return FileConfig{}, err
	}
	if cfg.Test.Words, err = envInt(EnvWords); err != nil {
		return FileConfig{}, err
	}
	if cfg.Test.Punctuation, err = envBool(EnvPunctuation); err != nil {
		return FileConfig{}, err
	}
	if cfg.Test.Numbers, err = envBool(EnvNumbers); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func envString(key string) *string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func envInt(key string) (*int, error) {
	v := envString(key)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &n, nil
}

func envBool(key string) (*bool, error) {
	v := envString(key)
	if v == nil {
		return nil, nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &b, nil
}
