package typing

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

// ErrInvalidConfig reports a mode/limit combination the engine does not support.
var ErrInvalidConfig = errors.New("invalid test config")

// ValidateConfig rejects unsupported test configurations.
func ValidateConfig(cfg model.TestConfig) error {
	switch cfg.Mode {
	case model.ModeTime:
		if !slices.Contains(model.TimeLimits, cfg.TimeLimit) {
			return fmt.Errorf("%w: time limit %d is not one of %v", ErrInvalidConfig, cfg.TimeLimit, model.TimeLimits)
		}
	case model.ModeWords:
		if !slices.Contains(model.WordCounts, cfg.WordCount) {
			return fmt.Errorf("%w: word count %d is not one of %v", ErrInvalidConfig, cfg.WordCount, model.WordCounts)
		}
	case model.ModeQuote:
	case model.ModeCustom:
		if strings.TrimSpace(cfg.CustomText) == "" {
			return fmt.Errorf("%w: custom mode needs text", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, cfg.Mode)
	}
	return nil
}

// ParseMode converts a user-supplied mode name.
func ParseMode(s string) (model.Mode, error) {
	m := model.Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case model.ModeTime, model.ModeWords, model.ModeQuote, model.ModeCustom:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}
