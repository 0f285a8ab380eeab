package lighting

import (
	"codeberg.org/halvar/luxaudit/internal/errors"
)

const (
	// DefaultNightStart is the hour lighting is expected to be off from.
	DefaultNightStart = 20
	// DefaultNightEnd is the end-of-night boundary hour.
	DefaultNightEnd = 6
	// DefaultMinOnFraction is the share of night samples that must read
	// "on" before the night counts as excessively lit.
	DefaultMinOnFraction = 0.5
)

// Config holds the detection parameters.
type Config struct {
	NightStart    int
	NightEnd      int
	OnThreshold   float64
	MinOnFraction float64
}

func DefaultConfig() Config {
	return Config{
		NightStart:    DefaultNightStart,
		NightEnd:      DefaultNightEnd,
		OnThreshold:   0,
		MinOnFraction: DefaultMinOnFraction,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.NightStart < 0 || c.NightStart > 23 || c.NightEnd < 0 || c.NightEnd > 23 {
		return errFactory.WithData(errors.ErrInvalidInput, struct {
			Reason     string
			NightStart int
			NightEnd   int
		}{
			Reason:     "night_hour_out_of_range",
			NightStart: c.NightStart,
			NightEnd:   c.NightEnd,
		})
	}

	if c.NightStart == c.NightEnd {
		return errFactory.WithData(errors.ErrInvalidInput, struct {
			Reason     string
			NightStart int
			NightEnd   int
		}{
			Reason:     "empty_night_window",
			NightStart: c.NightStart,
			NightEnd:   c.NightEnd,
		})
	}

	if c.MinOnFraction < 0 || c.MinOnFraction > 1 {
		return errFactory.WithData(errors.ErrInvalidInput, struct {
			Reason   string
			Fraction float64
		}{
			Reason:   "fraction_out_of_range",
			Fraction: c.MinOnFraction,
		})
	}

	return nil
}
