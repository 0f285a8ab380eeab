package series

import (
	"math"
	"time"

	"codeberg.org/halvar/luxaudit/internal/errors"
)

// Sample is a single timestamped sensor reading. Immutable once recorded.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// Series is an ordered sequence of samples, ascending by timestamp,
// with no duplicate timestamps.
type Series []Sample

// Validate checks the series invariants. It never mutates the series.
func (s Series) Validate() error {
	errFactory := errors.New()

	for i := range s {
		if math.IsNaN(s[i].Value) || math.IsInf(s[i].Value, 0) {
			return errFactory.WithData(errors.ErrInvalidInput, struct {
				Reason string
				Index  int
			}{
				Reason: "non_finite_value",
				Index:  i,
			})
		}

		if i == 0 {
			continue
		}

		if !s[i].Timestamp.After(s[i-1].Timestamp) {
			return errFactory.WithData(errors.ErrInvalidInput, struct {
				Reason string
				Index  int
			}{
				Reason: "non_ascending_timestamps",
				Index:  i,
			})
		}
	}

	return nil
}

// Filter returns the samples whose timestamps fall inside the window.
// The receiver is left untouched.
func (s Series) Filter(w Window) Series {
	var filtered Series
	for _, sample := range s {
		if w.Contains(sample.Timestamp) {
			filtered = append(filtered, sample)
		}
	}

	return filtered
}
