package series

import (
	"time"

	"codeberg.org/halvar/luxaudit/internal/errors"
)

// Window is a recurring hour-of-day window. When Start > End the window
// wraps midnight (e.g. Start=20, End=6 covers 20:00 through 05:59).
type Window struct {
	Start int
	End   int
}

// NewWindow validates the hour bounds and returns the window.
func NewWindow(start, end int) (Window, error) {
	errFactory := errors.New()

	if start < 0 || start > 23 || end < 0 || end > 23 {
		return Window{}, errFactory.WithData(errors.ErrInvalidInput, struct {
			Reason string
			Start  int
			End    int
		}{
			Reason: "hour_out_of_range",
			Start:  start,
			End:    end,
		})
	}

	// Equal bounds would describe a window containing no hour at all.
	if start == end {
		return Window{}, errFactory.WithData(errors.ErrInvalidInput, struct {
			Reason string
			Start  int
			End    int
		}{
			Reason: "empty_window",
			Start:  start,
			End:    end,
		})
	}

	return Window{Start: start, End: end}, nil
}

// Contains reports whether the timestamp's hour of day falls inside the window.
func (w Window) Contains(t time.Time) bool {
	h := t.Hour()
	if w.Start > w.End {
		return h >= w.Start || h < w.End
	}

	return h >= w.Start && h < w.End
}

// NightOf returns the calendar date the timestamp's night belongs to.
// For a wrapping window, morning hours count toward the previous day's night.
func (w Window) NightOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if w.Start > w.End && t.Hour() < w.End {
		return day.AddDate(0, 0, -1)
	}

	return day
}
