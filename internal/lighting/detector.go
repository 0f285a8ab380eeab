package lighting

import (
	"time"

	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/series"
)

// Verdict summarizes one detection run over a series.
type Verdict struct {
	Window       series.Window
	NightSamples int
	OnSamples    int
	OnFraction   float64
	Excessive    bool
	Nights       []NightSummary
}

// NightSummary is the per-night breakdown behind a verdict.
type NightSummary struct {
	Date       time.Time
	Samples    int
	OnSamples  int
	OnFraction float64
	Excessive  bool
}

// Detector evaluates light-sensor series against a night window. It is a
// pure evaluator: inputs are never mutated and identical inputs yield
// identical verdicts.
type Detector struct {
	cfg    Config
	window series.Window
}

func New(cfg Config) (Detector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return Detector{}, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	window, err := series.NewWindow(cfg.NightStart, cfg.NightEnd)
	if err != nil {
		return Detector{}, err
	}

	return Detector{cfg: cfg, window: window}, nil
}

// Evaluate runs the detection over the series. An empty series, or one with
// no samples inside the night window, yields a non-excessive verdict.
func (d Detector) Evaluate(s series.Series) (Verdict, error) {
	if err := s.Validate(); err != nil {
		return Verdict{}, err
	}

	verdict := Verdict{Window: d.window}

	for _, night := range s.Nights(d.window) {
		summary := NightSummary{
			Date:    night.Date,
			Samples: len(night.Samples),
		}

		for _, sample := range night.Samples {
			if sample.Value > d.cfg.OnThreshold {
				summary.OnSamples++
			}
		}

		summary.OnFraction = float64(summary.OnSamples) / float64(summary.Samples)
		summary.Excessive = summary.OnSamples > 0 && summary.OnFraction >= d.cfg.MinOnFraction

		verdict.NightSamples += summary.Samples
		verdict.OnSamples += summary.OnSamples
		verdict.Nights = append(verdict.Nights, summary)
	}

	if verdict.NightSamples > 0 {
		verdict.OnFraction = float64(verdict.OnSamples) / float64(verdict.NightSamples)
		verdict.Excessive = verdict.OnSamples > 0 && verdict.OnFraction >= d.cfg.MinOnFraction
	}

	return verdict, nil
}

// ExcessiveNighttime reports whether lighting is anomalously on during the
// night window starting at thresholdHour and ending at the default
// end-of-night boundary. A sample counts as "on" when its value is non-zero.
func ExcessiveNighttime(s series.Series, thresholdHour int) (bool, error) {
	cfg := DefaultConfig()
	cfg.NightStart = thresholdHour

	detector, err := New(cfg)
	if err != nil {
		return false, err
	}

	verdict, err := detector.Evaluate(s)
	if err != nil {
		return false, err
	}

	return verdict.Excessive, nil
}
