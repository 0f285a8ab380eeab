// Package report renders detection verdicts into user-facing analysis reports.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/lighting"
)

const (
	FormatText = "text"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Report is one rendered analysis run.
type Report struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Source      string
	Verdict     lighting.Verdict
}

// New stamps a verdict with a run id and generation time.
func New(source string, verdict lighting.Verdict) Report {
	return Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Verdict:     verdict,
	}
}

// Render writes the report to w in the requested format.
func (r Report) Render(format string, w io.Writer) error {
	errFactory := errors.New()

	switch format {
	case FormatText:
		return r.WriteText(w)
	case FormatPDF:
		out, err := r.PDF()
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		if err != nil {
			return errFactory.Wrap(errors.ErrRenderReport, err)
		}
		return nil
	case FormatXLSX:
		out, err := r.XLSX()
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		if err != nil {
			return errFactory.Wrap(errors.ErrRenderReport, err)
		}
		return nil
	default:
		return errFactory.WithData(errors.ErrRenderReport, struct {
			Reason string
			Format string
		}{
			Reason: "unknown_format",
			Format: format,
		})
	}
}

// WriteText renders a plain-text summary with a per-night breakdown.
func (r Report) WriteText(w io.Writer) error {
	errFactory := errors.New()

	v := r.Verdict
	_, err := fmt.Fprintf(w, `Night Lighting Analysis
Run:        %s
Generated:  %s
Source:     %s
Window:     %02d:00-%02d:00
Verdict:    %s
Samples:    %d night samples, %d lit (%.0f%%)
`,
		r.RunID,
		r.GeneratedAt.Format(time.RFC3339),
		r.Source,
		v.Window.Start, v.Window.End,
		verdictLabel(v.Excessive),
		v.NightSamples, v.OnSamples, v.OnFraction*100)
	if err != nil {
		return errFactory.Wrap(errors.ErrRenderReport, err)
	}

	if len(v.Nights) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\n%-12s %8s %8s %8s  %s\n",
		"Night", "Samples", "Lit", "Lit %", "Verdict"); err != nil {
		return errFactory.Wrap(errors.ErrRenderReport, err)
	}

	for _, night := range v.Nights {
		if _, err := fmt.Fprintf(w, "%-12s %8d %8d %7.0f%%  %s\n",
			night.Date.Format("2006-01-02"),
			night.Samples, night.OnSamples, night.OnFraction*100,
			verdictLabel(night.Excessive)); err != nil {
			return errFactory.Wrap(errors.ErrRenderReport, err)
		}
	}

	return nil
}

func verdictLabel(excessive bool) string {
	if excessive {
		return "EXCESSIVE NIGHT LIGHTING"
	}
	return "ok"
}
