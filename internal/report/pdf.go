package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"codeberg.org/halvar/luxaudit/internal/errors"
)

// PDF renders the report as a single-page PDF.
func (r Report) PDF() ([]byte, error) {
	errFactory := errors.New()
	v := r.Verdict

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Night Lighting Analysis")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", r.RunID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Source: %s", r.Source))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Night window: %02d:00-%02d:00", v.Window.Start, v.Window.End))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Verdict: %s", verdictLabel(v.Excessive)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Night samples: %d, lit: %d (%.0f%%)",
		v.NightSamples, v.OnSamples, v.OnFraction*100))
	pdf.Ln(8)

	// Nights table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Night", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Samples", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Lit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Lit %", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Verdict", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, night := range v.Nights {
		pdf.CellFormat(40, 6, night.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", night.Samples), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", night.OnSamples), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.0f%%", night.OnFraction*100), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, verdictLabel(night.Excessive), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errFactory.Wrap(errors.ErrRenderReport, err)
	}
	return buf.Bytes(), nil
}
