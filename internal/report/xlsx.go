package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"codeberg.org/halvar/luxaudit/internal/errors"
)

// XLSX renders the report as a workbook with summary and nights sheets.
func (r Report) XLSX() ([]byte, error) {
	errFactory := errors.New()
	v := r.Verdict

	f := excelize.NewFile()
	summarySheet := "summary"
	nightsSheet := "nights"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(nightsSheet); err != nil {
		return nil, errFactory.Wrap(errors.ErrRenderReport, err)
	}

	_ = f.SetCellValue(summarySheet, "A1", "Night Lighting Analysis")
	_ = f.SetCellValue(summarySheet, "A3", "Run")
	_ = f.SetCellValue(summarySheet, "B3", r.RunID.String())
	_ = f.SetCellValue(summarySheet, "A4", "Generated")
	_ = f.SetCellValue(summarySheet, "B4", r.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A5", "Source")
	_ = f.SetCellValue(summarySheet, "B5", r.Source)
	_ = f.SetCellValue(summarySheet, "A6", "Night window")
	_ = f.SetCellValue(summarySheet, "B6", fmt.Sprintf("%02d:00-%02d:00", v.Window.Start, v.Window.End))
	_ = f.SetCellValue(summarySheet, "A7", "Verdict")
	_ = f.SetCellValue(summarySheet, "B7", verdictLabel(v.Excessive))
	_ = f.SetCellValue(summarySheet, "A8", "Night samples")
	_ = f.SetCellValue(summarySheet, "B8", v.NightSamples)
	_ = f.SetCellValue(summarySheet, "A9", "Lit samples")
	_ = f.SetCellValue(summarySheet, "B9", v.OnSamples)
	_ = f.SetCellValue(summarySheet, "A10", "Lit fraction")
	_ = f.SetCellValue(summarySheet, "B10", v.OnFraction)

	_ = f.SetCellValue(nightsSheet, "A1", "Night")
	_ = f.SetCellValue(nightsSheet, "B1", "Samples")
	_ = f.SetCellValue(nightsSheet, "C1", "Lit")
	_ = f.SetCellValue(nightsSheet, "D1", "Lit fraction")
	_ = f.SetCellValue(nightsSheet, "E1", "Verdict")
	for i, night := range v.Nights {
		row := i + 2
		_ = f.SetCellValue(nightsSheet, fmt.Sprintf("A%d", row), night.Date.Format("2006-01-02"))
		_ = f.SetCellValue(nightsSheet, fmt.Sprintf("B%d", row), night.Samples)
		_ = f.SetCellValue(nightsSheet, fmt.Sprintf("C%d", row), night.OnSamples)
		_ = f.SetCellValue(nightsSheet, fmt.Sprintf("D%d", row), night.OnFraction)
		_ = f.SetCellValue(nightsSheet, fmt.Sprintf("E%d", row), verdictLabel(night.Excessive))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errFactory.Wrap(errors.ErrRenderReport, err)
	}
	return buf.Bytes(), nil
}
