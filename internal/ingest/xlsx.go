package ingest

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/series"
)

// ReadXLSX parses the first sheet of a workbook with the same two-column
// contract as ReadCSV. Timestamp cells may hold either a string timestamp
// or a native Excel date cell. Rows are read raw so date cells surface as
// serial numbers instead of locale-formatted strings.
func ReadXLSX(r io.Reader) (series.Series, error) {
	errFactory := errors.New()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrOpenInput, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrOpenInput, err)
	}

	var s series.Series
	for i, row := range rows {
		if len(row) < 2 {
			return nil, errFactory.WithData(errors.ErrInvalidInput, struct {
				Reason string
				Row    int
			}{
				Reason: "too_few_columns",
				Row:    i + 1,
			})
		}

		sample, err := parseCellSample(row[0], row[1])
		if err != nil {
			if i == 0 && looksLikeHeader(row[1]) {
				continue
			}
			return nil, errFactory.WithData(errors.ErrInvalidInput, struct {
				Reason string
				Row    int
				Error  string
			}{
				Reason: "malformed_row",
				Row:    i + 1,
				Error:  err.Error(),
			})
		}

		s = append(s, sample)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func parseCellSample(timestamp, value string) (series.Sample, error) {
	sample, err := parseSample(timestamp, value)
	if err == nil {
		return sample, nil
	}

	// Fall back to an Excel serial date.
	serial, serialErr := strconv.ParseFloat(timestamp, 64)
	if serialErr != nil {
		return series.Sample{}, err
	}

	ts, serialErr := excelize.ExcelDateToTime(serial, false)
	if serialErr != nil {
		return series.Sample{}, err
	}

	v, valueErr := strconv.ParseFloat(value, 64)
	if valueErr != nil {
		return series.Sample{}, valueErr
	}

	return series.Sample{Timestamp: ts, Value: v}, nil
}
