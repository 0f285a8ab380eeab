package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/series"
)

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
}

// ReadCSV parses a two-column (timestamp, value) series. A header row is
// detected and skipped. Rows with an inconsistent column count are rejected,
// as are unparsable timestamps or values, and the resulting series must
// satisfy the ordering invariants.
func ReadCSV(r io.Reader) (series.Series, error) {
	errFactory := errors.New()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var s series.Series
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, errFactory.WithData(errors.ErrInvalidInput, struct {
				Reason string
				Row    int
				Error  string
			}{
				Reason: "inconsistent_columns",
				Row:    row,
				Error:  err.Error(),
			})
		}

		if len(record) < 2 {
			return nil, errFactory.WithData(errors.ErrInvalidInput, struct {
				Reason string
				Row    int
			}{
				Reason: "too_few_columns",
				Row:    row,
			})
		}

		sample, err := parseSample(record[0], record[1])
		if err != nil {
			if row == 1 && looksLikeHeader(record[1]) {
				continue
			}
			return nil, errFactory.WithData(errors.ErrInvalidInput, struct {
				Reason string
				Row    int
				Error  string
			}{
				Reason: "malformed_row",
				Row:    row,
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

// looksLikeHeader distinguishes a label row from malformed data: a header
// carries a non-numeric value column, a broken data row does not.
func looksLikeHeader(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err != nil
}

func parseSample(timestamp, value string) (series.Sample, error) {
	ts, err := parseTimestamp(timestamp)
	if err != nil {
		return series.Sample{}, err
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return series.Sample{}, err
	}

	return series.Sample{Timestamp: ts, Value: v}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, firstErr
}
