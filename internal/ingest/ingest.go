// Package ingest loads light-sensor series from exported data files.
package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/series"
)

const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Load reads the series from path. With FormatAuto the format is resolved
// from the file extension.
func Load(path, format string) (series.Series, error) {
	errFactory := errors.New()

	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			format = FormatCSV
		case ".xlsx":
			format = FormatXLSX
		default:
			return nil, errFactory.WithData(errors.ErrUnknownFormat, path)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrOpenInput, err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return ReadCSV(f)
	case FormatXLSX:
		return ReadXLSX(f)
	default:
		return nil, errFactory.WithData(errors.ErrUnknownFormat, format)
	}
}
