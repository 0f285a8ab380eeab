package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"codeberg.org/halvar/luxaudit/internal/lighting"
	"codeberg.org/halvar/luxaudit/internal/report"
	"codeberg.org/halvar/luxaudit/internal/series"
)

func testVerdict() lighting.Verdict {
	return lighting.Verdict{
		Window:       series.Window{Start: 20, End: 6},
		NightSamples: 10,
		OnSamples:    7,
		OnFraction:   0.7,
		Excessive:    true,
		Nights: []lighting.NightSummary{
			{
				Date:       time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
				Samples:    5,
				OnSamples:  5,
				OnFraction: 1,
				Excessive:  true,
			},
			{
				Date:       time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC),
				Samples:    5,
				OnSamples:  2,
				OnFraction: 0.4,
				Excessive:  false,
			},
		},
	}
}

func TestWriteText(t *testing.T) {
	r := report.New("readings.csv", testVerdict())

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "EXCESSIVE NIGHT LIGHTING")
	assert.Contains(t, out, "readings.csv")
	assert.Contains(t, out, "20:00-06:00")
	assert.Contains(t, out, "2014-01-01")
	assert.Contains(t, out, "2014-01-02")
	assert.Equal(t, 2, strings.Count(out, "EXCESSIVE NIGHT LIGHTING"),
		"summary and first night flagged")
}

func TestPDF(t *testing.T) {
	r := report.New("readings.csv", testVerdict())

	out, err := r.PDF()
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSX(t *testing.T) {
	r := report.New("readings.csv", testVerdict())

	out, err := r.XLSX()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	verdict, err := f.GetCellValue("summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "EXCESSIVE NIGHT LIGHTING", verdict)

	night, err := f.GetCellValue("nights", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2014-01-01", night)
}

func TestRenderUnknownFormat(t *testing.T) {
	r := report.New("readings.csv", testVerdict())

	var buf bytes.Buffer
	require.Error(t, r.Render("html", &buf))
}
