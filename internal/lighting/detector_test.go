package lighting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/lighting"
	"codeberg.org/halvar/luxaudit/internal/series"
)

func buildSeries(start time.Time, step time.Duration, values ...float64) series.Series {
	s := make(series.Series, 0, len(values))
	for i, v := range values {
		s = append(s, series.Sample{
			Timestamp: start.Add(time.Duration(i) * step),
			Value:     v,
		})
	}
	return s
}

func TestExcessiveNighttimeAllOnes(t *testing.T) {
	// 13 samples at 6-hour spacing from 2014-01-01T00:00, all lit.
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	s := buildSeries(start, 6*time.Hour, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)

	got, err := lighting.ExcessiveNighttime(s, 8)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestExcessiveNighttimeAllZeros(t *testing.T) {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	s := buildSeries(start, 6*time.Hour, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)

	got, err := lighting.ExcessiveNighttime(s, 8)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestExcessiveNighttimeEmptySeries(t *testing.T) {
	got, err := lighting.ExcessiveNighttime(series.Series{}, 8)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestExcessiveNighttimeNoNightSamples(t *testing.T) {
	// All samples at noon; the night window never matches.
	start := time.Date(2014, 1, 1, 12, 0, 0, 0, time.UTC)
	s := buildSeries(start, 24*time.Hour, 1, 1, 1)

	got, err := lighting.ExcessiveNighttime(s, 20)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestExcessiveNighttimeInvalidThreshold(t *testing.T) {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	s := buildSeries(start, time.Hour, 1)

	_, err := lighting.ExcessiveNighttime(s, 24)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestExcessiveNighttimeInvalidSeries(t *testing.T) {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	s := series.Series{
		{Timestamp: start.Add(time.Hour), Value: 1},
		{Timestamp: start, Value: 1},
	}

	_, err := lighting.ExcessiveNighttime(s, 8)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestExcessiveNighttimeIdempotent(t *testing.T) {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	s := buildSeries(start, 6*time.Hour, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1)
	original := make(series.Series, len(s))
	copy(original, s)

	first, err := lighting.ExcessiveNighttime(s, 8)
	require.NoError(t, err)
	second, err := lighting.ExcessiveNighttime(s, 8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, original, s, "detector must not mutate the series")
}

func TestEvaluateOnFraction(t *testing.T) {
	cfg := lighting.DefaultConfig()
	cfg.NightStart = 20
	detector, err := lighting.New(cfg)
	require.NoError(t, err)

	// Four samples inside one night: 20:00, 22:00, 00:00, 02:00.
	start := time.Date(2014, 1, 1, 20, 0, 0, 0, time.UTC)

	t.Run("half lit crosses default fraction", func(t *testing.T) {
		verdict, err := detector.Evaluate(buildSeries(start, 2*time.Hour, 1, 1, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, 4, verdict.NightSamples)
		assert.Equal(t, 2, verdict.OnSamples)
		assert.InDelta(t, 0.5, verdict.OnFraction, 1e-9)
		assert.True(t, verdict.Excessive)
	})

	t.Run("quarter lit stays below fraction", func(t *testing.T) {
		verdict, err := detector.Evaluate(buildSeries(start, 2*time.Hour, 1, 0, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, 1, verdict.OnSamples)
		assert.False(t, verdict.Excessive)
	})

	t.Run("zero fraction never flags a dark night", func(t *testing.T) {
		zeroCfg := cfg
		zeroCfg.MinOnFraction = 0
		d, err := lighting.New(zeroCfg)
		require.NoError(t, err)

		verdict, err := d.Evaluate(buildSeries(start, 2*time.Hour, 0, 0, 0, 0))
		require.NoError(t, err)
		assert.False(t, verdict.Excessive)
	})
}

func TestEvaluatePerNightSummaries(t *testing.T) {
	detector, err := lighting.New(lighting.DefaultConfig())
	require.NoError(t, err)

	// Night one fully lit, night two fully dark, daytime in between.
	start := time.Date(2014, 1, 1, 20, 0, 0, 0, time.UTC)
	s := buildSeries(start, 2*time.Hour,
		1, 1, 1, 1, 1, // 20:00 Jan 1 .. 04:00 Jan 2
		0, 0, 0, 0, 0, 0, 0, // daytime Jan 2
		0, 0, 0, 0, 0) // 20:00 Jan 2 .. 04:00 Jan 3

	verdict, err := detector.Evaluate(s)
	require.NoError(t, err)
	require.Len(t, verdict.Nights, 2)

	assert.Equal(t, time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), verdict.Nights[0].Date)
	assert.True(t, verdict.Nights[0].Excessive)
	assert.Equal(t, 5, verdict.Nights[0].Samples)

	assert.Equal(t, time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC), verdict.Nights[1].Date)
	assert.False(t, verdict.Nights[1].Excessive)

	assert.Equal(t, 10, verdict.NightSamples)
	assert.Equal(t, 5, verdict.OnSamples)
	assert.InDelta(t, 0.5, verdict.OnFraction, 1e-9)
	assert.True(t, verdict.Excessive)
}

func TestNewRejectsEmptyNightWindow(t *testing.T) {
	// A start hour equal to the end hour matches no hour at all, which
	// would make every series pass as non-excessive.
	cfg := lighting.DefaultConfig()
	cfg.NightStart = lighting.DefaultNightEnd

	_, err := lighting.New(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	allLit := buildSeries(start, time.Hour,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)

	_, err = lighting.ExcessiveNighttime(allLit, lighting.DefaultNightEnd)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*lighting.Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*lighting.Config) {}},
		{name: "night start too high", mutate: func(c *lighting.Config) { c.NightStart = 24 }, wantErr: true},
		{name: "night start equals end", mutate: func(c *lighting.Config) { c.NightStart = c.NightEnd }, wantErr: true},
		{name: "night end negative", mutate: func(c *lighting.Config) { c.NightEnd = -1 }, wantErr: true},
		{name: "fraction above one", mutate: func(c *lighting.Config) { c.MinOnFraction = 1.5 }, wantErr: true},
		{name: "fraction of one", mutate: func(c *lighting.Config) { c.MinOnFraction = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := lighting.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
