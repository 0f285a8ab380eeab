package results_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/halvar/luxaudit/internal/logger"
	"codeberg.org/halvar/luxaudit/internal/results"
)

func testConfig(t *testing.T) results.Config {
	t.Helper()
	cfg := results.DefaultConfig()
	cfg.Enabled = true
	cfg.DBPath = filepath.Join(t.TempDir(), "results.db")
	return cfg
}

func testRecord(runID uuid.UUID, night time.Time, excessive bool) *results.VerdictRecord {
	return &results.VerdictRecord{
		RunID:      runID,
		RecordedAt: time.Date(2014, 1, 5, 8, 0, 0, 0, time.UTC),
		Source:     "readings.csv",
		Night:      night,
		Samples:    10,
		OnSamples:  7,
		OnFraction: 0.7,
		Excessive:  excessive,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo, err := results.NewRepository(testConfig(t), logger.Default())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	runID := uuid.New()
	nightOne := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	nightTwo := nightOne.AddDate(0, 0, 1)

	require.NoError(t, repo.Record(testRecord(runID, nightTwo, false)))
	require.NoError(t, repo.Record(testRecord(runID, nightOne, true)))
	require.NoError(t, repo.Record(testRecord(uuid.New(), nightOne, true)))

	records, err := repo.List(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordered by night, not insertion order.
	assert.Equal(t, nightOne, records[0].Night)
	assert.True(t, records[0].Excessive)
	assert.Equal(t, nightTwo, records[1].Night)
	assert.False(t, records[1].Excessive)

	assert.Equal(t, "readings.csv", records[0].Source)
	assert.Equal(t, 10, records[0].Samples)
	assert.Equal(t, 7, records[0].OnSamples)
	assert.InDelta(t, 0.7, records[0].OnFraction, 1e-9)
}

func TestRepositorySurvivesReopen(t *testing.T) {
	cfg := testConfig(t)
	runID := uuid.New()
	night := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)

	repo, err := results.NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	require.NoError(t, repo.Record(testRecord(runID, night, true)))
	require.NoError(t, repo.Close())

	reopened, err := results.NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	records, err := reopened.List(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Excessive)
}

func TestServiceDisabledIsNoop(t *testing.T) {
	cfg := results.DefaultConfig()
	cfg.DBPath = ""

	recorder, err := results.NewService(cfg, logger.Default())
	require.NoError(t, err)

	err = recorder.Record(context.Background(), testRecord(uuid.New(),
		time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), true))
	require.NoError(t, err)
	require.NoError(t, recorder.Close())
}

func TestServiceRejectsNilRecord(t *testing.T) {
	cfg := testConfig(t)

	recorder, err := results.NewService(cfg, logger.Default())
	require.NoError(t, err)
	t.Cleanup(func() { recorder.Close() })

	require.Error(t, recorder.Record(context.Background(), nil))
}

func TestSchemaVersionRecorded(t *testing.T) {
	cfg := testConfig(t)

	repo, err := results.NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := results.NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
}
