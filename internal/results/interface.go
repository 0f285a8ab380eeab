package results

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recorder defines the core domain interface
type Recorder interface {
	Record(ctx context.Context, record *VerdictRecord) error
	Close() error
}

// VerdictRepository defines the interface for verdict storage
type VerdictRepository interface {
	Record(record *VerdictRecord) error
	List(ctx context.Context, runID uuid.UUID) ([]*VerdictRecord, error)
	Close() error
}

// VerdictRecord is one stored per-night detection outcome
type VerdictRecord struct {
	RunID      uuid.UUID
	RecordedAt time.Time
	Source     string
	Night      time.Time
	Samples    int
	OnSamples  int
	OnFraction float64
	Excessive  bool
}
