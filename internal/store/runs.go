package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome is how a run ended.
type Outcome string

// Run outcomes.
const (
	OutcomeGameOver Outcome = "game_over"
	OutcomeCleared  Outcome = "cleared"
)

// RunRecord is one finished run.
type RunRecord struct {
	ID             uuid.UUID
	Profile        string
	Score          int
	Kills          int
	BossesDefeated int
	Outcome        Outcome
	Duration       time.Duration
	EndedAt        time.Time
}

// NewRunRecord starts a record with a fresh id.
func NewRunRecord(profile string, outcome Outcome, endedAt time.Time) RunRecord {
	return RunRecord{
		ID:      uuid.New(),
		Profile: profile,
		Outcome: outcome,
		EndedAt: endedAt.UTC(),
	}
}

// RunRecorder appends finished runs to the history.
type RunRecorder interface {
	Record(ctx context.Context, rec RunRecord) error
}

// NopRecorder discards records.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, RunRecord) error { return nil }
