package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/heritage"
)

// RunService records runs in the runs table.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// StartRun inserts the row that places written during the run refer to.
func (s *RunService) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at) VALUES (?, ?)
	`, runID, startedAt.UTC().Format(time.RFC3339))
	return err
}

// FinishRun stores the run's summary.
func (s *RunService) FinishRun(ctx context.Context, summary *heritage.Summary, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, total = ?, succeeded = ?, failed = ?, skipped = ?
		WHERE id = ?
	`, finishedAt.UTC().Format(time.RFC3339), summary.Total, summary.Succeeded,
		summary.Failed, summary.Skipped, summary.RunID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return heritage.Errorf(heritage.ENOTFOUND, "run %s not found", summary.RunID)
	}
	return nil
}

// FindRunByID retrieves a run's summary.
func (s *RunService) FindRunByID(ctx context.Context, runID string) (*heritage.Summary, error) {
	summary := &heritage.Summary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, total, succeeded, failed, skipped FROM runs WHERE id = ?
	`, runID).Scan(&summary.RunID, &summary.Total, &summary.Succeeded, &summary.Failed, &summary.Skipped)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, heritage.Errorf(heritage.ENOTFOUND, "run %s not found", runID)
		}
		return nil, err
	}
	return summary, nil
}
