package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jakechorley/fairshift/pkg/core/model"
)

// Run is one persisted solve invocation.
type Run struct {
	ID              uuid.UUID
	Status          model.SolverStatus
	Phase           model.Phase
	RelaxationLevel string
	TargetAverage   float64
	Seed            int64
	Message         string
}

// InsertRun stores a solver result and returns the new run ID.
func (db *DB) InsertRun(ctx context.Context, seed int64, result *model.SolverResult) (uuid.UUID, error) {
	runID := uuid.New()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var relaxationLevel *string
	if result.Relaxation != nil {
		level := string(result.Relaxation.Level)
		relaxationLevel = &level
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO solver_run (id, status, phase, relaxation_level, target_average, seed, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, runID, string(result.Status), int(result.Phase), relaxationLevel, result.TargetAverage, seed, result.Message)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}

	if result.Assignment != nil {
		for _, pair := range result.Assignment.Pairs {
			_, err := tx.Exec(ctx, `
				INSERT INTO run_assignment (run_id, volunteer_name, shift_id)
				VALUES ($1, $2, $3)
			`, runID, pair.VolunteerName, pair.ShiftID)
			if err != nil {
				return uuid.Nil, fmt.Errorf("failed to insert assignment: %w", err)
			}
		}
	}

	for i, d := range result.Diagnoses {
		_, err := tx.Exec(ctx, `
			INSERT INTO run_diagnosis (run_id, position, type, description, suggestion)
			VALUES ($1, $2, $3, $4, $5)
		`, runID, i, string(d.Type), d.Description, d.Suggestion)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert diagnosis: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return runID, nil
}

// GetRuns retrieves all persisted runs, newest first.
func (db *DB) GetRuns(ctx context.Context) ([]Run, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, status, phase, relaxation_level, target_average, seed, message
		FROM solver_run
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var status string
		var phase int
		var relaxationLevel *string
		if err := rows.Scan(&r.ID, &status, &phase, &relaxationLevel, &r.TargetAverage, &r.Seed, &r.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Status = model.SolverStatus(status)
		r.Phase = model.Phase(phase)
		if relaxationLevel != nil {
			r.RelaxationLevel = *relaxationLevel
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRunAssignment retrieves the assignment pairs of one run.
func (db *DB) GetRunAssignment(ctx context.Context, runID uuid.UUID) ([]model.AssignmentPair, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT volunteer_name, shift_id
		FROM run_assignment
		WHERE run_id = $1
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run assignment: %w", err)
	}
	defer rows.Close()

	var pairs []model.AssignmentPair
	for rows.Next() {
		var p model.AssignmentPair
		if err := rows.Scan(&p.VolunteerName, &p.ShiftID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment pair: %w", err)
		}
		pairs = append(pairs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment pairs: %w", err)
	}

	return pairs, nil
}
