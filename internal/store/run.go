package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// RunStatus is the lifecycle state of a tracking run.
type RunStatus string

const (
	// RunStatusRunning marks a run whose frame loop has not finished.
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted marks a run that consumed the whole source.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusCancelled marks a run stopped by the user.
	RunStatusCancelled RunStatus = "cancelled"
	// RunStatusFailed marks a run aborted by an I/O error.
	RunStatusFailed RunStatus = "failed"
)

// Run represents a tracking session stored in the database.
type Run struct {
	ID         string
	Algorithm  string
	Source     string
	Output     string
	Status     RunStatus
	Frames     int
	Failures   int
	MeanFPS    float64
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a new run in the running state.
func (r *RunRepository) Create(run *Run) error {
	run.StartedAt = time.Now()
	if run.Status == "" {
		run.Status = RunStatusRunning
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (id, algorithm, source, output, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Algorithm, run.Source, run.Output, string(run.Status), run.StartedAt,
	)
	return err
}

// Finish records the final counters and status of a run.
func (r *RunRepository) Finish(run *Run) error {
	run.FinishedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE runs SET status = ?, frames = ?, failures = ?, mean_fps = ?, finished_at = ?
		 WHERE id = ?`,
		string(run.Status), run.Frames, run.Failures, run.MeanFPS, run.FinishedAt, run.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	row := r.db.QueryRow(
		`SELECT id, algorithm, source, output, status, frames, failures, mean_fps, started_at, finished_at
		 FROM runs WHERE id = ?`,
		id,
	)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return run, nil
}

// List retrieves all runs, most recent first.
func (r *RunRepository) List() ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT id, algorithm, source, output, status, frames, failures, mean_fps, started_at, finished_at
		 FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Delete removes a run and its frames.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*Run, error) {
	run := &Run{}
	var status string
	var finished sql.NullTime

	err := s.Scan(&run.ID, &run.Algorithm, &run.Source, &run.Output, &status,
		&run.Frames, &run.Failures, &run.MeanFPS, &run.StartedAt, &finished)
	if err != nil {
		return nil, err
	}

	run.Status = RunStatus(status)
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return run, nil
}
