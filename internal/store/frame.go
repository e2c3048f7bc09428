package store

import (
	"database/sql"
)

// Frame is one tracker outcome stored with its run.
type Frame struct {
	FrameID int
	X       int
	Y       int
	W       int
	H       int
	OK      bool
}

// FrameRepository stores per-frame results.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Create inserts all frames of a run in a single transaction.
func (r *FrameRepository) Create(runID string, frames []Frame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO run_frames (run_id, frame_id, x, y, w, h, ok) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range frames {
		if _, err := stmt.Exec(runID, f.FrameID, f.X, f.Y, f.W, f.H, f.OK); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByRunID retrieves the frames of a run in capture order.
func (r *FrameRepository) GetByRunID(runID string) ([]Frame, error) {
	rows, err := r.db.Query(
		`SELECT frame_id, x, y, w, h, ok
		 FROM run_frames
		 WHERE run_id = ?
		 ORDER BY frame_id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var f Frame
		var ok int
		if err := rows.Scan(&f.FrameID, &f.X, &f.Y, &f.W, &f.H, &ok); err != nil {
			return nil, err
		}
		f.OK = ok != 0
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}
