package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Sample is one recorded training attempt for a gesture. Data holds a
// gesture.Sample document.
type Sample struct {
	ID          int64           `json:"id"`
	GestureID   string          `json:"gesture_id"`
	SampleIndex int             `json:"sample_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SampleRepository stores training samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create appends samples to a gesture in a single transaction and updates
// the gesture's sample count. Returns ErrNotFound for an unknown gesture.
func (r *SampleRepository) Create(gestureID string, samples []json.RawMessage) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var found int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM gestures WHERE id = ?`, gestureID).Scan(&found); err != nil {
		return err
	}
	if found == 0 {
		return ErrNotFound
	}

	var existing int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM gesture_samples WHERE gesture_id = ?`, gestureID).Scan(&existing); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO gesture_samples (gesture_id, sample_index, data) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, data := range samples {
		if _, err := stmt.Exec(gestureID, existing+i, string(data)); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`UPDATE gestures SET samples = ?, updated_at = ? WHERE id = ?`,
		existing+len(samples), time.Now(), gestureID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByGestureID retrieves all samples for a gesture in recording order.
func (r *SampleRepository) GetByGestureID(gestureID string) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, sample_index, data, created_at
		 FROM gesture_samples
		 WHERE gesture_id = ?
		 ORDER BY sample_index`,
		gestureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var data string
		if err := rows.Scan(&s.ID, &s.GestureID, &s.SampleIndex, &data, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Data = json.RawMessage(data)
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// RawData returns just the sample documents, ready for training.
func (r *SampleRepository) RawData(gestureID string) ([]json.RawMessage, error) {
	samples, err := r.GetByGestureID(gestureID)
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, len(samples))
	for i, s := range samples {
		out[i] = s.Data
	}
	return out, nil
}

// DeleteByGestureID removes all samples for a gesture and resets its count.
func (r *SampleRepository) DeleteByGestureID(gestureID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM gesture_samples WHERE gesture_id = ?`, gestureID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE gestures SET samples = 0, updated_at = ? WHERE id = ?`, time.Now(), gestureID); err != nil {
		return err
	}
	return tx.Commit()
}
