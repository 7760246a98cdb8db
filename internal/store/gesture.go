package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Lookup and constraint errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// conflict maps a uniqueness violation to ErrConflict.
func conflict(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// Gesture is a stored gesture definition: a target pattern and the
// thresholds it is recognized with.
type Gesture struct {
	ID          string
	Name        string
	Pattern     gesture.Pattern
	MinMoves    int
	FudgeFactor float64
	Samples     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Config returns the recognizer configuration for g.
func (g *Gesture) Config() gesture.Config {
	return gesture.Config{
		MinMoves:    g.MinMoves,
		FudgeFactor: g.FudgeFactor,
		Pattern:     gesture.NewPattern(g.Pattern...),
	}
}

// GestureRepository provides CRUD operations for gestures.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

const gestureColumns = `id, name, pattern, min_moves, fudge_factor, samples, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGesture(row rowScanner) (*Gesture, error) {
	g := &Gesture{}
	var pattern string

	err := row.Scan(&g.ID, &g.Name, &pattern, &g.MinMoves, &g.FudgeFactor, &g.Samples, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	g.Pattern, err = gesture.ParsePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("gesture %s has a corrupt pattern: %w", g.ID, err)
	}
	return g, nil
}

// Create inserts a new gesture. The pattern and thresholds must form a
// valid recognizer configuration.
func (r *GestureRepository) Create(g *Gesture) error {
	if err := g.Config().Validate(); err != nil {
		return err
	}

	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO gestures (`+gestureColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Pattern.String(), g.MinMoves, g.FudgeFactor, g.Samples, g.CreatedAt, g.UpdatedAt,
	)
	return conflict(err)
}

// GetByID retrieves a gesture by its ID.
func (r *GestureRepository) GetByID(id string) (*Gesture, error) {
	return scanGesture(r.db.QueryRow(`SELECT `+gestureColumns+` FROM gestures WHERE id = ?`, id))
}

// GetByName retrieves a gesture by its name.
func (r *GestureRepository) GetByName(name string) (*Gesture, error) {
	return scanGesture(r.db.QueryRow(`SELECT `+gestureColumns+` FROM gestures WHERE name = ?`, name))
}

// List retrieves all gestures, newest first.
func (r *GestureRepository) List() ([]*Gesture, error) {
	rows, err := r.db.Query(`SELECT ` + gestureColumns + ` FROM gestures ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gestures []*Gesture
	for rows.Next() {
		g, err := scanGesture(rows)
		if err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gestures, nil
}

// Update replaces the stored definition of g.
func (r *GestureRepository) Update(g *Gesture) error {
	if err := g.Config().Validate(); err != nil {
		return err
	}

	g.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, pattern = ?, min_moves = ?, fudge_factor = ?, samples = ?, updated_at = ?
		 WHERE id = ?`,
		g.Name, g.Pattern.String(), g.MinMoves, g.FudgeFactor, g.Samples, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return conflict(err)
	}
	return expectAffected(result)
}

// Delete removes a gesture and, through cascading, its samples and actions.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func expectAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
