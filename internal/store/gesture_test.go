package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/gesture"
)

func newTestGesture(id, name string) *Gesture {
	return &Gesture{
		ID:          id,
		Name:        name,
		Pattern:     gesture.Circle,
		MinMoves:    8,
		FudgeFactor: 5,
	}
}

func TestGestureRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Gestures()

	g := newTestGesture("g1", "circle")
	require.NoError(t, repo.Create(g))

	assert.False(t, g.CreatedAt.IsZero(), "CreatedAt should be set after create")
	assert.False(t, g.UpdatedAt.IsZero(), "UpdatedAt should be set after create")

	got, err := repo.GetByID("g1")
	require.NoError(t, err)
	assert.Equal(t, "circle", got.Name)
	assert.Equal(t, gesture.Circle, got.Pattern)
	assert.Equal(t, 8, got.MinMoves)
	assert.Equal(t, 5.0, got.FudgeFactor)
	assert.Equal(t, gesture.Config{MinMoves: 8, FudgeFactor: 5, Pattern: gesture.Circle}, got.Config())

	byName, err := repo.GetByName("circle")
	require.NoError(t, err)
	assert.Equal(t, "g1", byName.ID)
}

func TestGestureRepository_Create_InvalidConfig(t *testing.T) {
	s := newTestStore(t)
	repo := s.Gestures()

	g := newTestGesture("g1", "empty")
	g.Pattern = nil
	assert.True(t, errors.Is(repo.Create(g), gesture.ErrEmptyPattern))

	g = newTestGesture("g2", "negative")
	g.FudgeFactor = -1
	assert.True(t, errors.Is(repo.Create(g), gesture.ErrNegativeFudgeFactor))
}

func TestGestureRepository_Create_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Gestures()

	require.NoError(t, repo.Create(newTestGesture("g1", "circle")))
	assert.ErrorIs(t, repo.Create(newTestGesture("g2", "circle")), ErrConflict, "duplicate names should be rejected")

	require.NoError(t, repo.Create(newTestGesture("g3", "alpha")))
	renamed := newTestGesture("g3", "circle")
	assert.ErrorIs(t, repo.Update(renamed), ErrConflict)
}

func TestGestureRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Gestures()

	empty, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Create(newTestGesture("g1", "circle")))
	caret := newTestGesture("g2", "caret")
	caret.Pattern = gesture.UpCaret
	require.NoError(t, repo.Create(caret))

	gestures, err := repo.List()
	require.NoError(t, err)
	require.Len(t, gestures, 2)

	names := map[string]string{}
	for _, g := range gestures {
		names[g.Name] = g.Pattern.String()
	}
	assert.Equal(t, map[string]string{"circle": "012345670", "caret": "71"}, names)
}

func TestGestureRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Gestures()

	g := newTestGesture("g1", "circle")
	require.NoError(t, repo.Create(g))

	g.Name = "loop"
	g.Pattern = gesture.Alpha
	g.FudgeFactor = 3
	require.NoError(t, repo.Update(g))

	got, err := repo.GetByID("g1")
	require.NoError(t, err)
	assert.Equal(t, "loop", got.Name)
	assert.Equal(t, gesture.Alpha, got.Pattern)
	assert.Equal(t, 3.0, got.FudgeFactor)
}

func TestGestureRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Gestures().Update(newTestGesture("missing", "x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGestureRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Gestures()

	require.NoError(t, repo.Create(newTestGesture("g1", "circle")))
	require.NoError(t, repo.Delete("g1"))

	_, err := repo.GetByID("g1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete("g1"), ErrNotFound)
}

func TestGestureRepository_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Gestures().GetByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Gestures().GetByName("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGestureRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Gestures().Create(newTestGesture("g1", "circle")))
	require.NoError(t, s.Samples().Create("g1", nil))
	require.NoError(t, s.Actions().Create(&Action{ID: "a1", GestureID: "g1", PluginName: "p", ActionName: "run", Enabled: true}))

	require.NoError(t, s.Gestures().Delete("g1"))

	_, err := s.Actions().GetByID("a1")
	assert.ErrorIs(t, err, ErrNotFound, "actions should be removed with their gesture")
}
