package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Gestures().Create(newTestGesture("g1", "circle")))

	batch := []json.RawMessage{
		json.RawMessage(`{"points":[{"x":0,"y":0},{"x":1,"y":0}]}`),
		json.RawMessage(`{"points":[{"x":0,"y":0},{"x":0,"y":1}]}`),
	}
	require.NoError(t, s.Samples().Create("g1", batch))
	require.NoError(t, s.Samples().Create("g1", batch[:1]))

	samples, err := s.Samples().GetByGestureID("g1")
	require.NoError(t, err)
	require.Len(t, samples, 3)
	for i, sample := range samples {
		assert.Equal(t, i, sample.SampleIndex, "samples are appended in order")
	}
	assert.JSONEq(t, string(batch[1]), string(samples[1].Data))

	g, err := s.Gestures().GetByID("g1")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Samples)

	raw, err := s.Samples().RawData("g1")
	require.NoError(t, err)
	assert.Len(t, raw, 3)
}

func TestSampleRepository_UnknownGesture(t *testing.T) {
	s := newTestStore(t)

	err := s.Samples().Create("missing", []json.RawMessage{json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSampleRepository_DeleteByGestureID(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Gestures().Create(newTestGesture("g1", "circle")))
	require.NoError(t, s.Samples().Create("g1", []json.RawMessage{json.RawMessage(`{"points":[]}`)}))

	require.NoError(t, s.Samples().DeleteByGestureID("g1"))

	samples, err := s.Samples().GetByGestureID("g1")
	require.NoError(t, err)
	assert.Empty(t, samples)

	g, err := s.Gestures().GetByID("g1")
	require.NoError(t, err)
	assert.Equal(t, 0, g.Samples)
}
