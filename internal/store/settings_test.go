package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	_, err := repo.Get("enabled")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := repo.GetOr("enabled", "true")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	require.NoError(t, repo.Set("enabled", "false"))
	require.NoError(t, repo.Set("enabled", "true"))
	require.NoError(t, repo.Set("theme", "dark"))

	v, err = repo.Get("enabled")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"enabled": "true", "theme": "dark"}, all)
}
