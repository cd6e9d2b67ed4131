package clientdata

import (
	"encoding/json"
	"testing"
	"time"

	testingpkg "github.com/ivibez/portal/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPlace struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Valid bool    `json:"valid"`
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, _ := testingpkg.NewTestDB(t, "client_data")
	return NewRepository(db.Conn())
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Store("geocoding", "100 main st", cachedPlace{Name: "Main", Lat: 39.1, Valid: true}, time.Hour))

	data, err := repo.GetIfFresh("geocoding", "100 main st")
	require.NoError(t, err)
	require.NotNil(t, data)

	var got cachedPlace
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, cachedPlace{Name: "Main", Lat: 39.1, Valid: true}, got)
}

func TestStore_Upserts(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Store("geocoding", "k", cachedPlace{Name: "old"}, time.Hour))
	require.NoError(t, repo.Store("geocoding", "k", cachedPlace{Name: "new"}, time.Hour))

	data, err := repo.GetIfFresh("geocoding", "k")
	require.NoError(t, err)
	assert.Contains(t, string(data), "new")
}

func TestGetIfFresh_MissingAndExpired(t *testing.T) {
	repo := newTestRepository(t)

	data, err := repo.GetIfFresh("geocoding", "missing")
	require.NoError(t, err)
	assert.Nil(t, data)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Store("geocoding", "k", cachedPlace{Name: "x"}, time.Hour))

	repo.now = func() time.Time { return base.Add(2 * time.Hour) }
	data, err = repo.GetIfFresh("geocoding", "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestInvalidTable(t *testing.T) {
	repo := newTestRepository(t)

	assert.Error(t, repo.Store("users; DROP TABLE geocoding", "k", 1, time.Hour))
	_, err := repo.GetIfFresh("nope", "k")
	assert.Error(t, err)
	assert.Error(t, repo.Delete("nope", "k"))
	_, err = repo.DeleteExpired("nope")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Store("geocoding", "k", cachedPlace{Name: "x"}, time.Hour))

	require.NoError(t, repo.Delete("geocoding", "k"))

	data, err := repo.GetIfFresh("geocoding", "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDeleteAllExpired_AndCleanupJob(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Store("geocoding", "short", cachedPlace{Name: "a"}, time.Hour))
	require.NoError(t, repo.Store("geocoding", "long", cachedPlace{Name: "b"}, 48*time.Hour))

	repo.now = func() time.Time { return base.Add(2 * time.Hour) }
	results, err := repo.DeleteAllExpired()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"geocoding": 1}, results)

	data, err := repo.GetIfFresh("geocoding", "long")
	require.NoError(t, err)
	assert.NotNil(t, data)

	repo.now = func() time.Time { return base.Add(72 * time.Hour) }
	job := NewCleanupJob(repo, zerolog.Nop())
	assert.Equal(t, "client_data_cleanup", job.Name())
	require.NoError(t, job.Run())

	repo.now = func() time.Time { return base }
	data, err = repo.GetIfFresh("geocoding", "long")
	require.NoError(t, err)
	assert.Nil(t, data)
}
