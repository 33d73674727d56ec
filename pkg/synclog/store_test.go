package synclog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "logs"), logr.Discard())
}

func TestStore_LoadMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	log, err := store.Load("nobody")
	require.NoError(t, err)
	assert.Nil(t, log, "a profile without recorded results has no log")
}

func TestStore_AppendResultsCreatesAndAppends(t *testing.T) {
	store := newTestStore(t)

	first := SyncResults{
		Time:      time.Date(2014, 3, 2, 10, 0, 0, 0, time.UTC),
		MajorCode: ResultSuccess,
		Targets: []TargetResults{{
			Name:   "contacts",
			Local:  ItemCounts{Added: 3, Modified: 1},
			Remote: ItemCounts{Deleted: 2},
		}},
	}
	require.NoError(t, store.AppendResults("phone", first))

	// The file exists only after the first result.
	_, err := os.Stat(store.FilePath("phone"))
	require.NoError(t, err)

	second := SyncResults{
		Time:      time.Date(2014, 3, 2, 11, 0, 0, 0, time.UTC),
		MajorCode: ResultFailed,
		Scheduled: true,
		Error:     "connection lost",
	}
	require.NoError(t, store.AppendResults("phone", second))

	log, err := store.Load("phone")
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, "phone", log.ProfileName())

	results := log.Results()
	require.Len(t, results, 2)

	// Append order is chronological order.
	assert.Equal(t, ResultSuccess, results[0].MajorCode)
	assert.Equal(t, ResultFailed, results[1].MajorCode)
	assert.True(t, results[1].Scheduled)
	assert.Equal(t, "connection lost", results[1].Error)

	require.Len(t, results[0].Targets, 1)
	target := results[0].Targets[0]
	assert.Equal(t, "contacts", target.Name)
	assert.Equal(t, 3, target.Local.Added)
	assert.Equal(t, 1, target.Local.Modified)
	assert.Equal(t, 2, target.Remote.Deleted)

	assert.True(t, first.Time.Equal(results[0].Time))

	last := log.LastResults()
	require.NotNil(t, last)
	assert.Equal(t, ResultFailed, last.MajorCode)
}

func TestStore_SaveWritesPrologAndRoot(t *testing.T) {
	store := newTestStore(t)

	log := NewSyncLog("phone")
	log.AddResults(SyncResults{Time: time.Now(), MajorCode: ResultSuccess})
	require.NoError(t, store.Save(log))

	data, err := os.ReadFile(store.FilePath("phone"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<?xml version=\"1.0\" encoding=\"UTF-8\"?>")
	assert.Contains(t, string(data), "<syncLog profile=\"phone\">")
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AppendResults("phone", SyncResults{MajorCode: ResultSuccess}))
	require.NoError(t, store.Remove("phone"))
	_, err := os.Stat(store.FilePath("phone"))
	assert.True(t, os.IsNotExist(err))

	// Removing an absent log is not an error.
	assert.NoError(t, store.Remove("phone"))
}

func TestStore_Rename(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AppendResults("old", SyncResults{MajorCode: ResultSuccess}))
	require.NoError(t, store.Rename("old", "new"))

	_, err := os.Stat(store.FilePath("old"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.FilePath("new"))
	assert.NoError(t, err)

	// A missing source means there is nothing to move.
	assert.NoError(t, store.Rename("ghost", "elsewhere"))
}
