package favorites

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "favorites.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore_AddHasRemove(t *testing.T) {
	store, _ := openTestStore(t)

	has, err := store.Has("samtools")
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, store.Add("samtools"))
	has, err = store.Has("samtools")
	require.NoError(t, err)
	require.True(t, has)

	// Double add is a no-op.
	require.NoError(t, store.Add("samtools"))
	names, err := store.List()
	require.NoError(t, err)
	require.Equal(t, []string{"samtools"}, names)

	require.NoError(t, store.Remove("samtools"))
	has, err = store.Has("samtools")
	require.NoError(t, err)
	require.False(t, has)

	// Removing a non-favorite is a no-op.
	require.NoError(t, store.Remove("samtools"))
}

func TestStore_Toggle(t *testing.T) {
	store, _ := openTestStore(t)

	favorite, err := store.Toggle("bwa")
	require.NoError(t, err)
	require.True(t, favorite)

	favorite, err = store.Toggle("bwa")
	require.NoError(t, err)
	require.False(t, favorite)

	has, err := store.Has("bwa")
	require.NoError(t, err)
	require.False(t, has)
}

func TestStore_ListSorted(t *testing.T) {
	store, _ := openTestStore(t)
	require.NoError(t, store.Add("zebra"))
	require.NoError(t, store.Add("alpha"))
	require.NoError(t, store.Add("mango"))

	names, err := store.List()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "mango", "zebra"}, names)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Add("samtools"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	has, err := reopened.Has("samtools")
	require.NoError(t, err)
	require.True(t, has)
}

func TestStore_ClosedAndInvalidInput(t *testing.T) {
	store, _ := openTestStore(t)

	require.ErrorIs(t, store.Add("  "), ErrEmptyToolName)
	_, err := store.Toggle("")
	require.ErrorIs(t, err, ErrEmptyToolName)

	require.NoError(t, store.Close())
	require.ErrorIs(t, store.Add("samtools"), ErrStoreClosed)
	_, err = store.List()
	require.ErrorIs(t, err, ErrStoreClosed)
}

func TestStore_Snapshot(t *testing.T) {
	store, _ := openTestStore(t)
	require.NoError(t, store.Add("bwa"))

	isFavorite, err := store.Snapshot()
	require.NoError(t, err)
	require.True(t, isFavorite("bwa"))
	require.False(t, isFavorite("samtools"))

	// Snapshot is a point-in-time read.
	require.NoError(t, store.Add("samtools"))
	require.False(t, isFavorite("samtools"))
}
