package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every operation, like storage that is unavailable or
// over quota.
type brokenStore struct{}

func (brokenStore) Get(string) ([]byte, error) { return nil, errors.New("storage unavailable") }
func (brokenStore) Set(string, []byte) error   { return errors.New("quota exceeded") }

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get("budget_insights")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("budget_insights", []byte(`[]`)))
	got, err := s.Get("budget_insights")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMemoryStore_Copies(t *testing.T) {
	s := NewMemoryStore()
	data := []byte(`["a"]`)
	require.NoError(t, s.Set("k", data))

	data[2] = 'z'
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got), "Set must copy its input")

	got[2] = 'z'
	again, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(again), "Get must return a copy")
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set("budget_tx_keys_v1", []byte(`["id:1","id:2"]`)))

	got, err := s.Get("budget_tx_keys_v1")
	require.NoError(t, err)
	assert.Equal(t, `["id:1","id:2"]`, string(got))

	_, err = os.Stat(filepath.Join(dir, "budget_tx_keys_v1.json"))
	require.NoError(t, err, "one file per key")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_Overwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("k", []byte(`["old"]`)))
	require.NoError(t, s.Set("k", []byte(`["new"]`)))

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(got))
}

func TestFileStore_NotFound(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_InvalidKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.Error(t, s.Set(key, []byte(`[]`)), "key %q", key)
		_, err := s.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestReadJSON_Missing(t *testing.T) {
	got := ReadJSON[[]string](NewMemoryStore(), zerolog.Nop(), "budget_insights_deleted")
	assert.Empty(t, got)
}

func TestReadJSON_Corrupt(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("budget_insights_deleted", []byte(`["a", `)))

	got := ReadJSON[[]string](s, zerolog.Nop(), "budget_insights_deleted")
	assert.Empty(t, got)
}

func TestReadJSON_WrongShape(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("budget_insights_deleted", []byte(`{"not":"a list"}`)))

	got := ReadJSON[[]string](s, zerolog.Nop(), "budget_insights_deleted")
	assert.Empty(t, got)
}

func TestReadJSON_StoreFailure(t *testing.T) {
	got := ReadJSON[[]string](brokenStore{}, zerolog.Nop(), "budget_insights")
	assert.Empty(t, got)
}

func TestWriteJSON(t *testing.T) {
	s := NewMemoryStore()
	ok := WriteJSON(s, zerolog.Nop(), "k", []string{"a", "b"})
	assert.True(t, ok)

	got := ReadJSON[[]string](s, zerolog.Nop(), "k")
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestWriteJSON_Swallowed(t *testing.T) {
	assert.False(t, WriteJSON(brokenStore{}, zerolog.Nop(), "k", []string{"a"}))

	// Unencodable values are skipped rather than panicking.
	assert.False(t, WriteJSON(NewMemoryStore(), zerolog.Nop(), "k", make(chan int)))
}
