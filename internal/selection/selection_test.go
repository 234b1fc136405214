package selection_test

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qadesk/qadesk/internal/selection"
)

func TestSelector_Current(t *testing.T) {
	stored := uuid.New().String()
	override := uuid.New().String()

	tests := []struct {
		name       string
		stored     string
		override   string
		wantID     string
		wantOK     bool
		wantStored bool
	}{
		{name: "nothing selected"},
		{name: "stored only", stored: stored, wantID: stored, wantOK: true, wantStored: true},
		{name: "override wins", stored: stored, override: override, wantID: override, wantOK: true, wantStored: true},
		{name: "invalid override falls back", stored: stored, override: "42", wantID: stored, wantOK: true, wantStored: true},
		{name: "invalid stored value is discarded", stored: "not-an-id", wantStored: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := selection.NewMemoryStore()
			if tt.stored != "" {
				require.NoError(t, store.Set(selection.Key, tt.stored))
			}
			sel := selection.NewSelector(store)

			id, ok, err := sel.Current(tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)

			_, present, err := store.Get(selection.Key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStored, present)
		})
	}
}

func TestSelector_SelectAndClear(t *testing.T) {
	store := selection.NewMemoryStore()
	sel := selection.NewSelector(store)

	id := uuid.New().String()
	require.NoError(t, sel.Select(id))

	got, ok, err := sel.Current("")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	assert.Error(t, sel.Select("123"))

	require.NoError(t, sel.Clear())
	_, ok, err = sel.Current("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := selection.NewFileStore(path)

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("b", "2"))

	reopened := selection.NewFileStore(path)
	v, ok, err := reopened.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, reopened.Delete("a"))
	require.NoError(t, reopened.Delete("never-set"))
	_, ok, err = store.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := selection.NewFileStore(path).Get(selection.Key)
	assert.Error(t, err)
}

func TestQueryHelpers(t *testing.T) {
	q := url.Values{"tab": {"bugs"}}
	id := uuid.New().String()

	with := selection.WithSelection(q, id)
	assert.Equal(t, id, selection.QueryValue(with))
	assert.Equal(t, "bugs", with.Get("tab"))
	assert.Empty(t, selection.QueryValue(q), "input must not be modified")

	without := selection.WithSelection(with, "")
	assert.Empty(t, selection.QueryValue(without))
	assert.Equal(t, "tab=bugs", without.Encode())
}
