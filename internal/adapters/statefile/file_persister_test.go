package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/listingsync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersister_LoadMissing(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "none.json"))
	data, err := p.Load()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFilePersister_SaveCreatesDirsAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	p := NewFilePersister(path)

	require.NoError(t, p.Save([]byte(`{"version":1}`)))
	require.NoError(t, p.Save([]byte(`{"version":1,"state":{}}`)))

	data, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"version":1,"state":{}}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFilePersister_WithStore(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "state.json"))

	store := listingsync.NewStore(p, nil)
	store.SetView(domain.LatLng{Lat: 43.6, Lng: 3.88}, 10)
	store.ToggleFilter(domain.CategoryProductionMethod, "biologique")

	restored := listingsync.NewStore(p, nil).Snapshot()
	assert.Equal(t, domain.LatLng{Lat: 43.6, Lng: 3.88}, restored.Map.Center)
	assert.Equal(t, []string{"biologique"}, restored.Filters.Selected(domain.CategoryProductionMethod))
}

func TestFilePersister_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st := listingsync.NewStore(NewFilePersister(path), nil).Snapshot()
	assert.Equal(t, listingsync.DefaultZoom, st.Map.Zoom)
}
