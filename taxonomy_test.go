package opine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLoader struct {
	mu      sync.Mutex
	entries []AspectEntry
	err     error
}

func (l *staticLoader) LoadTaxonomy(ctx context.Context) ([]AspectEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	out := make([]AspectEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func testEntries() (battery, camera, price AspectEntry) {
	battery = AspectEntry{
		ID:           uuid.New(),
		Name:         "Battery Life",
		CategoryName: "Electronics",
		Keywords:     []string{"battery", "charge", "battery life"},
	}
	camera = AspectEntry{
		ID:           uuid.New(),
		Name:         "Camera",
		CategoryName: "Electronics",
		Keywords:     []string{"lens", "photo", "picture"},
	}
	price = AspectEntry{
		ID:           uuid.New(),
		Name:         "Price",
		CategoryName: "General",
		Keywords:     []string{"cost", "value"},
	}
	return battery, camera, price
}

func loadedIndex(t *testing.T, entries ...AspectEntry) *TaxonomyIndex {
	t.Helper()
	ti := NewTaxonomyIndex(&staticLoader{entries: entries}, nil, nil)
	require.NoError(t, ti.Reload(context.Background()))
	return ti
}

func TestMatchPriority(t *testing.T) {
	battery, camera, price := testEntries()
	ti := loadedIndex(t, battery, camera, price)
	snap := ti.Snapshot()

	tests := []struct {
		name      string
		candidate string
		wantID    *uuid.UUID
		wantText  string
	}{
		{"name equality", "battery life", &battery.ID, "Battery Life"},
		{"name inside phrase", "battery life issue", &battery.ID, "Battery Life"},
		{"name as token", "camera setup", &camera.ID, "Camera"},
		{"keyword exact", "lens", &camera.ID, "lens"},
		{"keyword substring", "photos", &camera.ID, "photo"},
		{"keyword token", "shipping cost here", &price.ID, "cost"},
		{"fuzzy name", "batery life", &battery.ID, "Battery Life"},
		{"no match", "delivery speed", nil, ""},
		{"empty", "", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, text := snap.Match(tt.candidate)
			if tt.wantID == nil {
				assert.Nil(t, id)
			} else {
				require.NotNil(t, id)
				assert.Equal(t, *tt.wantID, *id)
			}
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestMatchNameBeatsKeyword(t *testing.T) {
	// "battery" is both camera's keyword and part of battery's name; the
	// name strategy must win.
	battery := AspectEntry{ID: uuid.New(), Name: "Battery", Keywords: nil}
	rival := AspectEntry{ID: uuid.New(), Name: "Power Bank", Keywords: []string{"battery"}}
	ti := loadedIndex(t, rival, battery)

	id, text := ti.Snapshot().Match("battery")
	require.NotNil(t, id)
	assert.Equal(t, battery.ID, *id)
	assert.Equal(t, "Battery", text)
}

func TestMatchFuzzyRespectsCutoff(t *testing.T) {
	battery, _, _ := testEntries()
	cfg := DefaultConfig()
	cfg.FuzzyCutoff = 0.95
	ti := NewTaxonomyIndex(&staticLoader{entries: []AspectEntry{battery}}, cfg, nil)
	require.NoError(t, ti.Reload(context.Background()))

	// One edit over 12 runes is ~0.92, under the raised cutoff.
	id, _ := ti.Snapshot().Match("batery life")
	assert.Nil(t, id)
}

func TestEmptyIndexMatchesNothing(t *testing.T) {
	ti := NewTaxonomyIndex(&staticLoader{}, nil, nil)
	require.NoError(t, ti.Reload(context.Background()))

	id, text := ti.Snapshot().Match("battery")
	assert.Nil(t, id)
	assert.Empty(t, text)
}

func TestReloadFailureDegradesToEmpty(t *testing.T) {
	battery, _, _ := testEntries()
	loader := &staticLoader{entries: []AspectEntry{battery}}
	ti := NewTaxonomyIndex(loader, nil, nil)
	require.NoError(t, ti.Reload(context.Background()))
	require.Equal(t, 1, ti.Snapshot().Len())

	loader.mu.Lock()
	loader.err = errors.New("store unreachable")
	loader.mu.Unlock()

	err := ti.Reload(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, ti.Snapshot().Len())

	id, _ := ti.Snapshot().Match("battery")
	assert.Nil(t, id)
}

func TestSnapshotIsolation(t *testing.T) {
	battery, camera, _ := testEntries()
	loader := &staticLoader{entries: []AspectEntry{battery}}
	ti := NewTaxonomyIndex(loader, nil, nil)
	require.NoError(t, ti.Reload(context.Background()))

	held := ti.Snapshot()

	loader.mu.Lock()
	loader.entries = []AspectEntry{camera}
	loader.mu.Unlock()
	require.NoError(t, ti.Reload(context.Background()))

	// The held snapshot still resolves against the old mapping.
	id, _ := held.Match("battery")
	require.NotNil(t, id)
	assert.Equal(t, battery.ID, *id)

	id, _ = ti.Snapshot().Match("battery")
	assert.Nil(t, id)
}

func TestReloadConcurrentWithMatch(t *testing.T) {
	battery, camera, price := testEntries()
	loader := &staticLoader{entries: []AspectEntry{battery, camera, price}}
	ti := NewTaxonomyIndex(loader, nil, nil)
	require.NoError(t, ti.Reload(context.Background()))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if err := ti.Reload(context.Background()); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			snap := ti.Snapshot()
			// A snapshot is all-or-nothing: matching either sees the
			// full taxonomy or none of it, never part of it.
			if n := snap.Len(); n != 0 && n != 3 {
				t.Errorf("partial snapshot with %d aspects", n)
				return
			}
			id, _ := snap.Match("battery")
			if snap.Len() == 3 && id == nil {
				t.Error("loaded snapshot failed to match")
				return
			}
		}
		close(done)
	}()
	wg.Wait()
}

func TestAspectLookup(t *testing.T) {
	battery, camera, _ := testEntries()
	ti := loadedIndex(t, battery, camera)
	snap := ti.Snapshot()

	got, ok := snap.Aspect(camera.ID)
	require.True(t, ok)
	assert.Equal(t, "Camera", got.Name)

	_, ok = snap.Aspect(uuid.New())
	assert.False(t, ok)
}
