package opine

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// An AspectEntry is one taxonomy aspect with its owning category and lookup
// keywords, as loaded from the persisted store.
type AspectEntry struct {
	ID           uuid.UUID
	Name         string
	CategoryID   uuid.UUID
	CategoryName string
	Weightage    float64
	Keywords     []string

	normName string
}

// A Loader supplies the full taxonomy in one bulk read.
type Loader interface {
	LoadTaxonomy(ctx context.Context) ([]AspectEntry, error)
}

// A Snapshot is an immutable view of the taxonomy. Matching always runs
// against a snapshot, so a concurrent reload can never expose a partially
// updated mapping.
type Snapshot struct {
	aspects []AspectEntry
	byID    map[uuid.UUID]int
	cutoff  float64
}

func newSnapshot(entries []AspectEntry, cutoff float64) *Snapshot {
	s := &Snapshot{
		aspects: make([]AspectEntry, 0, len(entries)),
		byID:    make(map[uuid.UUID]int, len(entries)),
		cutoff:  cutoff,
	}
	for _, e := range entries {
		e.normName = Normalize(e.Name)
		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			if n := Normalize(kw); n != "" {
				kws = append(kws, n)
			}
		}
		sort.Strings(kws)
		e.Keywords = kws
		s.aspects = append(s.aspects, e)
	}
	// Stable iteration order: strategies short-circuit on first hit, so the
	// order must not vary between runs.
	sort.Slice(s.aspects, func(i, j int) bool {
		if s.aspects[i].normName != s.aspects[j].normName {
			return s.aspects[i].normName < s.aspects[j].normName
		}
		return s.aspects[i].ID.String() < s.aspects[j].ID.String()
	})
	for i := range s.aspects {
		s.byID[s.aspects[i].ID] = i
	}
	return s
}

// Len returns the number of aspects in the snapshot.
func (s *Snapshot) Len() int { return len(s.aspects) }

// Aspects returns the snapshot's entries in iteration order.
func (s *Snapshot) Aspects() []AspectEntry { return s.aspects }

// Aspect looks up an entry by ID.
func (s *Snapshot) Aspect(id uuid.UUID) (AspectEntry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return AspectEntry{}, false
	}
	return s.aspects[i], true
}

// TaxonomyIndex holds the in-memory taxonomy behind a single atomically
// swapped reference. Reload replaces the snapshot wholesale; readers observe
// either the fully-old or fully-new mapping, never a mix.
type TaxonomyIndex struct {
	loader Loader
	log    *zap.Logger
	cutoff float64
	snap   atomic.Pointer[Snapshot]
}

// NewTaxonomyIndex creates an index backed by loader. The index starts empty;
// call Reload to populate it. A nil config uses DefaultConfig.
func NewTaxonomyIndex(loader Loader, cfg *Config, log *zap.Logger) *TaxonomyIndex {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	ti := &TaxonomyIndex{loader: loader, log: log, cutoff: cfg.FuzzyCutoff}
	ti.snap.Store(newSnapshot(nil, ti.cutoff))
	return ti
}

// Reload re-reads the taxonomy from the store and atomically replaces the
// in-memory snapshot. An unreachable or empty store is not fatal: the index
// degrades to an empty mapping so the matcher returns no-match for
// everything, and the condition is logged. The load error is returned for
// visibility.
func (ti *TaxonomyIndex) Reload(ctx context.Context) error {
	entries, err := ti.loader.LoadTaxonomy(ctx)
	if err != nil {
		ti.log.Warn("taxonomy load failed, matching degrades to no-match", zap.Error(err))
		ti.snap.Store(newSnapshot(nil, ti.cutoff))
		return err
	}
	if len(entries) == 0 {
		ti.log.Warn("taxonomy store is empty, matching degrades to no-match")
	}
	ti.snap.Store(newSnapshot(entries, ti.cutoff))
	ti.log.Info("taxonomy loaded", zap.Int("aspects", len(entries)))
	return nil
}

// Snapshot returns the current immutable taxonomy view.
func (ti *TaxonomyIndex) Snapshot() *Snapshot {
	return ti.snap.Load()
}

// tokensOf splits a normalized candidate into whitespace tokens.
func tokensOf(candidate string) []string {
	return strings.Fields(candidate)
}
