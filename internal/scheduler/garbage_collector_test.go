package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/index"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/sources/worlds"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRefs struct {
	referenced map[int64]bool
	failFor    map[int64]bool
}

func (f *fakeRefs) IsCharacterReferenced(_ context.Context, id int64) (bool, error) {
	if f.failFor[id] {
		return false, errors.New("db down")
	}
	return f.referenced[id], nil
}

func TestGarbageCollector_Collect(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	memIndex := index.NewMemoryIndex()

	now := time.Now()
	records := []*domain.CharacterRecord{
		{ID: 1, Snapshot: &domain.Character{ID: 1}, FetchedAt: now},                          // fresh
		{ID: 2, Snapshot: &domain.Character{ID: 2}, FetchedAt: now.Add(-10 * 24 * time.Hour)}, // young
		{ID: 3, Snapshot: &domain.Character{ID: 3}, FetchedAt: now.Add(-35 * 24 * time.Hour)}, // old, unreferenced
		{ID: 4, Snapshot: &domain.Character{ID: 4}, FetchedAt: now.Add(-35 * 24 * time.Hour)}, // old, still a favorite
		{ID: 5, Snapshot: &domain.Character{ID: 5}, FetchedAt: now.Add(-35 * 24 * time.Hour)}, // old, check fails
	}
	for _, r := range records {
		if err := memIndex.UpsertCharacter(ctx, r); err != nil {
			t.Fatalf("UpsertCharacter failed: %v", err)
		}
	}

	refs := &fakeRefs{referenced: map[int64]bool{4: true}, failFor: map[int64]bool{5: true}}

	// Create GC with 30 day threshold
	gc := NewGarbageCollector(memIndex, refs, log, 24*time.Hour, 30*24*time.Hour)
	gc.now = func() time.Time { return now }

	deleted, err := gc.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Collect() deleted %d, want 1", deleted)
	}

	if memIndex.Count() != 4 {
		t.Errorf("Expected 4 records after GC, got %d", memIndex.Count())
	}
	if _, err := memIndex.FindCharacter(ctx, 3); !errors.Is(err, domain.ErrNotFound) {
		t.Error("Old unreferenced record was not removed")
	}
	for _, id := range []int64{1, 2, 4, 5} {
		if _, err := memIndex.FindCharacter(ctx, id); err != nil {
			t.Errorf("Record %d was incorrectly removed", id)
		}
	}
}

func TestGarbageCollector_StartStop(t *testing.T) {
	gc := NewGarbageCollector(index.NewMemoryIndex(), &fakeRefs{}, logger.Nop(), time.Hour, 0)
	if gc.threshold != DefaultGCThreshold {
		t.Errorf("threshold = %v, want %v", gc.threshold, DefaultGCThreshold)
	}

	if err := gc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	gc.Stop()
	gc.Stop()
}

func TestGarbageCollector_InvalidInterval(t *testing.T) {
	gc := NewGarbageCollector(index.NewMemoryIndex(), &fakeRefs{}, logger.Nop(), 0, 0)
	if err := gc.Start(context.Background()); err == nil {
		t.Error("Start should fail with a zero interval")
	}
	gc.Stop()
}

func TestWorldsReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worlds.yaml")
	write := func(content string) {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write worlds file: %v", err)
		}
	}
	write("datacenters:\n  - name: Light\n    worlds: [Phoenix]\n")

	catalog := worlds.NewCatalog()
	trigger := make(chan struct{})
	wr := NewWorldsReloader(path, catalog, logger.Nop(), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := wr.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer wr.Stop()

	if catalog.Len() != 1 {
		t.Fatalf("catalog.Len() = %d, want 1", catalog.Len())
	}

	write("datacenters:\n  - name: Light\n    worlds: [Phoenix, Odin]\n")
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for catalog.Len() != 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if catalog.Len() != 2 {
		t.Errorf("catalog.Len() after manual reload = %d, want 2", catalog.Len())
	}

	write("not: [valid")
	if err := wr.Reload(); err == nil {
		t.Error("Reload should fail for an invalid file")
	}
	if catalog.Len() != 2 {
		t.Error("failed reload must keep the previous catalog")
	}
}
