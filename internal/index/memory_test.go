package index

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

func record(id int64, name string) *domain.CharacterRecord {
	return &domain.CharacterRecord{
		ID:        id,
		Snapshot:  &domain.Character{ID: id, Name: name},
		FetchedAt: time.Now(),
	}
}

func TestNewMemoryIndex(t *testing.T) {
	index := NewMemoryIndex()
	if index == nil {
		t.Fatal("NewMemoryIndex() returned nil")
	}
	if index.Count() != 0 {
		t.Errorf("NewMemoryIndex() should start empty, got %v", index.Count())
	}
}

func TestUpsertAndFind(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	if err := index.UpsertCharacter(ctx, record(1, "first")); err != nil {
		t.Fatalf("UpsertCharacter() error = %v", err)
	}
	if err := index.UpsertCharacter(ctx, record(1, "second")); err != nil {
		t.Fatalf("UpsertCharacter() error = %v", err)
	}

	got, err := index.FindCharacter(ctx, 1)
	if err != nil {
		t.Fatalf("FindCharacter() error = %v", err)
	}
	if got.Snapshot.Name != "second" {
		t.Errorf("FindCharacter() name = %v, want second", got.Snapshot.Name)
	}
	if index.Count() != 1 {
		t.Errorf("Count() = %v, want 1", index.Count())
	}
}

func TestFindMissing(t *testing.T) {
	index := NewMemoryIndex()

	_, err := index.FindCharacter(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindCharacter() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteCharacter(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	_ = index.UpsertCharacter(ctx, record(1, "a"))
	_ = index.UpsertCharacter(ctx, record(2, "b"))
	_ = index.DeleteCharacter(ctx, 1)

	all, _ := index.ListCharacters(ctx)
	if len(all) != 1 || all[0].ID != 2 {
		t.Errorf("ListCharacters() after delete = %+v, want only id 2", all)
	}
}

func TestFindReturnsCopy(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()
	_ = index.UpsertCharacter(ctx, record(1, "a"))

	got, _ := index.FindCharacter(ctx, 1)
	got.FetchedAt = time.Time{}

	again, _ := index.FindCharacter(ctx, 1)
	if again.FetchedAt.IsZero() {
		t.Error("mutating a returned record should not change the stored timestamp")
	}
}

func TestConcurrentAccess(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			_ = index.UpsertCharacter(ctx, record(id%10, "x"))
		}(int64(i))
		go func(id int64) {
			defer wg.Done()
			_, _ = index.FindCharacter(ctx, id%10)
		}(int64(i))
	}
	wg.Wait()

	if index.Count() != 10 {
		t.Errorf("Count() = %v, want 10", index.Count())
	}
}
