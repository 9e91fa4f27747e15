package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

// MemoryIndex provides in-memory storage for character records.
// It stands in for Redis when no address is configured and in tests.
type MemoryIndex struct {
	mu         sync.RWMutex
	characters map[int64]domain.CharacterRecord // ID -> record
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		characters: make(map[int64]domain.CharacterRecord),
	}
}

// FindCharacter retrieves a character record by ID
func (idx *MemoryIndex) FindCharacter(_ context.Context, id int64) (*domain.CharacterRecord, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	record, ok := idx.characters[id]
	if !ok {
		return nil, fmt.Errorf("character %d: %w", id, domain.ErrNotFound)
	}
	return &record, nil
}

// UpsertCharacter adds or replaces a character record
func (idx *MemoryIndex) UpsertCharacter(_ context.Context, record *domain.CharacterRecord) error {
	if record == nil || record.Snapshot == nil {
		return fmt.Errorf("refusing to store a character record without snapshot")
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.characters[record.ID] = *record
	return nil
}

// DeleteCharacter removes a character record from the index
func (idx *MemoryIndex) DeleteCharacter(_ context.Context, id int64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.characters, id)
	return nil
}

// ListCharacters returns all character records
func (idx *MemoryIndex) ListCharacters(_ context.Context) ([]*domain.CharacterRecord, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	records := make([]*domain.CharacterRecord, 0, len(idx.characters))
	for _, record := range idx.characters {
		r := record
		records = append(records, &r)
	}
	return records, nil
}

// Count returns the number of character records in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.characters)
}

// Ping always succeeds; the index lives in-process.
func (idx *MemoryIndex) Ping(context.Context) error { return nil }
