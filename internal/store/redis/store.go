package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Store persists character records in Redis.
//
// Records carry no Redis expiry: staleness is decided by the cache from
// FetchedAt, and old unreferenced records are removed by the garbage collector.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// FindCharacter retrieves a character record by ID
func (s *Store) FindCharacter(ctx context.Context, id int64) (*domain.CharacterRecord, error) {
	data, err := s.client.Get(ctx, CharacterKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("character %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var record domain.CharacterRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	record.ID = id

	return &record, nil
}

// UpsertCharacter stores a character record, snapshot and timestamp in a single write
func (s *Store) UpsertCharacter(ctx context.Context, record *domain.CharacterRecord) error {
	if record == nil || record.Snapshot == nil {
		return errors.New("refusing to store a character record without snapshot")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, CharacterKey(record.ID), data, 0)
	pipe.SAdd(ctx, AllCharactersKey(), record.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}

	return nil
}

// DeleteCharacter removes a character record
func (s *Store) DeleteCharacter(ctx context.Context, id int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, CharacterKey(id))
	pipe.SRem(ctx, AllCharactersKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

// ListCharacters retrieves all character records
func (s *Store) ListCharacters(ctx context.Context) ([]*domain.CharacterRecord, error) {
	ids, err := s.client.SMembers(ctx, AllCharactersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get character IDs: %w", err)
	}

	records := make([]*domain.CharacterRecord, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		record, err := s.FindCharacter(ctx, id)
		if err != nil {
			// Skip records that couldn't be retrieved
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
