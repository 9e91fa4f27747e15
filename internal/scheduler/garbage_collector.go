package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/logger"
)

const (
	// DefaultGCThreshold is the age after which unreferenced character records are deleted
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// CharacterStore is the character record store swept by the collector.
type CharacterStore interface {
	ListCharacters(ctx context.Context) ([]*domain.CharacterRecord, error)
	DeleteCharacter(ctx context.Context, id int64) error
}

// ReferenceChecker reports whether a link or favorite still points at a character.
type ReferenceChecker interface {
	IsCharacterReferenced(ctx context.Context, characterID int64) (bool, error)
}

// GarbageCollector deletes character records that are both old and no longer
// referenced. Purging an identity link never deletes records directly; this
// sweep is what eventually reclaims them.
type GarbageCollector struct {
	store     CharacterStore
	refs      ReferenceChecker
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store CharacterStore,
	refs ReferenceChecker,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		refs:      refs,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	if gc.interval <= 0 {
		return fmt.Errorf("gc interval must be > 0, got %v", gc.interval)
	}

	// Run immediately on start
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	// Start periodic collection
	ticker := time.NewTicker(gc.interval)
	gc.done = make(chan struct{})
	go func() {
		defer close(gc.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector and waits for the loop to exit
func (gc *GarbageCollector) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
	if gc.done != nil {
		<-gc.done
	}
}

// Collect removes character records older than the threshold that nothing
// references anymore. It returns the number of deleted records.
func (gc *GarbageCollector) Collect(ctx context.Context) (int, error) {
	gc.logger.Info("running garbage collection for character records")

	records, err := gc.store.ListCharacters(ctx)
	if err != nil {
		return 0, fmt.Errorf("list characters: %w", err)
	}

	now := gc.now()
	deletedCount := 0

	for _, rec := range records {
		age := now.Sub(rec.FetchedAt)
		if age < gc.threshold {
			continue
		}

		referenced, err := gc.refs.IsCharacterReferenced(ctx, rec.ID)
		if err != nil {
			// Keep the record when in doubt
			gc.logger.Warn("failed to check character references",
				logger.Int64("character_id", rec.ID),
				logger.Error(err))
			continue
		}
		if referenced {
			continue
		}

		if err := gc.store.DeleteCharacter(ctx, rec.ID); err != nil {
			gc.logger.Warn("failed to delete character record",
				logger.Int64("character_id", rec.ID),
				logger.Error(err))
			continue
		}

		gc.logger.Info("garbage collected character record",
			logger.Int64("character_id", rec.ID),
			logger.String("age", age.String()))

		deletedCount++
	}

	if deletedCount > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("deleted", deletedCount))
	} else {
		gc.logger.Debug("no character records to garbage collect")
	}

	return deletedCount, nil
}
