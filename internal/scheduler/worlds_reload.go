package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/sources/worlds"
)

// WorldsReloader handles periodic reloading of the world catalog
type WorldsReloader struct {
	loader        *worlds.Loader
	catalog       *worlds.Catalog
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
	manualTrigger <-chan struct{}
}

// NewWorldsReloader creates a new world catalog reloader
func NewWorldsReloader(
	worldsFile string,
	catalog *worlds.Catalog,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *WorldsReloader {
	return &WorldsReloader{
		loader:        worlds.NewLoader(worldsFile),
		catalog:       catalog,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once and then reloads it periodically or on demand
func (wr *WorldsReloader) Start(ctx context.Context) error {
	if wr.interval <= 0 {
		return fmt.Errorf("reload interval must be > 0, got %v", wr.interval)
	}

	// Load immediately on start
	if err := wr.Reload(); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(wr.interval)
	wr.done = make(chan struct{})
	go func() {
		defer close(wr.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := wr.Reload(); err != nil {
					wr.logger.Error("failed to reload worlds",
						logger.Error(err))
				}
			case <-wr.manualTrigger:
				wr.logger.Info("manual reload triggered")
				if err := wr.Reload(); err != nil {
					wr.logger.Error("failed to reload worlds",
						logger.Error(err))
				}
			case <-wr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader and waits for the loop to exit
func (wr *WorldsReloader) Stop() {
	wr.stopOnce.Do(func() { close(wr.stopCh) })
	if wr.done != nil {
		<-wr.done
	}
}

// Reload reads the worlds file and swaps the catalog. On failure the previous
// catalog stays in place.
func (wr *WorldsReloader) Reload() error {
	file, err := wr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load worlds: %w", err)
	}

	list, err := worlds.MapWorlds(file)
	if err != nil {
		return fmt.Errorf("failed to map worlds: %w", err)
	}

	wr.catalog.Replace(list)
	wr.logger.Info("loaded world catalog",
		logger.String("file", wr.loader.Path()),
		logger.Int("count", len(list)))

	return nil
}
