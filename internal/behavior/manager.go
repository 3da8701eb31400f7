package behavior

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/npcbehave/internal/model"
)

// TickManager drives behavior ticks for all registered NPCs
type TickManager struct {
	controllers     sync.Map // map[model.ActorID]Controller
	interval        time.Duration
	ticker          *time.Ticker
	stopCh          chan struct{}
	controllerCount atomic.Int32 // cached count of controllers (O(1) access)

	// worldSteps run before the controllers each tick, on the tick goroutine.
	// Registered during setup, before Start, so no lock is needed.
	worldSteps []func(dt time.Duration)
}

// NewTickManager creates new behavior tick manager
func NewTickManager(interval time.Duration) *TickManager {
	return &TickManager{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// AddWorldStep registers a world-stepping hook (navigator, animator) to run
// before the controllers each tick. Controllers then observe positions and
// clip states already advanced for the current tick.
// Must be called during setup, before Start.
func (m *TickManager) AddWorldStep(step func(dt time.Duration)) {
	m.worldSteps = append(m.worldSteps, step)
}

// Register registers behavior controller for NPC
func (m *TickManager) Register(actorID model.ActorID, controller Controller) {
	m.controllers.Store(actorID, controller)
	m.controllerCount.Add(1) // Update cached count
	controller.Start()

	slog.Debug("behavior controller registered", "actorID", actorID)
}

// Unregister unregisters behavior controller
func (m *TickManager) Unregister(actorID model.ActorID) {
	value, ok := m.controllers.LoadAndDelete(actorID)
	if !ok {
		return
	}

	m.controllerCount.Add(-1) // Update cached count

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("behavior controller unregistered", "actorID", actorID)
}

// Start starts behavior tick loop (blocks until context is canceled)
func (m *TickManager) Start(ctx context.Context) error {
	m.ticker = time.NewTicker(m.interval)
	defer m.ticker.Stop()

	slog.Info("behavior tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("behavior tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("behavior tick manager stopped")
			return nil

		case <-m.ticker.C:
			m.tickAll()
		}
	}
}

// Stop stops behavior tick loop
func (m *TickManager) Stop() {
	close(m.stopCh)
}

// tickAll ticks all registered controllers with a fixed dt of one interval.
// Durations are counted in accumulated tick time, so a stalled ticker slows
// the world down instead of skipping behavior.
func (m *TickManager) tickAll() {
	for _, step := range m.worldSteps {
		step(m.interval)
	}

	count := 0

	m.controllers.Range(func(key, value any) bool {
		controller := value.(Controller)
		controller.Tick(m.interval)
		count++
		return true
	})

	if count > 0 && IsDebugEnabled() {
		slog.Debug("behavior tick completed", "controllers", count)
	}
}

// Count returns number of registered controllers (O(1) cached count)
// IMPORTANT: Count is cached atomically and updated when controllers are registered/unregistered.
// This is a performance optimization to avoid O(N) Range() on sync.Map.
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns controller for NPC
func (m *TickManager) GetController(actorID model.ActorID) (Controller, error) {
	value, ok := m.controllers.Load(actorID)
	if !ok {
		return nil, fmt.Errorf("controller not found for actorID %d", actorID)
	}
	return value.(Controller), nil
}
