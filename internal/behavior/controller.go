package behavior

import (
	"time"

	"github.com/udisondev/npcbehave/internal/model"
)

// Controller represents the per-NPC behavior driver registered with the TickManager.
type Controller interface {
	// Start starts the controller
	Start()

	// Stop stops the controller, interrupting any active intent
	Stop()

	// Submit enqueues an intent for execution
	Submit(intent model.Intent) error

	// CurrentIntent returns the intent being executed (zero Intent when idle)
	CurrentIntent() model.Intent

	// Tick advances execution by one simulation step
	Tick(dt time.Duration)
}
