// Package sim provides headless collaborator implementations: a constant
// speed step navigator and a bookkeeping clip animator. cmd/behaviorsim and
// scenario tests wire them where an engine would provide the real systems.
package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/udisondev/npcbehave/internal/behavior"
	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/model"
	"github.com/udisondev/npcbehave/internal/world"
)

// StepNavigator advances actors toward their requested destinations at
// constant speed, one straight-line step per tick. Obstacles are ignored
// while stepping; line-of-sight gating stays the executors' concern.
//
// Plain map, no locks: requests are issued by executors and stepped by the
// tick manager on the same tick goroutine.
type StepNavigator struct {
	world *world.Registry
	speed float64 // world units per second
	dests map[model.ActorID]model.Location
}

var _ behavior.Navigator = (*StepNavigator)(nil)

// NewStepNavigator creates a navigator stepping actors at cfg.MoveSpeed.
func NewStepNavigator(reg *world.Registry, cfg config.SimulationConfig) *StepNavigator {
	return &StepNavigator{
		world: reg,
		speed: cfg.MoveSpeed,
		dests: make(map[model.ActorID]model.Location),
	}
}

// MoveTo starts moving an actor toward dest, replacing any active request.
func (n *StepNavigator) MoveTo(id model.ActorID, dest model.Location) error {
	actor, ok := n.world.Resolve(id)
	if !ok {
		return fmt.Errorf("actor %d is not in the world", id)
	}
	if actor.IsDead() {
		return fmt.Errorf("actor %d is dead", id)
	}
	n.dests[id] = dest
	return nil
}

// Stop cancels the active move request for an actor.
func (n *StepNavigator) Stop(id model.ActorID) {
	delete(n.dests, id)
}

// IsMoving reports whether the actor has an active move request.
func (n *StepNavigator) IsMoving(id model.ActorID) bool {
	_, ok := n.dests[id]
	return ok
}

// Tick advances every active request by one constant-speed step.
// Requests of arrived, dead, and vanished actors are dropped.
func (n *StepNavigator) Tick(dt time.Duration) {
	step := int32(math.Round(n.speed * dt.Seconds()))
	if step < 1 {
		step = 1
	}

	for id, dest := range n.dests {
		actor, ok := n.world.Resolve(id)
		if !ok || actor.IsDead() {
			delete(n.dests, id)
			continue
		}

		next := actor.Location().Toward(dest, step)
		actor.SetLocation(next)

		if next.X == dest.X && next.Y == dest.Y && next.Z == dest.Z {
			delete(n.dests, id)
		}
	}
}
