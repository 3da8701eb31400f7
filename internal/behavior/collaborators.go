package behavior

import (
	"github.com/udisondev/npcbehave/internal/model"
)

// Navigator drives actor locomotion. Executors issue fire-and-forget move
// requests and poll arrival by distance each tick; the headless
// implementation lives in internal/sim.
type Navigator interface {
	// MoveTo starts moving an actor toward dest, replacing any active request.
	MoveTo(id model.ActorID, dest model.Location) error

	// Stop cancels the active move request for an actor.
	Stop(id model.ActorID)

	// IsMoving reports whether the actor has an active move request.
	IsMoving(id model.ActorID) bool
}

// Animator plays expressive clips on actors. The headless implementation
// lives in internal/sim; an engine adapter would forward to the skeletal
// animation system.
type Animator interface {
	// Play starts a clip on an actor, replacing whatever is playing.
	Play(id model.ActorID, clip string, playRate float64, looping bool) error

	// Stop blends out whatever the actor is playing.
	Stop(id model.ActorID)

	// IsPlaying reports whether the named clip is still active on the actor.
	IsPlaying(id model.ActorID, clip string) bool
}

// Perception answers the spatial queries executors need: weak handle
// resolution, line of sight, and hostile scans. *world.Registry satisfies it.
type Perception interface {
	// Resolve turns a weak actor handle into a live actor.
	// Returns nil, false when the actor is gone or pending destruction.
	Resolve(id model.ActorID) (*model.Actor, bool)

	// LineOfSight reports whether the straight path between two points is clear.
	LineOfSight(from, to model.Location) bool

	// NearestHostile finds the closest living hostile within maxRange of a
	// point, excluding one handle.
	NearestHostile(from model.Location, maxRange int32, exclude model.ActorID) (model.ActorID, bool)

	// NearestFriendly finds the closest living non-hostile actor within
	// maxRange of a point, excluding one handle.
	NearestFriendly(from model.Location, maxRange int32, exclude model.ActorID) (model.ActorID, bool)
}

// AttackFunc executes one strike from attacker against target.
// Injected by the embedding game to avoid a dependency on combat resolution.
type AttackFunc func(attacker, target *model.Actor)
