package world

import (
	"fmt"
	"math"
	"sync"

	"github.com/udisondev/npcbehave/internal/model"
)

// Registry tracks every actor visible to the behavior layer and resolves
// weak actor handles. handles are re-resolved every tick; an actor that is
// gone or pending destruction resolves as invalid, never as a stale pointer.
type Registry struct {
	actors sync.Map // map[model.ActorID]*model.Actor

	// Obstacles are registered during world setup, before tick loops start.
	obstacles []Obstacle
}

// Obstacle is a blocking cylinder on the XY plane.
type Obstacle struct {
	Center model.Location
	Radius int32
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add registers an actor. Re-adding the same ID replaces the entry.
func (r *Registry) Add(actor *model.Actor) error {
	if actor.ID() == 0 {
		return fmt.Errorf("actor %q has no ID", actor.Name())
	}
	r.actors.Store(actor.ID(), actor)
	return nil
}

// Remove deletes an actor from the registry.
func (r *Registry) Remove(id model.ActorID) {
	r.actors.LoadAndDelete(id)
}

// Resolve turns a weak handle into a live actor.
// Returns nil, false when the actor is gone or pending destruction; callers
// must not cache the returned pointer across ticks.
func (r *Registry) Resolve(id model.ActorID) (*model.Actor, bool) {
	value, ok := r.actors.Load(id)
	if !ok {
		return nil, false
	}
	actor := value.(*model.Actor)
	if actor.PendingDestruction() {
		return nil, false
	}
	return actor, true
}

// Range calls f for every live actor. Iteration stops when f returns false.
// Actors pending destruction are skipped.
func (r *Registry) Range(f func(*model.Actor) bool) {
	r.actors.Range(func(_, value any) bool {
		actor := value.(*model.Actor)
		if actor.PendingDestruction() {
			return true
		}
		return f(actor)
	})
}

// Count returns the number of live actors (O(N)).
func (r *Registry) Count() int {
	count := 0
	r.Range(func(*model.Actor) bool {
		count++
		return true
	})
	return count
}

// NearestHostile scans for the closest living hostile actor within maxRange
// of a point, excluding one handle (usually the scanning NPC itself).
// Returns 0, false when nothing qualifies.
func (r *Registry) NearestHostile(from model.Location, maxRange int32, exclude model.ActorID) (model.ActorID, bool) {
	return r.nearest(from, maxRange, exclude, func(a *model.Actor) bool {
		return a.Hostile() && !a.IsDead()
	})
}

// NearestFriendly scans for the closest living non-hostile actor within
// maxRange of a point, excluding one handle. Social intents without a named
// partner fall back to it. Returns 0, false when nothing qualifies.
func (r *Registry) NearestFriendly(from model.Location, maxRange int32, exclude model.ActorID) (model.ActorID, bool) {
	return r.nearest(from, maxRange, exclude, func(a *model.Actor) bool {
		return !a.Hostile() && !a.IsDead()
	})
}

func (r *Registry) nearest(from model.Location, maxRange int32, exclude model.ActorID, keep func(*model.Actor) bool) (model.ActorID, bool) {
	maxSq := int64(maxRange) * int64(maxRange)
	bestSq := maxSq + 1
	var best model.ActorID

	r.Range(func(a *model.Actor) bool {
		if a.ID() == exclude || !keep(a) {
			return true
		}
		distSq := from.DistanceSquared(a.Location())
		if distSq <= maxSq && distSq < bestSq {
			bestSq = distSq
			best = a.ID()
		}
		return true
	})

	if best == 0 {
		return 0, false
	}
	return best, true
}

// AddObstacle registers a blocking cylinder. Call during setup only.
func (r *Registry) AddObstacle(obs Obstacle) {
	r.obstacles = append(r.obstacles, obs)
}

// LineOfSight checks whether the straight XY segment between two points
// passes through any obstacle. An empty obstacle set means clear sight
// everywhere.
func (r *Registry) LineOfSight(from, to model.Location) bool {
	for _, obs := range r.obstacles {
		if segmentHitsObstacle(from, to, obs) {
			return false
		}
	}
	return true
}

// segmentHitsObstacle tests the closest approach of the from-to segment to
// the obstacle center against its radius, on the XY plane.
func segmentHitsObstacle(from, to model.Location, obs Obstacle) bool {
	fx, fy := float64(from.X), float64(from.Y)
	dx, dy := float64(to.X)-fx, float64(to.Y)-fy
	cx, cy := float64(obs.Center.X), float64(obs.Center.Y)

	t := 0.0
	if lenSq := dx*dx + dy*dy; lenSq > 0 {
		t = ((cx-fx)*dx + (cy-fy)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	nx := fx + t*dx - cx
	ny := fy + t*dy - cy
	return nx*nx+ny*ny < float64(obs.Radius)*float64(obs.Radius)
}
