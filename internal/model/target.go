package model

import "time"

// Target caches per-tick spatial and visibility data about a combat or
// interaction candidate. The actor itself is held only as a weak handle;
// the owning executor re-resolves it every tick and refreshes this record.
type Target struct {
	ActorID       ActorID
	LastKnownPos  Location
	LastSeenAt    time.Time
	Distance      float64
	InLineOfSight bool
	ThreatLevel   float64 // [0,1], normalized share of the threat list
}

// NewTarget creates a target record for an actor handle.
func NewTarget(id ActorID) Target {
	return Target{ActorID: id}
}

// Refresh updates the cached record from a resolved actor. Position and
// distance follow the actor while it resolves; LastSeenAt only advances
// while the target is in line of sight.
func (t *Target) Refresh(actor *Actor, from Location, inSight bool, now time.Time) {
	t.LastKnownPos = actor.Location()
	t.Distance = from.Distance(t.LastKnownPos)
	t.InLineOfSight = inSight
	if inSight {
		t.LastSeenAt = now
	}
}

// SetThreatLevel stores the normalized threat value, clamped to [0,1].
func (t *Target) SetThreatLevel(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	t.ThreatLevel = level
}
