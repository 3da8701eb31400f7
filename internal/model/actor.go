package model

// ActorID is a handle into the world registry. Executors keep handles, never
// *Actor pointers, across ticks: a handle is a weak reference and must be
// re-resolved every tick. Zero means "no actor".
type ActorID uint32

// Actor is a living entity visible to the behavior layer: the NPC being
// driven plus every candidate target around it. Stat resolution lives
// outside this layer; the HP fields are the command/query surface the layer
// consumes for liveness and threat math.
//
// Fields are plain values: the execution layer is single-threaded and every
// access happens from the tick goroutine (see package behavior doc).
type Actor struct {
	id    ActorID
	name  string
	loc   Location
	level int32

	currentHP int32
	maxHP     int32

	hostile    bool // hostile toward the owning NPC's faction
	destroying bool // pending destruction, weak references must treat as invalid
}

// NewActor creates an actor at the given location with full HP.
func NewActor(id ActorID, name string, loc Location, level, maxHP int32) *Actor {
	if maxHP < 1 {
		maxHP = 1
	}
	return &Actor{
		id:        id,
		name:      name,
		loc:       loc,
		level:     level,
		currentHP: maxHP,
		maxHP:     maxHP,
	}
}

// ID returns the actor handle (immutable after creation).
func (a *Actor) ID() ActorID {
	return a.id
}

// Name returns the actor name.
func (a *Actor) Name() string {
	return a.name
}

// Location returns a copy of the actor position (value type).
func (a *Actor) Location() Location {
	return a.loc
}

// SetLocation moves the actor.
func (a *Actor) SetLocation(loc Location) {
	a.loc = loc
}

// SetHeading turns the actor in place.
func (a *Actor) SetHeading(heading uint16) {
	a.loc.Heading = heading
}

// FaceToward turns the actor toward a point.
func (a *Actor) FaceToward(point Location) {
	a.loc = a.loc.FacingTo(point)
}

// Level returns the actor level.
func (a *Actor) Level() int32 {
	return a.level
}

// CurrentHP returns current HP.
func (a *Actor) CurrentHP() int32 {
	return a.currentHP
}

// MaxHP returns maximum HP.
func (a *Actor) MaxHP() int32 {
	return a.maxHP
}

// SetCurrentHP sets current HP clamped to [0, maxHP].
func (a *Actor) SetCurrentHP(hp int32) {
	if hp < 0 {
		hp = 0
	}
	if hp > a.maxHP {
		hp = a.maxHP
	}
	a.currentHP = hp
}

// IsDead reports whether the actor is out of HP.
func (a *Actor) IsDead() bool {
	return a.currentHP <= 0
}

// Hostile reports whether the actor is hostile toward the owning NPC.
func (a *Actor) Hostile() bool {
	return a.hostile
}

// SetHostile sets the hostility flag.
func (a *Actor) SetHostile(hostile bool) {
	a.hostile = hostile
}

// MarkForDestruction flags the actor as pending destruction. From this point
// every weak reference to it resolves as invalid even while the registry
// entry still exists.
func (a *Actor) MarkForDestruction() {
	a.destroying = true
}

// PendingDestruction reports whether the actor is about to be removed.
func (a *Actor) PendingDestruction() bool {
	return a.destroying
}
