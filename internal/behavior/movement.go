package behavior

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/model"
)

// movementTags lists the intent families the movement executor handles.
// Social.Follow is spatial behavior and belongs here, not with the social
// interactions; routing order in the dispatcher claims it first. Idle and
// guard intents hold position in place, no navigation involved.
var movementTags = []model.Tag{
	model.TagWander,
	model.TagPatrol,
	model.TagExplore,
	model.TagFlee,
	model.TagMoveTo,
	model.TagSocialFollow,
	model.TagIdle,
	model.TagGuard,
	model.TagCuriosityWatch,
}

// moveState tracks where the movement executor is inside an execution.
type moveState int32

const (
	moveIdle      moveState = iota // no active intent
	moveTraveling                  // navigator is driving us toward dest
	moveWaiting                    // pausing at a waypoint or holding in place
	moveFollowing                  // trailing a followed actor
)

// String returns human-readable state name
func (s moveState) String() string {
	switch s {
	case moveIdle:
		return "IDLE"
	case moveTraveling:
		return "TRAVELING"
	case moveWaiting:
		return "WAITING"
	case moveFollowing:
		return "FOLLOWING"
	default:
		return "UNKNOWN"
	}
}

// MovementExecutor executes spatial repositioning intents: wandering,
// patrol, exploration, fleeing, directed moves, following, and in-place
// holds for idle and guard intents.
//
// Wander-family intents execute one leg per intent: pick a waypoint, walk
// there, pause, succeed. Continuous wandering is the planner re-issuing the
// intent. Follow runs until the target is lost or the execution is
// interrupted; it never succeeds on its own. Holds skip the travel phase
// and succeed after the waypoint pause duration.
type MovementExecutor struct {
	execCore

	self model.ActorID
	cfg  config.MovementConfig

	nav   Navigator
	world Perception

	state     moveState
	stateTime time.Duration

	dest        model.Location
	followID    model.ActorID
	initialDist float64

	// home anchors the wander annulus, captured on the first roam leg.
	home    model.Location
	hasHome bool
}

// NewMovementExecutor creates a movement executor for one actor.
func NewMovementExecutor(self model.ActorID, cfg config.MovementConfig, nav Navigator, world Perception) *MovementExecutor {
	return &MovementExecutor{
		self:  self,
		cfg:   cfg,
		nav:   nav,
		world: world,
	}
}

// CanExecute reports whether the executor handles this intent's tag.
func (e *MovementExecutor) CanExecute(intent model.Intent) bool {
	return intent.Tag().MatchesAnySupported(movementTags)
}

// SupportedTags returns the tag families the executor handles.
func (e *MovementExecutor) SupportedTags() []model.Tag {
	return movementTags
}

// Execute validates the intent and starts moving.
func (e *MovementExecutor) Execute(intent model.Intent) model.ExecutionStatus {
	if e.status == model.StatusInProgress {
		e.Interrupt()
	}

	if !e.CanExecute(intent) {
		return e.failStart(intent, "unsupported tag "+intent.Tag().String())
	}

	self, ok := e.world.Resolve(e.self)
	if !ok {
		return e.failStart(intent, "executing actor is gone")
	}

	tag := intent.Tag()
	switch {
	case tag.HasAncestor(model.TagSocialFollow):
		targetID, ok := intent.TargetActor()
		if !ok {
			return e.failStart(intent, "follow intent has no target actor")
		}
		if _, ok := e.world.Resolve(targetID); !ok {
			return e.failStart(intent, "follow target is gone")
		}
		e.begin(intent)
		e.followID = targetID
		e.setState(moveFollowing)

	case tag.HasAncestor(model.TagMoveTo):
		dest, ok := intent.Destination()
		if !ok {
			return e.failStart(intent, "move intent has no destination")
		}
		e.begin(intent)
		if st := e.startTravel(self, dest); st != model.StatusInProgress {
			return st
		}

	case tag.HasAncestor(model.TagFlee):
		threat, ok := e.threatPoint(intent)
		if !ok {
			return e.failStart(intent, "flee intent has no threat location")
		}
		dest := self.Location().ProjectAway(threat, e.cfg.FleeDistance)
		e.begin(intent)
		if st := e.startTravel(self, dest); st != model.StatusInProgress {
			return st
		}

	case e.isHoldIntent(tag):
		// Idle in place, no navigation request
		e.begin(intent)
		e.setState(moveWaiting)

	default: // wander, patrol, explore
		e.begin(intent)
		if st := e.startTravel(self, e.pickWaypoint(e.homeLocation(self))); st != model.StatusInProgress {
			return st
		}
	}

	if IsDebugEnabled() {
		slog.Debug("movement started",
			"actorID", e.self,
			"intentID", intent.ID(),
			"tag", intent.Tag(),
			"state", e.state)
	}
	return model.StatusInProgress
}

// Tick advances the active movement by dt.
func (e *MovementExecutor) Tick(dt time.Duration) {
	if e.status != model.StatusInProgress {
		return
	}
	e.advance(dt)
	e.stateTime += dt

	self, ok := e.world.Resolve(e.self)
	if !ok {
		e.nav.Stop(e.self)
		e.setState(moveIdle)
		e.finish(model.StatusFailed, e.ratio, "executing actor is gone")
		return
	}

	switch e.state {
	case moveTraveling:
		e.tickTravel(self)
	case moveWaiting:
		e.tickWait()
	case moveFollowing:
		e.tickFollow(self)
	}
}

// Interrupt force-stops the active movement.
func (e *MovementExecutor) Interrupt() {
	if e.status != model.StatusInProgress {
		return
	}
	e.nav.Stop(e.self)
	e.setState(moveIdle)
	e.finish(model.StatusInterrupted, e.ratio, "interrupted")

	if IsDebugEnabled() {
		slog.Debug("movement interrupted",
			"actorID", e.self,
			"intentID", e.intent.ID(),
			"tag", e.intent.Tag())
	}
}

// startTravel records the destination and issues the move request.
func (e *MovementExecutor) startTravel(self *model.Actor, dest model.Location) model.ExecutionStatus {
	e.dest = dest
	e.initialDist = self.Location().Distance(dest)

	if err := e.nav.MoveTo(e.self, dest); err != nil {
		e.setState(moveIdle)
		e.finish(model.StatusFailed, 0, "navigator rejected move: "+err.Error())
		return model.StatusFailed
	}
	e.setState(moveTraveling)
	return model.StatusInProgress
}

// tickTravel polls arrival. The destination counts as reached either when
// the actor is within the acceptance radius or when the navigator finished
// the request inside it, whichever happens first.
func (e *MovementExecutor) tickTravel(self *model.Actor) {
	loc := self.Location()
	if e.initialDist > 0 {
		e.setRatio(1 - loc.Distance(e.dest)/e.initialDist)
	}

	if loc.WithinRange(e.dest, e.cfg.AcceptanceRadius) {
		e.arrive()
		return
	}

	// Navigator gave up outside the acceptance radius: blocked path
	if !e.nav.IsMoving(e.self) {
		e.setState(moveIdle)
		e.finish(model.StatusFailed, e.ratio, "movement stalled before reaching destination")

		if IsDebugEnabled() {
			slog.Debug("movement stalled",
				"actorID", e.self,
				"intentID", e.intent.ID(),
				"destX", e.dest.X,
				"destY", e.dest.Y)
		}
	}
}

// arrive handles a reached destination. Wander-family intents pause at the
// waypoint before succeeding; directed moves succeed immediately.
func (e *MovementExecutor) arrive() {
	e.nav.Stop(e.self)

	if e.isRoamIntent() {
		e.setState(moveWaiting)
		return
	}

	e.setState(moveIdle)
	e.finish(model.StatusSucceeded, 1, "arrived")

	if IsDebugEnabled() {
		slog.Debug("movement arrived",
			"actorID", e.self,
			"intentID", e.intent.ID(),
			"tag", e.intent.Tag())
	}
}

// tickWait holds at the waypoint or in place, then completes the leg.
// Progress while waiting is the elapsed fraction of the wait.
func (e *MovementExecutor) tickWait() {
	e.setRatio(e.stateTime.Seconds() / e.cfg.WaitAtDestination.Seconds())
	if e.stateTime < e.cfg.WaitAtDestination {
		return
	}

	e.setState(moveIdle)
	if e.isHoldIntent(e.intent.Tag()) {
		e.finish(model.StatusSucceeded, 1, "held position")
		return
	}
	e.finish(model.StatusSucceeded, 1, "wander leg complete")
}

// tickFollow keeps trailing the followed actor at FollowDistance.
func (e *MovementExecutor) tickFollow(self *model.Actor) {
	target, ok := e.world.Resolve(e.followID)
	if !ok {
		e.nav.Stop(e.self)
		e.setState(moveIdle)
		e.finish(model.StatusFailed, e.ratio, "follow target lost")
		return
	}

	targetLoc := target.Location()
	dist := self.Location().Distance(targetLoc)
	gap := float64(e.cfg.FollowDistance)

	switch {
	case dist > gap*1.5:
		if err := e.nav.MoveTo(e.self, targetLoc); err != nil {
			e.setState(moveIdle)
			e.finish(model.StatusFailed, e.ratio, "navigator rejected follow move: "+err.Error())
		}
	case dist <= gap:
		e.nav.Stop(e.self)
		self.FaceToward(targetLoc)
	}
}

// threatPoint extracts the point to flee from: the typed threat location
// first, then the threat actor's position.
func (e *MovementExecutor) threatPoint(intent model.Intent) (model.Location, bool) {
	if loc, ok := intent.ThreatLocation(); ok {
		return loc, true
	}
	if targetID, ok := intent.TargetActor(); ok {
		if threat, ok := e.world.Resolve(targetID); ok {
			return threat.Location(), true
		}
	}
	return model.Location{}, false
}

// homeLocation returns the wander anchor, captured the first time the actor
// roams. Later legs ring the anchor instead of drifting with each waypoint.
func (e *MovementExecutor) homeLocation(self *model.Actor) model.Location {
	if !e.hasHome {
		e.home = self.Location()
		e.hasHome = true
	}
	return e.home
}

// pickWaypoint selects a random point in the wander annulus around a center.
func (e *MovementExecutor) pickWaypoint(center model.Location) model.Location {
	dist := e.cfg.WanderRadiusMin
	if span := e.cfg.WanderRadiusMax - e.cfg.WanderRadiusMin; span > 0 {
		dist += rand.Int32N(span + 1)
	}

	angle := rand.Float64() * 2 * math.Pi
	dx := int32(math.Round(math.Cos(angle) * float64(dist)))
	dy := int32(math.Round(math.Sin(angle) * float64(dist)))
	return center.Offset(dx, dy, 0)
}

// isRoamIntent reports whether the active intent is wander-family.
func (e *MovementExecutor) isRoamIntent() bool {
	tag := e.intent.Tag()
	return tag.HasAncestor(model.TagWander) ||
		tag.HasAncestor(model.TagPatrol) ||
		tag.HasAncestor(model.TagExplore)
}

// isHoldIntent reports whether the tag asks for an in-place hold.
func (e *MovementExecutor) isHoldIntent(tag model.Tag) bool {
	return tag.HasAncestor(model.TagIdle) ||
		tag.HasAncestor(model.TagGuard) ||
		tag.HasAncestor(model.TagCuriosityWatch)
}

// setState switches the internal state and zeroes the state timer.
func (e *MovementExecutor) setState(s moveState) {
	if e.state != s && IsDebugEnabled() {
		slog.Debug("movement state changed",
			"actorID", e.self,
			"from", e.state,
			"to", s)
	}
	e.state = s
	e.stateTime = 0
}
