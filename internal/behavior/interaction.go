package behavior

import (
	"log/slog"
	"time"

	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/data"
	"github.com/udisondev/npcbehave/internal/model"
)

// interactionTags lists the intent families the interaction executor
// handles. Social.Follow also matches TagSocial; dispatcher routing order
// sends it to the movement executor before this entry is consulted.
var interactionTags = []model.Tag{
	model.TagInteract,
	model.TagSocial,
}

// interactState tracks where the interaction executor is inside an execution.
type interactState int32

const (
	interactIdle        interactState = iota // no active intent
	interactApproaching                      // closing to interaction range
	interactEngaging                         // running the scripted beat
)

// approachingRatio is the nominal progress reported while still closing in;
// real elapsed/duration tracking starts with the beat.
const approachingRatio = 0.2

// String returns human-readable state name
func (s interactState) String() string {
	switch s {
	case interactIdle:
		return "IDLE"
	case interactApproaching:
		return "APPROACHING"
	case interactEngaging:
		return "ENGAGING"
	default:
		return "UNKNOWN"
	}
}

// InteractionExecutor executes object use and social exchanges: walk into
// range of the interaction point, face it, hold the scripted beat with a
// matching gesture clip, then succeed. A social beat without a named partner
// picks the nearest non-hostile actor; object use may name a fixed location
// instead of an actor handle. Partners that walk away are re-approached;
// partners that disappear fail the execution.
type InteractionExecutor struct {
	execCore

	self model.ActorID
	cfg  config.InteractionConfig

	nav      Navigator
	world    Perception
	animator Animator

	state     interactState
	stateTime time.Duration

	targetID model.ActorID // partner handle, 0 when working a fixed point
	point    model.Location
	duration time.Duration
	clip     string
}

// NewInteractionExecutor creates an interaction executor for one actor.
func NewInteractionExecutor(self model.ActorID, cfg config.InteractionConfig, nav Navigator, world Perception, animator Animator) *InteractionExecutor {
	return &InteractionExecutor{
		self:     self,
		cfg:      cfg,
		nav:      nav,
		world:    world,
		animator: animator,
	}
}

// CanExecute reports whether the executor handles this intent's tag.
func (e *InteractionExecutor) CanExecute(intent model.Intent) bool {
	return intent.Tag().MatchesAnySupported(interactionTags)
}

// SupportedTags returns the tag families the executor handles.
func (e *InteractionExecutor) SupportedTags() []model.Tag {
	return interactionTags
}

// Execute validates the intent and starts the interaction.
func (e *InteractionExecutor) Execute(intent model.Intent) model.ExecutionStatus {
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
	targetID, hasTarget := intent.TargetActor()
	if !hasTarget && !tag.HasAncestor(model.TagInteract) {
		// Social beat without a named partner: pick the nearest candidate
		targetID, hasTarget = e.world.NearestFriendly(self.Location(), e.cfg.InteractionRange, e.self)
		if !hasTarget {
			return e.failStart(intent, "no interaction partner nearby")
		}
	}

	var point model.Location
	if hasTarget {
		target, live := e.world.Resolve(targetID)
		if !live {
			return e.failStart(intent, "interaction target is gone")
		}
		point = target.Location()
	} else {
		// Object use may name a fixed point instead of an actor
		dest, ok := intent.Destination()
		if !ok {
			return e.failStart(intent, "nothing to interact with")
		}
		point = dest
	}

	e.begin(intent)
	e.targetID = targetID
	e.point = point
	e.duration = e.scriptedDuration(tag)
	e.clip = ""

	if self.Location().WithinRange(point, e.cfg.InteractionRange) {
		e.startEngage(self, point)
	} else {
		if err := e.nav.MoveTo(e.self, point); err != nil {
			e.setState(interactIdle)
			e.finish(model.StatusFailed, 0, "navigator rejected approach: "+err.Error())
			return model.StatusFailed
		}
		e.setState(interactApproaching)
		e.setRatio(approachingRatio)
	}

	if IsDebugEnabled() {
		slog.Debug("interaction started",
			"actorID", e.self,
			"intentID", intent.ID(),
			"tag", intent.Tag(),
			"targetID", targetID,
			"state", e.state)
	}
	return model.StatusInProgress
}

// Tick advances the active interaction by dt.
func (e *InteractionExecutor) Tick(dt time.Duration) {
	if e.status != model.StatusInProgress {
		return
	}
	e.advance(dt)
	e.stateTime += dt

	self, ok := e.world.Resolve(e.self)
	if !ok {
		e.stopOutputs()
		e.setState(interactIdle)
		e.finish(model.StatusFailed, e.ratio, "executing actor is gone")
		return
	}

	if e.targetID != 0 {
		target, ok := e.world.Resolve(e.targetID)
		if !ok {
			e.stopOutputs()
			e.setState(interactIdle)
			e.finish(model.StatusFailed, e.ratio, "interaction target lost")
			return
		}
		e.point = target.Location()
	}

	switch e.state {
	case interactApproaching:
		e.tickApproach(self)
	case interactEngaging:
		e.tickEngage(self)
	}
}

// Interrupt force-stops the active interaction.
func (e *InteractionExecutor) Interrupt() {
	if e.status != model.StatusInProgress {
		return
	}
	e.stopOutputs()
	e.setState(interactIdle)
	e.finish(model.StatusInterrupted, e.ratio, "interrupted")

	if IsDebugEnabled() {
		slog.Debug("interaction interrupted",
			"actorID", e.self,
			"intentID", e.intent.ID(),
			"tag", e.intent.Tag())
	}
}

// tickApproach walks into interaction range.
func (e *InteractionExecutor) tickApproach(self *model.Actor) {
	if self.Location().WithinRange(e.point, e.cfg.InteractionRange) {
		e.startEngage(self, e.point)
		return
	}

	if !e.nav.IsMoving(e.self) {
		e.setState(interactIdle)
		e.finish(model.StatusFailed, e.ratio, "cannot reach interaction target")
	}
}

// tickEngage holds the scripted beat. A partner that wanders off gets
// re-approached; the beat timer restarts from the beginning.
func (e *InteractionExecutor) tickEngage(self *model.Actor) {
	if !self.Location().WithinRange(e.point, e.cfg.InteractionRange*2) {
		e.stopOutputs()
		if err := e.nav.MoveTo(e.self, e.point); err != nil {
			e.setState(interactIdle)
			e.finish(model.StatusFailed, e.ratio, "navigator rejected approach: "+err.Error())
			return
		}
		e.setState(interactApproaching)
		e.setRatio(approachingRatio)
		return
	}

	self.FaceToward(e.point)

	if e.duration > 0 {
		e.setRatio(float64(e.stateTime) / float64(e.duration))
	}
	if e.stateTime >= e.duration {
		e.stopOutputs()
		e.setState(interactIdle)
		e.finish(model.StatusSucceeded, 1, "interaction complete")

		if IsDebugEnabled() {
			slog.Debug("interaction complete",
				"actorID", e.self,
				"intentID", e.intent.ID(),
				"tag", e.intent.Tag(),
				"targetID", e.targetID)
		}
	}
}

// startEngage stops movement, faces the interaction point, and starts the
// gesture clip when one is mapped for the tag. Unmapped tags run silent.
func (e *InteractionExecutor) startEngage(self *model.Actor, point model.Location) {
	e.nav.Stop(e.self)
	self.FaceToward(point)

	if def := data.AnimationForTag(e.intent.Tag().String()); def != nil {
		if err := e.animator.Play(e.self, def.Clip(), def.PlayRate(), def.Looping()); err == nil {
			e.clip = def.Clip()
		}
	}

	e.setState(interactEngaging)
}

// stopOutputs cancels navigation and blends out the gesture clip.
func (e *InteractionExecutor) stopOutputs() {
	e.nav.Stop(e.self)
	if e.clip != "" {
		e.animator.Stop(e.self)
		e.clip = ""
	}
}

// scriptedDuration maps the intent kind to its beat length.
func (e *InteractionExecutor) scriptedDuration(tag model.Tag) time.Duration {
	switch {
	case tag.HasAncestor(model.TagSocialTrade):
		return e.cfg.TradeDuration
	case tag.HasAncestor(model.TagSocial):
		return e.cfg.TalkDuration
	default:
		return e.cfg.ObjectUseDuration
	}
}

// setState switches the internal state and zeroes the state timer.
func (e *InteractionExecutor) setState(s interactState) {
	if e.state != s && IsDebugEnabled() {
		slog.Debug("interaction state changed",
			"actorID", e.self,
			"from", e.state,
			"to", s)
	}
	e.state = s
	e.stateTime = 0
}
