package behavior

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/data"
	"github.com/udisondev/npcbehave/internal/model"
)

// animationTags lists what the animation executor handles: it is the
// expressive fallback for the whole intent hierarchy. The dispatcher routes
// an intent here only after every physical executor declined it.
var animationTags = []model.Tag{
	model.TagIntentRoot,
}

// gestureOdds is the 1-in-N chance an ambient slot plays a gesture instead
// of an idle filler.
const gestureOdds = 4

// animState tracks where the animation executor is inside an execution.
type animState int32

const (
	animIdle    animState = iota // no active intent
	animPlaying                  // clip is running
)

// String returns human-readable state name
func (s animState) String() string {
	switch s {
	case animIdle:
		return "IDLE"
	case animPlaying:
		return "PLAYING"
	default:
		return "UNKNOWN"
	}
}

// AnimationExecutor executes expressive intents by resolving the tag to a
// clip mapping and playing it. Intents whose tags resolve to no mapping
// fail at start.
//
// It also owns the ambient layer: random idle gestures played while the
// owning dispatcher has nothing queued, paced by a jittered interval.
type AnimationExecutor struct {
	execCore

	self model.ActorID
	cfg  config.AnimationConfig

	animator Animator
	world    Perception

	state     animState
	stateTime time.Duration

	clip             string
	looping          bool
	holdFor          time.Duration // scripted hold for looping clips
	interruptibleNow bool

	// Ambient pacing
	ambientTimer time.Duration
	nextAmbient  time.Duration
}

// NewAnimationExecutor creates an animation executor for one actor.
func NewAnimationExecutor(self model.ActorID, cfg config.AnimationConfig, animator Animator, world Perception) *AnimationExecutor {
	return &AnimationExecutor{
		self:     self,
		cfg:      cfg,
		animator: animator,
		world:    world,
	}
}

// CanExecute reports whether the executor handles this intent's tag.
func (e *AnimationExecutor) CanExecute(intent model.Intent) bool {
	return intent.Tag().MatchesAnySupported(animationTags)
}

// SupportedTags returns the tag families the executor handles.
func (e *AnimationExecutor) SupportedTags() []model.Tag {
	return animationTags
}

// InterruptibleNow reports whether the active clip may be cut short by a
// newly arriving intent. True when idle.
func (e *AnimationExecutor) InterruptibleNow() bool {
	if e.status != model.StatusInProgress {
		return true
	}
	return e.interruptibleNow
}

// Execute resolves the tag to a clip and starts playing it.
func (e *AnimationExecutor) Execute(intent model.Intent) model.ExecutionStatus {
	if e.status == model.StatusInProgress {
		e.Interrupt()
	}

	if !e.CanExecute(intent) {
		return e.failStart(intent, "unsupported tag "+intent.Tag().String())
	}

	if _, ok := e.world.Resolve(e.self); !ok {
		return e.failStart(intent, "executing actor is gone")
	}

	def := data.AnimationForTag(intent.Tag().String())
	if def == nil {
		return e.failStart(intent, "no animation mapped for tag "+intent.Tag().String())
	}

	e.begin(intent)
	if err := e.animator.Play(e.self, def.Clip(), def.PlayRate(), def.Looping()); err != nil {
		e.setState(animIdle)
		e.finish(model.StatusFailed, 0, "animator rejected clip: "+err.Error())
		return model.StatusFailed
	}

	e.clip = def.Clip()
	e.looping = def.Looping()
	e.interruptibleNow = def.Interruptible()
	e.holdFor = 0
	if e.looping {
		e.holdFor = e.cfg.WaitingDuration
	}
	e.setState(animPlaying)

	if IsDebugEnabled() {
		slog.Debug("animation started",
			"actorID", e.self,
			"intentID", intent.ID(),
			"tag", intent.Tag(),
			"clip", e.clip,
			"looping", e.looping)
	}
	return model.StatusInProgress
}

// Tick advances the active clip by dt. Looping clips hold for the scripted
// duration and blend out; one-shot clips finish when the animator reports
// the clip done.
func (e *AnimationExecutor) Tick(dt time.Duration) {
	if e.status != model.StatusInProgress {
		return
	}
	e.advance(dt)
	e.stateTime += dt

	if _, ok := e.world.Resolve(e.self); !ok {
		e.animator.Stop(e.self)
		e.setState(animIdle)
		e.finish(model.StatusFailed, e.ratio, "executing actor is gone")
		return
	}

	if e.looping {
		if e.holdFor > 0 {
			e.setRatio(float64(e.stateTime) / float64(e.holdFor))
		}
		if e.stateTime >= e.holdFor {
			e.animator.Stop(e.self)
			e.setState(animIdle)
			e.finish(model.StatusSucceeded, 1, "expressive clip complete")
		}
		return
	}

	if !e.animator.IsPlaying(e.self, e.clip) {
		e.setState(animIdle)
		e.finish(model.StatusSucceeded, 1, "clip finished")
	}
}

// Interrupt force-stops the active clip.
func (e *AnimationExecutor) Interrupt() {
	if e.status != model.StatusInProgress {
		return
	}
	e.animator.Stop(e.self)
	e.setState(animIdle)
	e.finish(model.StatusInterrupted, e.ratio, "interrupted")

	if IsDebugEnabled() {
		slog.Debug("animation interrupted",
			"actorID", e.self,
			"intentID", e.intent.ID(),
			"clip", e.clip)
	}
}

// TickAmbient paces the idle filler layer. Called by the dispatcher only
// while it has no current intent; a no-op while a real clip is running.
func (e *AnimationExecutor) TickAmbient(dt time.Duration) {
	if e.status == model.StatusInProgress {
		return
	}

	if e.nextAmbient <= 0 {
		e.nextAmbient = e.rollAmbientInterval()
	}

	e.ambientTimer += dt
	if e.ambientTimer < e.nextAmbient {
		return
	}
	e.ambientTimer = 0
	e.nextAmbient = e.rollAmbientInterval()

	if _, ok := e.world.Resolve(e.self); !ok {
		return
	}

	pool := data.IdleClips()
	if rand.IntN(gestureOdds) == 0 {
		pool = data.GestureClips()
	}
	if len(pool) == 0 {
		return
	}
	clip := pool[rand.IntN(len(pool))]

	if err := e.animator.Play(e.self, clip, 1.0, false); err != nil {
		return
	}

	if IsDebugEnabled() {
		slog.Debug("ambient gesture",
			"actorID", e.self,
			"clip", clip)
	}
}

// rollAmbientInterval picks the next ambient gap: base with +/- jitter,
// floored at one second.
func (e *AnimationExecutor) rollAmbientInterval() time.Duration {
	interval := e.cfg.AmbientIntervalBase
	if jitter := e.cfg.AmbientIntervalJitter; jitter > 0 {
		interval += time.Duration(rand.Int64N(int64(2*jitter)+1)) - jitter
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// setState switches the internal state and zeroes the state timer.
func (e *AnimationExecutor) setState(s animState) {
	if e.state != s && IsDebugEnabled() {
		slog.Debug("animation state changed",
			"actorID", e.self,
			"from", e.state,
			"to", s)
	}
	e.state = s
	e.stateTime = 0
}
