package behavior

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/model"
)

// Submit errors.
var (
	ErrNotRunning = errors.New("dispatcher is not running")
	ErrInvalidTag = errors.New("intent tag is invalid")
	ErrUnroutable = errors.New("no executor supports intent tag")
	ErrQueueFull  = errors.New("intent queue is full")
)

// Events carries optional completion callbacks for the planning layer.
//
// OnStarted fires when an intent is dequeued and handed to its executor.
// Every started intent then fires exactly one of OnCompleted (Succeeded or
// Failed, including timeouts) or OnInterrupted. Intents cleared from the
// queue before starting fire nothing. Nil callbacks are skipped.
//
// Callbacks run on the calling goroutine with the dispatcher lock held:
// keep them short and do not call back into the dispatcher.
type Events struct {
	OnStarted     func(intent model.Intent)
	OnCompleted   func(intent model.Intent, result model.ExecutionResult)
	OnInterrupted func(intent model.Intent)
}

// routeRule binds one tag subtree to an executor. A nil when accepts every
// intent in the subtree; otherwise the rule only claims intents it passes.
type routeRule struct {
	prefix model.Tag
	exec   Executor
	when   func(intent model.Intent) bool
}

// hasTargetActor is the rule guard that splits generic social intents:
// with a partner they are interactions, without one just a gesture.
func hasTargetActor(intent model.Intent) bool {
	_, ok := intent.TargetActor()
	return ok
}

// Dispatcher drives behavior execution for one NPC. Intents are queued FIFO
// up to QueueCapacity and executed strictly one at a time; each tick advances
// the current execution, settles it when it finishes, and starts at most one
// queued intent. A watchdog force-fails executions that outlive
// MaxExecutionTime.
//
// Routing walks a fixed rule list in priority order, first match wins, with
// the animation executor as the fallback for any tag under the intent root.
//
// All methods are safe for concurrent use; Tick is expected from the tick
// manager goroutine and Submit from planner or script code.
type Dispatcher struct {
	self model.ActorID
	cfg  config.DispatcherConfig

	movement    *MovementExecutor
	combat      *CombatExecutor
	interaction *InteractionExecutor
	animation   *AnimationExecutor
	rules       []routeRule

	running atomic.Bool
	events  Events

	mu            sync.Mutex
	queue         []model.Intent
	current       Executor
	currentIntent model.Intent
	runtime       time.Duration
}

var _ Controller = (*Dispatcher)(nil)

// NewDispatcher builds a dispatcher and its four executors for one actor.
// attackFunc may be nil; combat strikes are then skipped but pacing still runs.
func NewDispatcher(self model.ActorID, cfg config.Behavior, nav Navigator, animator Animator, world Perception, attackFunc AttackFunc) *Dispatcher {
	movement := NewMovementExecutor(self, cfg.Movement, nav, world)
	combat := NewCombatExecutor(self, cfg.Combat, nav, world, attackFunc)
	interaction := NewInteractionExecutor(self, cfg.Interaction, nav, world, animator)
	animation := NewAnimationExecutor(self, cfg.Animation, animator, world)

	return &Dispatcher{
		self:        self,
		cfg:         cfg.Dispatcher,
		movement:    movement,
		combat:      combat,
		interaction: interaction,
		animation:   animation,
		rules: []routeRule{
			{prefix: model.TagCombat, exec: combat},
			{prefix: model.TagSocialFollow, exec: movement},
			{prefix: model.TagWander, exec: movement},
			{prefix: model.TagPatrol, exec: movement},
			{prefix: model.TagExplore, exec: movement},
			{prefix: model.TagFlee, exec: movement},
			{prefix: model.TagMoveTo, exec: movement},
			{prefix: model.TagSocialTalk, exec: interaction},
			{prefix: model.TagSocialTrade, exec: interaction},
			{prefix: model.TagSocial, exec: interaction, when: hasTargetActor},
			{prefix: model.TagSocial, exec: animation},
			{prefix: model.TagInteract, exec: interaction},
			{prefix: model.TagIdle, exec: movement},
			{prefix: model.TagGuard, exec: movement},
			{prefix: model.TagIntentRoot, exec: animation},
		},
	}
}

// SetEvents installs completion callbacks. Call before Start.
func (d *Dispatcher) SetEvents(events Events) {
	d.events = events
}

// Start marks the dispatcher as running. Idempotent.
func (d *Dispatcher) Start() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	if IsDebugEnabled() {
		slog.Debug("behavior dispatcher started", "actorID", d.self)
	}
}

// Stop halts the dispatcher: the current intent is interrupted and all
// queued intents are dropped. Idempotent.
func (d *Dispatcher) Stop() {
	if !d.running.CompareAndSwap(true, false) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.interruptCurrentLocked()
	if n := len(d.queue); n > 0 {
		d.queue = nil
		slog.Info("dropped queued intents on stop",
			"actorID", d.self,
			"count", n)
	}

	if IsDebugEnabled() {
		slog.Debug("behavior dispatcher stopped", "actorID", d.self)
	}
}

// CanExecute reports whether some executor routes this intent's tag.
// Planners use it as a pre-flight check; Submit applies the same rules.
func (d *Dispatcher) CanExecute(intent model.Intent) bool {
	return intent.Valid() && intent.Tag().Valid() && d.route(intent) != nil
}

// SupportedTags returns the tag families the routing rules claim, in rule
// order without duplicates.
func (d *Dispatcher) SupportedTags() []model.Tag {
	tags := make([]model.Tag, 0, len(d.rules))
	seen := make(map[model.Tag]struct{}, len(d.rules))
	for _, r := range d.rules {
		if _, ok := seen[r.prefix]; ok {
			continue
		}
		seen[r.prefix] = struct{}{}
		tags = append(tags, r.prefix)
	}
	return tags
}

// Submit enqueues an intent for execution. The queue is FIFO and bounded:
// a full queue rejects the intent with ErrQueueFull and drops nothing.
// A submitted intent may cut short an interruptible expressive clip so the
// new work starts on the next tick.
func (d *Dispatcher) Submit(intent model.Intent) error {
	if !intent.Valid() || !intent.Tag().Valid() {
		return ErrInvalidTag
	}
	if d.route(intent) == nil {
		return fmt.Errorf("tag %s: %w", intent.Tag(), ErrUnroutable)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return ErrNotRunning
	}
	if len(d.queue) >= d.cfg.QueueCapacity {
		return fmt.Errorf("capacity %d: %w", d.cfg.QueueCapacity, ErrQueueFull)
	}
	d.queue = append(d.queue, intent)

	if d.current == Executor(d.animation) && d.animation.cfg.AllowInterruption && d.animation.InterruptibleNow() {
		d.interruptCurrentLocked()
	}

	if IsDebugEnabled() {
		slog.Debug("intent queued",
			"actorID", d.self,
			"intentID", intent.ID(),
			"tag", intent.Tag(),
			"priority", intent.Priority(),
			"queueLen", len(d.queue))
	}
	return nil
}

// Tick advances the behavior layer by one simulation step.
func (d *Dispatcher) Tick(dt time.Duration) {
	if !d.running.Load() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current != nil {
		d.runtime += dt
		if d.runtime >= d.cfg.MaxExecutionTime {
			d.timeoutCurrentLocked()
		} else {
			d.current.Tick(dt)
			if d.current.Status().IsTerminal() {
				d.settleCurrentLocked()
			}
		}
	}

	if d.current == nil && len(d.queue) > 0 {
		d.startNextLocked()
	}

	// Ambient gestures only fill truly idle ticks
	if d.current == nil {
		d.animation.TickAmbient(dt)
	}
}

// CurrentIntent returns the intent being executed (zero Intent when idle).
func (d *Dispatcher) CurrentIntent() model.Intent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentIntent
}

// QueueLen returns the number of pending intents.
func (d *Dispatcher) QueueLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// InterruptCurrent force-stops the active intent, firing OnInterrupted.
// Queued intents stay queued; the next one starts on the following tick.
func (d *Dispatcher) InterruptCurrent() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interruptCurrentLocked()
}

// ClearQueue discards all queued intents without firing notifications and
// returns how many were dropped. The current execution keeps running.
func (d *Dispatcher) ClearQueue() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(d.queue)
	d.queue = nil

	if n > 0 && IsDebugEnabled() {
		slog.Debug("intent queue cleared",
			"actorID", d.self,
			"count", n)
	}
	return n
}

// NotifyDamage feeds incoming damage into combat threat tracking.
func (d *Dispatcher) NotifyDamage(attacker model.ActorID, damage int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.combat.NotifyDamage(attacker, damage)
}

// route finds the executor for an intent: fixed rule order, first match wins.
func (d *Dispatcher) route(intent model.Intent) Executor {
	for _, r := range d.rules {
		if !intent.Tag().HasAncestor(r.prefix) {
			continue
		}
		if r.when != nil && !r.when(intent) {
			continue
		}
		return r.exec
	}
	return nil
}

// startNextLocked dequeues the head intent and hands it to its executor.
// At most one intent starts per tick, so submission order stays observable.
func (d *Dispatcher) startNextLocked() {
	intent := d.queue[0]
	d.queue = d.queue[1:]
	if len(d.queue) == 0 {
		d.queue = nil
	}

	exec := d.route(intent)
	if exec == nil {
		return
	}

	if d.events.OnStarted != nil {
		d.events.OnStarted(intent)
	}

	status := exec.Execute(intent)
	if status == model.StatusInProgress {
		d.current = exec
		d.currentIntent = intent
		d.runtime = 0
		if IsDebugEnabled() {
			slog.Debug("intent started",
				"actorID", d.self,
				"intentID", intent.ID(),
				"tag", intent.Tag())
		}
		return
	}

	// Rejected at start: settle immediately without occupying the slot
	result := exec.Result()
	if IsDebugEnabled() {
		slog.Debug("intent rejected at start",
			"actorID", d.self,
			"intentID", intent.ID(),
			"tag", intent.Tag(),
			"message", result.Message)
	}
	if d.events.OnCompleted != nil {
		d.events.OnCompleted(intent, result)
	}
}

// settleCurrentLocked reports a finished execution and frees the slot.
func (d *Dispatcher) settleCurrentLocked() {
	intent := d.currentIntent
	result := d.current.Result()
	d.clearCurrentLocked()

	if IsDebugEnabled() {
		slog.Debug("intent finished",
			"actorID", d.self,
			"intentID", intent.ID(),
			"tag", intent.Tag(),
			"status", result.Status,
			"message", result.Message)
	}

	switch result.Status {
	case model.StatusInterrupted:
		if d.events.OnInterrupted != nil {
			d.events.OnInterrupted(intent)
		}
	default:
		if d.events.OnCompleted != nil {
			d.events.OnCompleted(intent, result)
		}
	}
}

// timeoutCurrentLocked force-fails an execution that outlived the watchdog.
// The executor is interrupted but the reported result is a failure.
func (d *Dispatcher) timeoutCurrentLocked() {
	intent := d.currentIntent
	runtime := d.runtime
	d.current.Interrupt()
	result := d.current.Result()
	result.Status = model.StatusFailed
	result.Message = "execution timed out"
	d.clearCurrentLocked()

	slog.Warn("intent execution timed out",
		"actorID", d.self,
		"intentID", intent.ID(),
		"tag", intent.Tag(),
		"runtime", runtime)

	if d.events.OnCompleted != nil {
		d.events.OnCompleted(intent, result)
	}
}

// interruptCurrentLocked stops the active intent and fires OnInterrupted.
func (d *Dispatcher) interruptCurrentLocked() {
	if d.current == nil {
		return
	}
	intent := d.currentIntent
	d.current.Interrupt()
	d.clearCurrentLocked()

	if d.events.OnInterrupted != nil {
		d.events.OnInterrupted(intent)
	}
}

func (d *Dispatcher) clearCurrentLocked() {
	d.current = nil
	d.currentIntent = model.Intent{}
	d.runtime = 0
}
