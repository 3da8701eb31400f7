package behavior

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/model"
)

// combatTags lists the intent families the combat executor handles.
var combatTags = []model.Tag{
	model.TagCombat,
}

// Combat pacing constants.
const (
	attackRangeSlack = 1.25 // target may drift this factor beyond preferred range before re-approach
	arrivalTolerance = 30   // arrival tolerance for strafe and retreat legs
	initialThreat    = 1    // seed threat for a fresh engagement
)

// combatState tracks where the combat executor is inside an execution.
type combatState int32

const (
	combatIdle        combatState = iota // no active intent
	combatApproaching                    // closing to preferred attack range
	combatAttacking                      // in range, striking on cooldown
	combatCircling                       // strafe leg after a strike
	combatDefending                      // holding a defensive stance
	combatRetreating                     // falling back from the threat
)

// String returns human-readable state name
func (s combatState) String() string {
	switch s {
	case combatIdle:
		return "IDLE"
	case combatApproaching:
		return "APPROACHING"
	case combatAttacking:
		return "ATTACKING"
	case combatCircling:
		return "CIRCLING"
	case combatDefending:
		return "DEFENDING"
	case combatRetreating:
		return "RETREATING"
	default:
		return "UNKNOWN"
	}
}

// CombatExecutor executes combat intents: attacking a target, holding a
// defensive stance, and retreating from a threat.
//
// Attack runs approach/strike/strafe until the target dies (Succeeded),
// becomes unresolvable (Failed), or leaves the combat range (Failed). After
// each strike a coin flip decides between standing ground and a strafe leg
// around the target.
type CombatExecutor struct {
	execCore

	self model.ActorID
	cfg  config.CombatConfig

	nav        Navigator
	world      Perception
	attackFunc AttackFunc

	// threat accumulates incoming damage for target selection fallbacks.
	threat *model.ThreatList

	state     combatState
	stateTime time.Duration

	// cooldown counts down in tick time so simulated clocks work.
	cooldown time.Duration

	target      model.Target
	dest        model.Location // strafe or retreat destination
	initialDist float64
}

// NewCombatExecutor creates a combat executor for one actor.
// attackFunc may be nil; strikes are then skipped but pacing still runs.
func NewCombatExecutor(self model.ActorID, cfg config.CombatConfig, nav Navigator, world Perception, attackFunc AttackFunc) *CombatExecutor {
	return &CombatExecutor{
		self:       self,
		cfg:        cfg,
		nav:        nav,
		world:      world,
		attackFunc: attackFunc,
		threat:     model.NewThreatList(),
	}
}

// CanExecute reports whether the executor handles this intent's tag.
func (e *CombatExecutor) CanExecute(intent model.Intent) bool {
	return intent.Tag().MatchesAnySupported(combatTags)
}

// SupportedTags returns the tag families the executor handles.
func (e *CombatExecutor) SupportedTags() []model.Tag {
	return combatTags
}

// ThreatList returns the executor's threat bookkeeping.
func (e *CombatExecutor) ThreatList() *model.ThreatList {
	return e.threat
}

// NotifyDamage records incoming damage for threat tracking.
// Called from the tick goroutine, typically forwarded by the dispatcher.
func (e *CombatExecutor) NotifyDamage(attacker model.ActorID, damage int32) {
	self, ok := e.world.Resolve(e.self)
	if !ok {
		return
	}

	threat := model.CalcThreatValue(damage, self.Level())
	e.threat.AddThreat(attacker, threat)
	e.threat.AddDamage(attacker, int64(damage))

	if IsDebugEnabled() {
		slog.Debug("combat notified of damage",
			"actorID", e.self,
			"attackerID", attacker,
			"damage", damage,
			"threat", threat)
	}
}

// Execute validates the intent and starts the combat behavior.
func (e *CombatExecutor) Execute(intent model.Intent) model.ExecutionStatus {
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
	case tag.HasAncestor(model.TagCombatDefend):
		e.begin(intent)
		e.target = model.Target{}
		if loc, ok := e.threatPoint(intent); ok {
			self.FaceToward(loc)
		}
		e.setState(combatDefending)

	case tag.HasAncestor(model.TagCombatRetreat):
		threat, ok := e.threatPoint(intent)
		if !ok {
			return e.failStart(intent, "retreat intent has no threat to retreat from")
		}
		dest := self.Location().ProjectAway(threat, e.cfg.RetreatDistance)
		e.begin(intent)
		e.target = model.Target{}
		e.dest = dest
		e.initialDist = self.Location().Distance(dest)
		if err := e.nav.MoveTo(e.self, dest); err != nil {
			e.setState(combatIdle)
			e.finish(model.StatusFailed, 0, "navigator rejected retreat: "+err.Error())
			return model.StatusFailed
		}
		e.setState(combatRetreating)

	default: // attack and any other combat descendant
		targetID, ok := e.resolveAttackTarget(intent, self)
		if !ok {
			return e.failStart(intent, "no target to attack")
		}
		target, live := e.world.Resolve(targetID)
		if !live {
			return e.failStart(intent, "attack target is gone")
		}
		if target.IsDead() {
			return e.failStart(intent, "attack target is already dead")
		}

		e.begin(intent)
		e.target = model.NewTarget(targetID)
		e.threat.AddThreat(targetID, initialThreat)
		e.cooldown = 0
		e.setState(combatApproaching)
	}

	if IsDebugEnabled() {
		slog.Debug("combat started",
			"actorID", e.self,
			"intentID", intent.ID(),
			"tag", intent.Tag(),
			"state", e.state,
			"targetID", e.target.ActorID)
	}
	return model.StatusInProgress
}

// Tick advances the active combat behavior by dt.
func (e *CombatExecutor) Tick(dt time.Duration) {
	if e.status != model.StatusInProgress {
		return
	}
	e.advance(dt)
	e.stateTime += dt

	if e.cooldown > 0 {
		e.cooldown -= dt
		if e.cooldown < 0 {
			e.cooldown = 0
		}
	}

	self, ok := e.world.Resolve(e.self)
	if !ok {
		e.nav.Stop(e.self)
		e.setState(combatIdle)
		e.finish(model.StatusFailed, e.ratio, "executing actor is gone")
		return
	}

	switch e.state {
	case combatApproaching, combatAttacking, combatCircling:
		e.tickEngage(self)
	case combatDefending:
		e.tickDefend(self)
	case combatRetreating:
		e.tickRetreat(self)
	}
}

// Interrupt force-stops the active combat behavior.
func (e *CombatExecutor) Interrupt() {
	if e.status != model.StatusInProgress {
		return
	}
	e.nav.Stop(e.self)
	e.setState(combatIdle)
	e.finish(model.StatusInterrupted, e.ratio, "interrupted")

	if IsDebugEnabled() {
		slog.Debug("combat interrupted",
			"actorID", e.self,
			"intentID", e.intent.ID(),
			"tag", e.intent.Tag())
	}
}

// tickEngage validates the target and drives the approach/strike/strafe loop.
func (e *CombatExecutor) tickEngage(self *model.Actor) {
	target, live := e.world.Resolve(e.target.ActorID)
	if !live {
		e.nav.Stop(e.self)
		e.setState(combatIdle)
		e.finish(model.StatusFailed, e.ratio, "attack target lost")
		return
	}
	if target.IsDead() {
		e.nav.Stop(e.self)
		e.threat.Remove(e.target.ActorID)
		e.setState(combatIdle)
		e.finish(model.StatusSucceeded, 1, "target down")
		return
	}

	// Refresh the cached target record
	inSight := e.world.LineOfSight(self.Location(), target.Location())
	e.target.Refresh(target, self.Location(), inSight, time.Now())
	e.target.SetThreatLevel(e.threat.NormalizedThreat(e.target.ActorID))

	// Progress follows the target's missing HP
	e.setRatio(1 - float64(target.CurrentHP())/float64(target.MaxHP()))

	if e.target.Distance > float64(e.cfg.MaxCombatRange) {
		e.nav.Stop(e.self)
		e.setState(combatIdle)
		e.finish(model.StatusFailed, e.ratio, "target out of combat range")
		return
	}

	switch e.state {
	case combatApproaching:
		e.tickApproach(self, target)
	case combatAttacking:
		e.tickAttack(self, target)
	case combatCircling:
		e.tickCircle(self)
	}
}

// tickApproach chases the target's live position until in striking range.
func (e *CombatExecutor) tickApproach(self *model.Actor, target *model.Actor) {
	if e.target.Distance <= float64(e.cfg.PreferredAttackRange) && e.target.InLineOfSight {
		e.nav.Stop(e.self)
		self.FaceToward(target.Location())
		e.setState(combatAttacking)
		return
	}

	if err := e.nav.MoveTo(e.self, target.Location()); err != nil {
		e.setState(combatIdle)
		e.finish(model.StatusFailed, e.ratio, "navigator rejected chase: "+err.Error())
	}
}

// tickAttack strikes on cooldown, then coin-flips between standing ground
// and a strafe leg around the target.
func (e *CombatExecutor) tickAttack(self *model.Actor, target *model.Actor) {
	targetLoc := target.Location()

	// Target slipped out of range or out of sight: re-close
	if e.target.Distance > float64(e.cfg.PreferredAttackRange)*attackRangeSlack || !e.target.InLineOfSight {
		e.setState(combatApproaching)
		return
	}

	self.FaceToward(targetLoc)

	if e.cooldown > 0 {
		return
	}

	if e.attackFunc != nil {
		e.attackFunc(self, target)
	}
	e.cooldown = e.cfg.AttackCooldown

	if IsDebugEnabled() {
		slog.Debug("combat strike",
			"actorID", e.self,
			"targetID", e.target.ActorID,
			"targetHP", target.CurrentHP())
	}

	if rand.Float64() < e.cfg.CircleChance {
		clockwise := rand.IntN(2) == 0
		e.dest = self.Location().Lateral(targetLoc, e.cfg.PreferredAttackRange, clockwise)
		if err := e.nav.MoveTo(e.self, e.dest); err == nil {
			e.setState(combatCircling)
		}
	}
}

// tickCircle runs the strafe leg, then re-closes on the target.
func (e *CombatExecutor) tickCircle(self *model.Actor) {
	if e.stateTime >= e.cfg.CircleDuration || self.Location().WithinRange(e.dest, arrivalTolerance) {
		e.nav.Stop(e.self)
		e.setState(combatApproaching)
	}
}

// tickDefend holds the stance facing the biggest threat.
func (e *CombatExecutor) tickDefend(self *model.Actor) {
	if id := e.threat.MostThreatening(); id != 0 {
		if attacker, ok := e.world.Resolve(id); ok {
			self.FaceToward(attacker.Location())
		}
	}

	if e.cfg.DefendDuration > 0 {
		e.setRatio(float64(e.stateTime) / float64(e.cfg.DefendDuration))
	}
	if e.stateTime >= e.cfg.DefendDuration {
		e.setState(combatIdle)
		e.finish(model.StatusSucceeded, 1, "defense held")
	}
}

// tickRetreat polls arrival at the fallback point.
func (e *CombatExecutor) tickRetreat(self *model.Actor) {
	loc := self.Location()
	if e.initialDist > 0 {
		e.setRatio(1 - loc.Distance(e.dest)/e.initialDist)
	}

	if loc.WithinRange(e.dest, arrivalTolerance) {
		e.nav.Stop(e.self)
		e.setState(combatIdle)
		e.finish(model.StatusSucceeded, 1, "retreated to safety")
		return
	}

	if !e.nav.IsMoving(e.self) {
		e.setState(combatIdle)
		e.finish(model.StatusFailed, e.ratio, "retreat blocked")
	}
}

// resolveAttackTarget picks the attack target: explicit payload first, then
// the most threatening known attacker, then the nearest hostile in range.
func (e *CombatExecutor) resolveAttackTarget(intent model.Intent, self *model.Actor) (model.ActorID, bool) {
	if id, ok := intent.TargetActor(); ok {
		return id, true
	}

	if id := e.threat.MostThreatening(); id != 0 {
		if _, ok := e.world.Resolve(id); ok {
			return id, true
		}
		e.threat.Remove(id)
	}

	if id, ok := e.world.NearestHostile(self.Location(), e.cfg.MaxCombatRange, e.self); ok {
		return id, true
	}
	return 0, false
}

// threatPoint extracts the point to defend against or retreat from: the
// typed threat location, the intent's target actor, then the most
// threatening known attacker.
func (e *CombatExecutor) threatPoint(intent model.Intent) (model.Location, bool) {
	if loc, ok := intent.ThreatLocation(); ok {
		return loc, true
	}
	if targetID, ok := intent.TargetActor(); ok {
		if threat, ok := e.world.Resolve(targetID); ok {
			return threat.Location(), true
		}
	}
	if id := e.threat.MostThreatening(); id != 0 {
		if threat, ok := e.world.Resolve(id); ok {
			return threat.Location(), true
		}
	}
	return model.Location{}, false
}

// setState switches the internal state and zeroes the state timer.
func (e *CombatExecutor) setState(s combatState) {
	if e.state != s && IsDebugEnabled() {
		slog.Debug("combat state changed",
			"actorID", e.self,
			"from", e.state,
			"to", s)
	}
	e.state = s
	e.stateTime = 0
}
