package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DispatcherConfig holds queueing and lifecycle tuning for the behavior
// dispatcher.
type DispatcherConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval"`      // tick manager period (default: 100ms)
	QueueCapacity    int           `yaml:"queue_capacity"`     // pending intents per NPC (default: 10)
	MaxExecutionTime time.Duration `yaml:"max_execution_time"` // per-intent watchdog (default: 10s)
}

// DefaultDispatcher returns DispatcherConfig with sensible defaults.
func DefaultDispatcher() DispatcherConfig {
	return DispatcherConfig{
		TickInterval:     100 * time.Millisecond,
		QueueCapacity:    10,
		MaxExecutionTime: 10 * time.Second,
	}
}

// MovementConfig holds tuning for movement behaviors.
type MovementConfig struct {
	// Wandering
	WanderRadiusMin int32 `yaml:"wander_radius_min"` // closest random waypoint (default: 300)
	WanderRadiusMax int32 `yaml:"wander_radius_max"` // farthest random waypoint (default: 800)

	// Arrival
	AcceptanceRadius  int32         `yaml:"acceptance_radius"`   // arrival tolerance (default: 50)
	WaitAtDestination time.Duration `yaml:"wait_at_destination"` // pause between wander legs (default: 2s)

	// Reactions
	FleeDistance   int32 `yaml:"flee_distance"`   // how far to run from a threat (default: 500)
	FollowDistance int32 `yaml:"follow_distance"` // trailing gap behind a followed actor (default: 100)
}

// DefaultMovement returns MovementConfig with sensible defaults.
func DefaultMovement() MovementConfig {
	return MovementConfig{
		WanderRadiusMin:   300,
		WanderRadiusMax:   800,
		AcceptanceRadius:  50,
		WaitAtDestination: 2 * time.Second,
		FleeDistance:      500,
		FollowDistance:    100,
	}
}

// CombatConfig holds tuning for combat behaviors.
type CombatConfig struct {
	// Engagement ranges
	MaxCombatRange       int32 `yaml:"max_combat_range"`       // beyond this the fight is abandoned (default: 1200)
	PreferredAttackRange int32 `yaml:"preferred_attack_range"` // strike distance (default: 120)

	// Attack pacing
	AttackCooldown time.Duration `yaml:"attack_cooldown"` // minimum gap between strikes (default: 1.5s)

	// Repositioning
	CircleChance   float64       `yaml:"circle_chance"`   // odds to strafe after a strike (default: 0.5)
	CircleDuration time.Duration `yaml:"circle_duration"` // how long a strafe leg lasts (default: 2s)

	// Defensive behaviors
	DefendDuration  time.Duration `yaml:"defend_duration"`  // how long to hold a defensive stance (default: 3s)
	RetreatDistance int32         `yaml:"retreat_distance"` // fallback distance from the threat (default: 600)
}

// DefaultCombat returns CombatConfig with sensible defaults.
func DefaultCombat() CombatConfig {
	return CombatConfig{
		MaxCombatRange:       1200,
		PreferredAttackRange: 120,
		AttackCooldown:       1500 * time.Millisecond,
		CircleChance:         0.5,
		CircleDuration:       2 * time.Second,
		DefendDuration:       3 * time.Second,
		RetreatDistance:      600,
	}
}

// InteractionConfig holds tuning for object and social interactions.
type InteractionConfig struct {
	InteractionRange int32 `yaml:"interaction_range"` // must be this close to interact (default: 150)

	// Scripted durations
	ObjectUseDuration time.Duration `yaml:"object_use_duration"` // default: 3s
	TalkDuration      time.Duration `yaml:"talk_duration"`       // default: 5s
	TradeDuration     time.Duration `yaml:"trade_duration"`      // default: 8s
}

// DefaultInteraction returns InteractionConfig with sensible defaults.
func DefaultInteraction() InteractionConfig {
	return InteractionConfig{
		InteractionRange:  150,
		ObjectUseDuration: 3 * time.Second,
		TalkDuration:      5 * time.Second,
		TradeDuration:     8 * time.Second,
	}
}

// AnimationConfig holds tuning for expressive animation playback.
type AnimationConfig struct {
	// Ambient idle gestures
	AmbientIntervalBase   time.Duration `yaml:"ambient_interval_base"`   // mean gap between idle gestures (default: 8s)
	AmbientIntervalJitter time.Duration `yaml:"ambient_interval_jitter"` // +/- randomization, floor 1s (default: 4s)

	WaitingDuration   time.Duration `yaml:"waiting_duration"`   // fallback length for untimed clips (default: 2s)
	AllowInterruption bool          `yaml:"allow_interruption"` // expressive clips yield to new intents (default: true)
}

// DefaultAnimation returns AnimationConfig with sensible defaults.
func DefaultAnimation() AnimationConfig {
	return AnimationConfig{
		AmbientIntervalBase:   8 * time.Second,
		AmbientIntervalJitter: 4 * time.Second,
		WaitingDuration:       2 * time.Second,
		AllowInterruption:     true,
	}
}

// SimulationConfig holds tuning for the headless world simulation.
type SimulationConfig struct {
	MoveSpeed     float64       `yaml:"move_speed"`     // world units per second (default: 250)
	BlendDuration time.Duration `yaml:"blend_duration"` // animation blend-out (default: 250ms)
}

// DefaultSimulation returns SimulationConfig with sensible defaults.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		MoveSpeed:     250,
		BlendDuration: 250 * time.Millisecond,
	}
}

// Behavior holds all configuration for the behavior execution layer.
type Behavior struct {
	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	Dispatcher  DispatcherConfig  `yaml:"dispatcher"`
	Movement    MovementConfig    `yaml:"movement"`
	Combat      CombatConfig      `yaml:"combat"`
	Interaction InteractionConfig `yaml:"interaction"`
	Animation   AnimationConfig   `yaml:"animation"`
	Simulation  SimulationConfig  `yaml:"simulation"`
}

// DefaultBehavior returns Behavior config with sensible defaults.
func DefaultBehavior() Behavior {
	return Behavior{
		LogLevel:    "info",
		Dispatcher:  DefaultDispatcher(),
		Movement:    DefaultMovement(),
		Combat:      DefaultCombat(),
		Interaction: DefaultInteraction(),
		Animation:   DefaultAnimation(),
		Simulation:  DefaultSimulation(),
	}
}

// LoadBehavior loads behavior config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadBehavior(path string) (Behavior, error) {
	cfg := DefaultBehavior()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
