package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/npcbehave/internal/behavior"
	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/data"
	"github.com/udisondev/npcbehave/internal/model"
	"github.com/udisondev/npcbehave/internal/sim"
	"github.com/udisondev/npcbehave/internal/world"
)

const ConfigPath = "config/behavior.yaml"

// Scenario cast.
const (
	villagerID model.ActorID = 1
	wolfID     model.ActorID = 2
	traderID   model.ActorID = 3
	wellID     model.ActorID = 4
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("NPCBEHAVE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadBehavior(cfgPath)
	if err != nil {
		return fmt.Errorf("loading behavior config: %w", err)
	}

	// Configure slog based on config.LogLevel
	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Enable behavior debug logging if log level is debug
	behavior.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("behavior simulation starting", "log_level", cfg.LogLevel)

	if err := data.LoadAnimations(); err != nil {
		return fmt.Errorf("loading animation mappings: %w", err)
	}

	// Build the scenario world: a villager NPC, a wolf lurking east of the
	// village, a trader, an old well, and a boulder between home and the wolf.
	reg := world.New()

	villager := model.NewActor(villagerID, "Villager", model.NewLocation(0, 0, 0, 0), 10, 1000)
	wolf := model.NewActor(wolfID, "Wolf", model.NewLocation(600, 200, 0, 0), 8, 600)
	wolf.SetHostile(true)
	trader := model.NewActor(traderID, "Trader", model.NewLocation(-400, 200, 0, 0), 10, 1000)
	well := model.NewActor(wellID, "Old Well", model.NewLocation(0, -150, 0, 0), 1, 1)

	for _, actor := range []*model.Actor{villager, wolf, trader, well} {
		if err := reg.Add(actor); err != nil {
			return fmt.Errorf("populating world: %w", err)
		}
	}
	reg.AddObstacle(world.Obstacle{Center: model.NewLocation(350, 120, 0, 0), Radius: 80})

	slog.Info("world populated", "actors", reg.Count())

	nav := sim.NewStepNavigator(reg, cfg.Simulation)
	anim := sim.NewClipAnimator(cfg.Simulation)

	// Strike resolution stays outside the behavior layer; the simulation
	// uses flat level-scaled damage.
	attackFunc := func(attacker, target *model.Actor) {
		target.SetCurrentHP(target.CurrentHP() - 20*attacker.Level())
		slog.Info("strike landed",
			"attacker", attacker.Name(),
			"target", target.Name(),
			"targetHP", target.CurrentHP())
	}

	dispatcher := behavior.NewDispatcher(villagerID, cfg, nav, anim, reg, attackFunc)
	dispatcher.SetEvents(behavior.Events{
		OnStarted: func(intent model.Intent) {
			slog.Info("intent started", "tag", intent.Tag(), "priority", intent.Priority())
		},
		OnCompleted: func(intent model.Intent, result model.ExecutionResult) {
			slog.Info("intent completed",
				"tag", intent.Tag(),
				"status", result.Status,
				"ratio", fmt.Sprintf("%.2f", result.CompletionRatio),
				"message", result.Message)
		},
		OnInterrupted: func(intent model.Intent) {
			slog.Info("intent interrupted", "tag", intent.Tag())
		},
	})

	mgr := behavior.NewTickManager(cfg.Dispatcher.TickInterval)
	mgr.AddWorldStep(nav.Tick)
	mgr.AddWorldStep(anim.Tick)
	mgr.Register(villagerID, dispatcher)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := mgr.Start(gctx); err != nil {
			return fmt.Errorf("behavior tick manager: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := runScenario(gctx, dispatcher, wolf.Location()); err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
		mgr.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	slog.Info("scenario complete", "villager", villager.Location(), "wolf_dead", wolf.IsDead())
	return nil
}

// runScenario walks the villager through one eventful morning: chores around
// the village, a social round, guard duty, a watchful pause cut short by a
// wolf bite, the fight, and the flight back home.
func runScenario(ctx context.Context, d *behavior.Dispatcher, wolfLoc model.Location) error {
	// Morning stroll, two legs queued up front
	if err := d.Submit(model.NewIntent(model.TagWander, model.PriorityLow)); err != nil {
		return err
	}
	if err := d.Submit(model.NewIntent(model.TagWander, model.PriorityLow)); err != nil {
		return err
	}
	if err := waitIdle(ctx, d); err != nil {
		return err
	}

	// Back home, then draw water from the well
	home := model.NewLocation(0, 0, 0, 0)
	if err := d.Submit(model.NewIntent(model.TagMoveTo, model.PriorityNormal).WithDestination(home)); err != nil {
		return err
	}
	if err := d.Submit(model.NewIntent(model.TagInteract, model.PriorityNormal).WithTarget(wellID)); err != nil {
		return err
	}
	if err := waitIdle(ctx, d); err != nil {
		return err
	}

	// Social round: chat with the trader, then haggle
	if err := d.Submit(model.NewIntent(model.TagSocialTalk, model.PriorityNormal).WithTarget(traderID)); err != nil {
		return err
	}
	if err := d.Submit(model.NewIntent(model.TagSocialTrade, model.PriorityNormal).WithTarget(traderID)); err != nil {
		return err
	}
	if err := waitIdle(ctx, d); err != nil {
		return err
	}

	// A short guard hold at the village edge
	if err := d.Submit(model.NewIntent(model.TagGuard, model.PriorityIdle)); err != nil {
		return err
	}
	if err := waitIdle(ctx, d); err != nil {
		return err
	}

	// Something rustles at the treeline; fixate on it
	if err := d.Submit(model.NewIntent(model.TagCuriosityWatch, model.PriorityLow)); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
	}

	// The wolf draws blood. Threat tracking picks the attacker, so the
	// combat intent carries no explicit target; the new intent also cuts
	// the interruptible watch clip short.
	d.NotifyDamage(wolfID, 80)
	if err := d.Submit(model.NewIntent(model.TagCombat, model.PriorityHigh)); err != nil {
		return err
	}
	if err := waitIdle(ctx, d); err != nil {
		return err
	}

	// Shaken, run from where the wolf came at us
	if err := d.Submit(model.NewIntent(model.TagFlee, model.PriorityCritical).WithThreatLocation(wolfLoc)); err != nil {
		return err
	}
	return waitIdle(ctx, d)
}

// waitIdle polls until the dispatcher has nothing running and nothing queued.
func waitIdle(ctx context.Context, d *behavior.Dispatcher) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !d.CurrentIntent().Valid() && d.QueueLen() == 0 {
				return nil
			}
		}
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
