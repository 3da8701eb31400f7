package behavior

import (
	"testing"
	"time"

	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/data"
	"github.com/udisondev/npcbehave/internal/model"
)

func TestAnimationExecutor_CanExecute(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	exec := NewAnimationExecutor(1, config.DefaultAnimation(), anim, reg)

	tests := []struct {
		tag  model.Tag
		want bool
	}{
		{model.TagIntentRoot, true},
		{model.TagIdle, true},
		{model.TagGuard, true},
		{model.TagCuriosityWatch, true},
		// Fallback executor: physical tags match too, routing order keeps
		// them away in practice
		{model.TagCombatAttack, true},
		{model.TagWander, true},
		{"Foo.Bar", false},
	}

	for _, tt := range tests {
		intent := model.NewIntent(tt.tag, model.PriorityIdle)
		if got := exec.CanExecute(intent); got != tt.want {
			t.Errorf("CanExecute(%s) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestAnimationExecutor_LoopingClip_HoldsThenSucceeds(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	cfg := config.DefaultAnimation()
	exec := NewAnimationExecutor(1, cfg, anim, reg)

	// Guard maps to a looping stance clip
	intent := model.NewIntent(model.TagGuard, model.PriorityLow)

	if got := exec.Execute(intent); got != model.StatusInProgress {
		t.Fatalf("Execute() = %v, want IN_PROGRESS", got)
	}
	if anim.lastClip != "AM_Guard_Stand" {
		t.Errorf("clip = %q, want AM_Guard_Stand", anim.lastClip)
	}
	if !anim.lastLooping {
		t.Error("guard stance should loop")
	}

	half := cfg.WaitingDuration / 2
	exec.Tick(half)
	if exec.Status() != model.StatusInProgress {
		t.Fatalf("status mid-hold = %v, want IN_PROGRESS", exec.Status())
	}
	if r := exec.Result().CompletionRatio; r < 0.4 || r > 0.6 {
		t.Errorf("CompletionRatio mid-hold = %v, want ~0.5", r)
	}

	exec.Tick(half)

	result := exec.Result()
	if result.Status != model.StatusSucceeded {
		t.Fatalf("status after hold = %v, want SUCCEEDED", result.Status)
	}
	if result.Message != "expressive clip complete" {
		t.Errorf("Message = %q", result.Message)
	}
	if anim.playing[1] != "" {
		t.Error("looping clip should be blended out after the hold")
	}
}

func TestAnimationExecutor_OneShotClip_WaitsForClipEnd(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	exec := NewAnimationExecutor(1, config.DefaultAnimation(), anim, reg)

	// Idle maps to a one-shot look-around clip
	intent := model.NewIntent(model.TagIdle, model.PriorityIdle)

	if got := exec.Execute(intent); got != model.StatusInProgress {
		t.Fatalf("Execute() = %v, want IN_PROGRESS", got)
	}
	if anim.lastClip != "AM_Idle_LookAround" {
		t.Errorf("clip = %q, want AM_Idle_LookAround", anim.lastClip)
	}

	// Clip still running: execution stays open regardless of elapsed time
	exec.Tick(5 * time.Second)
	if exec.Status() != model.StatusInProgress {
		t.Fatalf("status while clip plays = %v, want IN_PROGRESS", exec.Status())
	}

	anim.finishClip(1)
	exec.Tick(100 * time.Millisecond)

	result := exec.Result()
	if result.Status != model.StatusSucceeded {
		t.Fatalf("status after clip end = %v, want SUCCEEDED", result.Status)
	}
	if result.Message != "clip finished" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestAnimationExecutor_UnmappedTag_Fails(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	exec := NewAnimationExecutor(1, config.DefaultAnimation(), anim, reg)

	// No mapping anywhere on the ancestor chain
	intent := model.NewIntent("AI.Intent.Dance", model.PriorityIdle)

	if got := exec.Execute(intent); got != model.StatusFailed {
		t.Fatalf("Execute() unmapped tag = %v, want FAILED", got)
	}
	if msg := exec.Result().Message; msg != "no animation mapped for tag AI.Intent.Dance" {
		t.Errorf("Message = %q", msg)
	}
	if anim.playCalls != 0 {
		t.Error("no clip should be played for an unmapped tag")
	}

	// A tag outside the intent tree never gets as far as the mapping lookup
	if got := exec.Execute(model.NewIntent("Foo.Bar", model.PriorityIdle)); got != model.StatusFailed {
		t.Fatalf("Execute() foreign tag = %v, want FAILED", got)
	}
	if msg := exec.Result().Message; msg != "unsupported tag Foo.Bar" {
		t.Errorf("Message = %q", msg)
	}
	if anim.playCalls != 0 {
		t.Error("no clip should be played for a foreign tag")
	}
}

func TestAnimationExecutor_AncestorFallbackClip(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	exec := NewAnimationExecutor(1, config.DefaultAnimation(), anim, reg)

	// Unmapped leaf falls back to the Curiosity parent clip
	intent := model.NewIntent("AI.Intent.Curiosity.Sniff", model.PriorityIdle)

	if got := exec.Execute(intent); got != model.StatusInProgress {
		t.Fatalf("Execute() = %v, want IN_PROGRESS", got)
	}
	if anim.lastClip != "AM_Curious_Peer" {
		t.Errorf("clip = %q, want the parent's AM_Curious_Peer", anim.lastClip)
	}
}

func TestAnimationExecutor_InterruptibleNow(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	exec := NewAnimationExecutor(1, config.DefaultAnimation(), anim, reg)

	if !exec.InterruptibleNow() {
		t.Error("idle executor should be interruptible")
	}

	exec.Execute(model.NewIntent(model.TagGuard, model.PriorityLow))
	if !exec.InterruptibleNow() {
		t.Error("guard stance is flagged interruptible")
	}
	exec.Interrupt()

	// Same tag, locked clip
	data.SetTestAnimationDef(model.TagGuard.String(), "AM_Guard_Locked", true, false)
	defer data.LoadAnimations()

	exec.Execute(model.NewIntent(model.TagGuard, model.PriorityLow))
	if exec.InterruptibleNow() {
		t.Error("locked clip should not be interruptible while playing")
	}
}

func TestAnimationExecutor_AmbientGestures(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	cfg := config.DefaultAnimation()
	exec := NewAnimationExecutor(1, cfg, anim, reg)

	// Idle ticks accumulate toward a jittered interval; the longest
	// possible gap is base+jitter, so this many one-second ticks must fire
	maxTicks := int((cfg.AmbientIntervalBase+cfg.AmbientIntervalJitter)/time.Second) + 1
	for i := 0; i < maxTicks && anim.playCalls == 0; i++ {
		exec.TickAmbient(time.Second)
	}

	if anim.playCalls == 0 {
		t.Fatalf("no ambient gesture after %d idle seconds", maxTicks)
	}
	if anim.lastClip == "" {
		t.Error("ambient gesture should name a clip")
	}
	if anim.lastLooping {
		t.Error("ambient gestures are one-shot")
	}

	// While a real intent runs, ambient stays quiet
	exec.Execute(model.NewIntent(model.TagGuard, model.PriorityLow))
	anim.playCalls = 0
	for range maxTicks * 2 {
		exec.TickAmbient(time.Second)
	}
	if anim.playCalls != 0 {
		t.Errorf("ambient played %d clips while an intent was active", anim.playCalls)
	}
}

func TestAnimationExecutor_Interrupt(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	exec := NewAnimationExecutor(1, config.DefaultAnimation(), anim, reg)

	exec.Execute(model.NewIntent(model.TagGuard, model.PriorityLow))
	exec.Tick(500 * time.Millisecond)

	exec.Interrupt()

	if exec.Result().Status != model.StatusInterrupted {
		t.Fatalf("status = %v, want INTERRUPTED", exec.Result().Status)
	}
	if anim.playing[1] != "" {
		t.Error("clip should be stopped on interrupt")
	}
}

func TestAnimationExecutor_ActorGone(t *testing.T) {
	anim := newFakeAnimator()
	reg := newTestWorld(t, newTestActor(1, 0, 0))
	exec := NewAnimationExecutor(1, config.DefaultAnimation(), anim, reg)

	exec.Execute(model.NewIntent(model.TagGuard, model.PriorityLow))

	reg.Remove(1)
	exec.Tick(100 * time.Millisecond)

	result := exec.Result()
	if result.Status != model.StatusFailed {
		t.Fatalf("status after despawn = %v, want FAILED", result.Status)
	}
	if result.Message != "executing actor is gone" {
		t.Errorf("Message = %q", result.Message)
	}
}
