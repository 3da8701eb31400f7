package behavior

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/udisondev/npcbehave/internal/model"
)

// countingController is a minimal Controller for exercising the tick loop.
type countingController struct {
	running atomic.Bool
	ticks   atomic.Int32
	lastDT  atomic.Int64
}

func (c *countingController) Start() { c.running.Store(true) }
func (c *countingController) Stop()  { c.running.Store(false) }

func (c *countingController) Submit(model.Intent) error { return nil }

func (c *countingController) CurrentIntent() model.Intent { return model.Intent{} }

func (c *countingController) Tick(dt time.Duration) {
	c.ticks.Add(1)
	c.lastDT.Store(int64(dt))
}

func TestTickManager_RegisterUnregister(t *testing.T) {
	mgr := NewTickManager(100 * time.Millisecond)
	ctrl := &countingController{}

	// Register controller
	mgr.Register(1, ctrl)

	// Verify count
	if mgr.Count() != 1 {
		t.Errorf("Count() after Register() = %d, want 1", mgr.Count())
	}

	// Register starts the controller
	if !ctrl.running.Load() {
		t.Error("Register() should start the controller")
	}

	// Verify controller can be retrieved
	got, err := mgr.GetController(1)
	if err != nil {
		t.Fatalf("GetController() error = %v", err)
	}
	if got != Controller(ctrl) {
		t.Error("GetController() returned a different controller")
	}

	// Unregister controller
	mgr.Unregister(1)

	// Verify count
	if mgr.Count() != 0 {
		t.Errorf("Count() after Unregister() = %d, want 0", mgr.Count())
	}

	// Unregister stops the controller
	if ctrl.running.Load() {
		t.Error("Unregister() should stop the controller")
	}

	// Verify controller is removed
	_, err = mgr.GetController(1)
	if err == nil {
		t.Error("GetController() after Unregister() should return error")
	}

	// Unregistering an unknown actor is a no-op
	mgr.Unregister(99)
	if mgr.Count() != 0 {
		t.Errorf("Count() after Unregister(99) = %d, want 0", mgr.Count())
	}
}

func TestTickManager_Start(t *testing.T) {
	mgr := NewTickManager(20 * time.Millisecond)
	ctrl := &countingController{}

	// Register controller
	mgr.Register(1, ctrl)

	// Start manager with timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Start manager in goroutine
	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(ctx)
	}()

	// Wait for at least 1 tick
	time.Sleep(200 * time.Millisecond)

	// Cancel context to stop manager
	cancel()

	// Wait for manager to stop
	select {
	case err := <-done:
		if err != context.Canceled && err != context.DeadlineExceeded {
			t.Errorf("Start() error = %v, want context.Canceled or DeadlineExceeded", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Start() did not stop after context cancel")
	}

	if ctrl.ticks.Load() == 0 {
		t.Error("registered controller was never ticked")
	}

	// Controllers advance by the fixed manager interval
	if dt := time.Duration(ctrl.lastDT.Load()); dt != 20*time.Millisecond {
		t.Errorf("tick dt = %v, want 20ms", dt)
	}
}

func TestTickManager_Stop(t *testing.T) {
	mgr := NewTickManager(20 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	mgr.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() after Stop() = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Start() did not stop after Stop()")
	}
}

// orderController appends to a shared log so tick ordering is observable.
type orderController struct {
	countingController
	log *[]string
}

func (c *orderController) Tick(dt time.Duration) {
	*c.log = append(*c.log, "controller")
	c.countingController.Tick(dt)
}

func TestTickManager_WorldStepsRunBeforeControllers(t *testing.T) {
	mgr := NewTickManager(100 * time.Millisecond)

	var log []string
	mgr.AddWorldStep(func(time.Duration) { log = append(log, "world") })
	mgr.Register(1, &orderController{log: &log})

	mgr.tickAll()

	want := []string{"world", "controller"}
	if !slices.Equal(log, want) {
		t.Errorf("tick order = %v, want %v", log, want)
	}
}

func TestTickManager_MultipleControllers(t *testing.T) {
	mgr := NewTickManager(100 * time.Millisecond)

	// Register 10 controllers
	ctrls := make([]*countingController, 10)
	for i := range 10 {
		ctrls[i] = &countingController{}
		mgr.Register(model.ActorID(i+1), ctrls[i])
	}

	// Verify count
	if mgr.Count() != 10 {
		t.Errorf("Count() after registering 10 controllers = %d, want 10", mgr.Count())
	}

	// Tick all
	mgr.tickAll()

	for i, ctrl := range ctrls {
		if ctrl.ticks.Load() != 1 {
			t.Errorf("controller %d ticks = %d, want 1", i+1, ctrl.ticks.Load())
		}
	}

	// Unregister all
	for i := range 10 {
		mgr.Unregister(model.ActorID(i + 1))
	}

	// Verify count
	if mgr.Count() != 0 {
		t.Errorf("Count() after unregistering all = %d, want 0", mgr.Count())
	}
}
