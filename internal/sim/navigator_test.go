package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/model"
	"github.com/udisondev/npcbehave/internal/world"
)

func newNavFixture(t *testing.T, speed float64) (*StepNavigator, *model.Actor) {
	t.Helper()

	reg := world.New()
	actor := model.NewActor(1, "Runner", model.NewLocation(0, 0, 0, 0), 10, 1000)
	if err := reg.Add(actor); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	cfg := config.DefaultSimulation()
	cfg.MoveSpeed = speed
	return NewStepNavigator(reg, cfg), actor
}

func TestStepNavigator_StepsTowardDestination(t *testing.T) {
	nav, actor := newNavFixture(t, 100)

	err := nav.MoveTo(1, model.NewLocation(1000, 0, 0, 0))
	assert.NoError(t, err)
	assert.True(t, nav.IsMoving(1))

	nav.Tick(time.Second)

	loc := actor.Location()
	assert.Equal(t, int32(100), loc.X)
	assert.Equal(t, int32(0), loc.Y)
	assert.True(t, nav.IsMoving(1))
}

func TestStepNavigator_ArrivesAndClearsRequest(t *testing.T) {
	nav, actor := newNavFixture(t, 100)
	dest := model.NewLocation(250, 0, 0, 0)

	assert.NoError(t, nav.MoveTo(1, dest))

	// 100 units per tick; the third step snaps to the destination
	for range 3 {
		nav.Tick(time.Second)
	}

	loc := actor.Location()
	assert.Equal(t, dest.X, loc.X)
	assert.Equal(t, dest.Y, loc.Y)
	assert.False(t, nav.IsMoving(1))
}

func TestStepNavigator_FacesMovementDirection(t *testing.T) {
	nav, actor := newNavFixture(t, 100)

	assert.NoError(t, nav.MoveTo(1, model.NewLocation(0, 1000, 0, 0)))
	nav.Tick(time.Second)

	// +Y is a quarter turn from the +X zero heading
	assert.Equal(t, uint16(16384), actor.Location().Heading)
}

func TestStepNavigator_StopCancelsRequest(t *testing.T) {
	nav, actor := newNavFixture(t, 100)

	assert.NoError(t, nav.MoveTo(1, model.NewLocation(1000, 0, 0, 0)))
	nav.Stop(1)

	assert.False(t, nav.IsMoving(1))

	nav.Tick(time.Second)
	assert.Equal(t, int32(0), actor.Location().X)
}

func TestStepNavigator_ReplacesActiveRequest(t *testing.T) {
	nav, actor := newNavFixture(t, 100)

	assert.NoError(t, nav.MoveTo(1, model.NewLocation(1000, 0, 0, 0)))
	assert.NoError(t, nav.MoveTo(1, model.NewLocation(0, 1000, 0, 0)))

	nav.Tick(time.Second)

	loc := actor.Location()
	assert.Equal(t, int32(0), loc.X)
	assert.Equal(t, int32(100), loc.Y)
}

func TestStepNavigator_UnknownActor(t *testing.T) {
	nav, _ := newNavFixture(t, 100)

	err := nav.MoveTo(99, model.NewLocation(1000, 0, 0, 0))
	assert.Error(t, err)
	assert.False(t, nav.IsMoving(99))
}

func TestStepNavigator_DeadActorDropsRequest(t *testing.T) {
	nav, actor := newNavFixture(t, 100)

	assert.NoError(t, nav.MoveTo(1, model.NewLocation(1000, 0, 0, 0)))

	actor.SetCurrentHP(0)
	nav.Tick(time.Second)

	assert.False(t, nav.IsMoving(1))
	assert.Equal(t, int32(0), actor.Location().X)

	// New requests for a dead actor are rejected outright
	assert.Error(t, nav.MoveTo(1, model.NewLocation(1000, 0, 0, 0)))
}

func TestStepNavigator_TinyTickStillSteps(t *testing.T) {
	nav, actor := newNavFixture(t, 100)

	assert.NoError(t, nav.MoveTo(1, model.NewLocation(1000, 0, 0, 0)))

	// 100 u/s over 1ms rounds to zero; the step floor keeps motion alive
	nav.Tick(time.Millisecond)
	assert.Equal(t, int32(1), actor.Location().X)
}
