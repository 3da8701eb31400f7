package world

import (
	"testing"

	"github.com/udisondev/npcbehave/internal/model"
)

func TestRegistry_AddResolve(t *testing.T) {
	r := New()

	actor := model.NewActor(10, "Villager", model.NewLocation(0, 0, 0, 0), 1, 50)
	if err := r.Add(actor); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, ok := r.Resolve(10)
	if !ok {
		t.Fatal("Resolve() must find a registered actor")
	}
	if got.Name() != "Villager" {
		t.Errorf("Resolve() returned %q, want Villager", got.Name())
	}
}

func TestRegistry_AddRejectsZeroID(t *testing.T) {
	r := New()

	err := r.Add(model.NewActor(0, "Ghost", model.Location{}, 1, 1))
	if err == nil {
		t.Error("Add() must reject ActorID 0")
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := New()

	if _, ok := r.Resolve(999); ok {
		t.Error("Resolve() must report false for unknown handles")
	}
}

func TestRegistry_ResolvePendingDestruction(t *testing.T) {
	r := New()

	actor := model.NewActor(10, "Villager", model.Location{}, 1, 50)
	if err := r.Add(actor); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	actor.MarkForDestruction()

	if _, ok := r.Resolve(10); ok {
		t.Error("Resolve() must treat pending destruction as invalid")
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := New()

	actor := model.NewActor(10, "Villager", model.Location{}, 1, 50)
	if err := r.Add(actor); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	r.Remove(10)

	if _, ok := r.Resolve(10); ok {
		t.Error("Resolve() must fail after Remove()")
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
}

func TestRegistry_NearestHostile(t *testing.T) {
	r := New()

	npc := model.NewActor(1, "Guard", model.NewLocation(0, 0, 0, 0), 10, 100)

	near := model.NewActor(2, "Wolf", model.NewLocation(100, 0, 0, 0), 5, 40)
	near.SetHostile(true)
	far := model.NewActor(3, "Bear", model.NewLocation(400, 0, 0, 0), 8, 80)
	far.SetHostile(true)
	friendly := model.NewActor(4, "Trader", model.NewLocation(50, 0, 0, 0), 3, 30)

	for _, a := range []*model.Actor{npc, near, far, friendly} {
		if err := r.Add(a); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	id, ok := r.NearestHostile(npc.Location(), 1000, npc.ID())
	if !ok || id != 2 {
		t.Errorf("NearestHostile() = (%d, %v), want (2, true)", id, ok)
	}

	// Dead hostiles are skipped
	near.SetCurrentHP(0)
	id, ok = r.NearestHostile(npc.Location(), 1000, npc.ID())
	if !ok || id != 3 {
		t.Errorf("NearestHostile() after death = (%d, %v), want (3, true)", id, ok)
	}

	// Range limit excludes the remaining hostile
	if _, ok = r.NearestHostile(npc.Location(), 200, npc.ID()); ok {
		t.Error("NearestHostile() must respect maxRange")
	}
}

func TestRegistry_NearestFriendly(t *testing.T) {
	r := New()

	npc := model.NewActor(1, "Guard", model.NewLocation(0, 0, 0, 0), 10, 100)
	wolf := model.NewActor(2, "Wolf", model.NewLocation(100, 0, 0, 0), 5, 40)
	wolf.SetHostile(true)
	trader := model.NewActor(3, "Trader", model.NewLocation(300, 0, 0, 0), 3, 30)

	for _, a := range []*model.Actor{npc, wolf, trader} {
		if err := r.Add(a); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	// Hostiles and the scanning actor itself never qualify
	id, ok := r.NearestFriendly(npc.Location(), 1000, npc.ID())
	if !ok || id != 3 {
		t.Errorf("NearestFriendly() = (%d, %v), want (3, true)", id, ok)
	}

	if _, ok = r.NearestFriendly(npc.Location(), 200, npc.ID()); ok {
		t.Error("NearestFriendly() must respect maxRange")
	}
}

func TestRegistry_LineOfSight(t *testing.T) {
	r := New()

	from := model.NewLocation(0, 0, 0, 0)
	to := model.NewLocation(1000, 0, 0, 0)

	// No obstacles: always clear
	if !r.LineOfSight(from, to) {
		t.Error("LineOfSight() with no obstacles must be clear")
	}

	// Pillar square on the segment
	r.AddObstacle(Obstacle{Center: model.NewLocation(500, 0, 0, 0), Radius: 50})
	if r.LineOfSight(from, to) {
		t.Error("LineOfSight() through an obstacle must be blocked")
	}

	// Segment passing beside the pillar stays clear
	aside := model.NewLocation(1000, 200, 0, 0)
	if !r.LineOfSight(from, aside) {
		t.Error("LineOfSight() beside the obstacle must be clear")
	}

	// Obstacle behind the segment end does not block
	if !r.LineOfSight(from, model.NewLocation(400, 0, 0, 0)) {
		t.Error("LineOfSight() short of the obstacle must be clear")
	}
}
