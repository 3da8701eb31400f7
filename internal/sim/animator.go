package sim

import (
	"fmt"
	"time"

	"github.com/udisondev/npcbehave/internal/behavior"
	"github.com/udisondev/npcbehave/internal/config"
	"github.com/udisondev/npcbehave/internal/model"
)

// baseClipLength is the nominal wall length of a one-shot clip at play rate
// 1.0. Headless playback has no real clip assets to measure.
const baseClipLength = 2 * time.Second

// playingClip tracks one actor's clip slot.
type playingClip struct {
	clip     string
	playRate float64
	looping  bool
	elapsed  time.Duration
	fading   bool
	fadeLeft time.Duration
}

// duration returns the wall length of a one-shot clip at its play rate.
func (c *playingClip) duration() time.Duration {
	return time.Duration(float64(baseClipLength) / c.playRate)
}

// ClipAnimator plays clips as pure bookkeeping. One-shot clips end after a
// nominal length scaled by play rate; looping clips play until stopped.
// Stop starts a blend-out window during which the clip is no longer reported
// as playing but still occupies the actor's slot.
//
// Plain map, no locks: accessed only from the tick goroutine.
type ClipAnimator struct {
	blend time.Duration
	clips map[model.ActorID]*playingClip
}

var _ behavior.Animator = (*ClipAnimator)(nil)

// NewClipAnimator creates an animator blending out over cfg.BlendDuration.
func NewClipAnimator(cfg config.SimulationConfig) *ClipAnimator {
	return &ClipAnimator{
		blend: cfg.BlendDuration,
		clips: make(map[model.ActorID]*playingClip),
	}
}

// Play starts a clip on an actor, replacing whatever is playing.
func (a *ClipAnimator) Play(id model.ActorID, clip string, playRate float64, looping bool) error {
	if clip == "" {
		return fmt.Errorf("empty clip name")
	}
	if playRate <= 0 {
		return fmt.Errorf("clip %s: play rate %v is not positive", clip, playRate)
	}
	a.clips[id] = &playingClip{clip: clip, playRate: playRate, looping: looping}
	return nil
}

// Stop blends out whatever the actor is playing.
func (a *ClipAnimator) Stop(id model.ActorID) {
	active, ok := a.clips[id]
	if !ok || active.fading {
		return
	}
	if a.blend <= 0 {
		delete(a.clips, id)
		return
	}
	active.fading = true
	active.fadeLeft = a.blend
}

// IsPlaying reports whether the named clip is still active on the actor.
// Fading clips do not count.
func (a *ClipAnimator) IsPlaying(id model.ActorID, clip string) bool {
	active, ok := a.clips[id]
	return ok && !active.fading && active.clip == clip
}

// Playing returns the clip an actor is currently playing, if any.
func (a *ClipAnimator) Playing(id model.ActorID) (string, bool) {
	active, ok := a.clips[id]
	if !ok || active.fading {
		return "", false
	}
	return active.clip, true
}

// Tick advances playback: one-shot clips run out, fading clips expire.
func (a *ClipAnimator) Tick(dt time.Duration) {
	for id, active := range a.clips {
		if active.fading {
			active.fadeLeft -= dt
			if active.fadeLeft <= 0 {
				delete(a.clips, id)
			}
			continue
		}

		active.elapsed += dt
		if !active.looping && active.elapsed >= active.duration() {
			delete(a.clips, id)
		}
	}
}
