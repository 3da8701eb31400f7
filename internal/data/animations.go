package data

import (
	"log/slog"
	"strings"
)

// animationDef is one expressive clip definition bound to an intent tag.
// Content extends the table through Go literals in animationDefs.
type animationDef struct {
	tag           string
	clip          string  // montage asset name
	sequence      string  // plain sequence fallback when the montage is absent
	playRate      float64 // 1.0 = authored speed
	looping       bool
	priority      int32 // higher wins when two clips compete for a slot
	interruptible bool
}

// AnimationTable is the global registry of tag-to-clip mappings.
// map[tag]*animationDef
var AnimationTable map[string]*animationDef

// animationDefs seeds AnimationTable. Physical behaviors (movement, combat)
// drive their own locomotion and strike clips, so only expressive tags are
// mapped here. Parent tags act as fallbacks for unmapped descendants.
var animationDefs = []animationDef{
	{
		tag:           "AI.Intent.Social",
		clip:          "AM_Gesture_Generic",
		sequence:      "AS_Gesture_Generic",
		playRate:      1.0,
		looping:       false,
		priority:      10,
		interruptible: true,
	},
	{
		tag:           "AI.Intent.Social.Talk",
		clip:          "AM_Talk_Gesture",
		sequence:      "AS_Talk_Gesture",
		playRate:      1.0,
		looping:       true,
		priority:      20,
		interruptible: true,
	},
	{
		tag:           "AI.Intent.Social.Trade",
		clip:          "AM_Trade_Present",
		sequence:      "AS_Trade_Present",
		playRate:      1.0,
		looping:       true,
		priority:      20,
		interruptible: true,
	},
	{
		tag:           "AI.Intent.Interact",
		clip:          "AM_Use_Object",
		sequence:      "AS_Use_Object",
		playRate:      1.0,
		looping:       false,
		priority:      30,
		interruptible: false,
	},
	{
		tag:           "AI.Intent.Idle",
		clip:          "AM_Idle_LookAround",
		sequence:      "AS_Idle_LookAround",
		playRate:      1.0,
		looping:       false,
		priority:      5,
		interruptible: true,
	},
	{
		tag:           "AI.Intent.Guard",
		clip:          "AM_Guard_Stand",
		sequence:      "AS_Guard_Stand",
		playRate:      1.0,
		looping:       true,
		priority:      15,
		interruptible: true,
	},
	{
		tag:           "AI.Intent.Curiosity",
		clip:          "AM_Curious_Peer",
		sequence:      "AS_Curious_Peer",
		playRate:      1.0,
		looping:       false,
		priority:      10,
		interruptible: true,
	},
	{
		tag:           "AI.Intent.Curiosity.Watch",
		clip:          "AM_Watch_Focused",
		sequence:      "AS_Watch_Focused",
		playRate:      0.9,
		looping:       true,
		priority:      15,
		interruptible: true,
	},
}

// idleClips and gestureClips are filler pools for ambient behavior.
// Selection is random and lives with the caller.
var idleClips = []string{
	"AM_Idle_Stretch",
	"AM_Idle_LookAround",
	"AM_Idle_ShiftWeight",
	"AM_Idle_Scratch",
}

var gestureClips = []string{
	"AM_Gesture_Nod",
	"AM_Gesture_Wave",
	"AM_Gesture_Shrug",
}

// LoadAnimations builds AnimationTable from Go literals.
func LoadAnimations() error {
	AnimationTable = make(map[string]*animationDef, len(animationDefs))

	for i := range animationDefs {
		AnimationTable[animationDefs[i].tag] = &animationDefs[i]
	}

	slog.Info("loaded animation mappings", "count", len(AnimationTable))
	return nil
}

// GetAnimationDef returns the exact mapping for a tag.
// Returns nil if the tag is not mapped.
func GetAnimationDef(tag string) *animationDef {
	if AnimationTable == nil {
		return nil
	}
	return AnimationTable[tag]
}

// AnimationForTag resolves a tag to a clip, walking up the dotted hierarchy
// when the exact tag has no mapping. "AI.Intent.Social.Dance" falls back to
// "AI.Intent.Social". Returns nil when no ancestor is mapped either.
func AnimationForTag(tag string) *animationDef {
	for tag != "" {
		if def := GetAnimationDef(tag); def != nil {
			return def
		}
		idx := strings.LastIndexByte(tag, '.')
		if idx < 0 {
			return nil
		}
		tag = tag[:idx]
	}
	return nil
}

// IdleClips returns the ambient idle filler pool.
func IdleClips() []string {
	return idleClips
}

// GestureClips returns the conversational gesture pool.
func GestureClips() []string {
	return gestureClips
}

// animationDef accessor methods.

func (d *animationDef) Tag() string         { return d.tag }
func (d *animationDef) Clip() string        { return d.clip }
func (d *animationDef) Sequence() string    { return d.sequence }
func (d *animationDef) PlayRate() float64   { return d.playRate }
func (d *animationDef) Looping() bool       { return d.looping }
func (d *animationDef) Priority() int32     { return d.priority }
func (d *animationDef) Interruptible() bool { return d.interruptible }
