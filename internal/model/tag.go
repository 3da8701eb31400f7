package model

import "strings"

// Tag is a hierarchical dotted intent identifier, e.g. "AI.Intent.Combat.Attack".
// A tag matches another exactly or through ancestry: "AI.Intent.Combat" is an
// ancestor of "AI.Intent.Combat.Attack". Matching rules are evaluated by the
// dispatcher in fixed priority order, first match wins.
type Tag string

// Well-known intent tags. The set is closed: routing rules and the animation
// mapping table are keyed by these constants, but executors accept any
// descendant of a supported tag so content can extend the hierarchy.
const (
	TagIntentRoot Tag = "AI.Intent"

	TagCombat        Tag = "AI.Intent.Combat"
	TagCombatAttack  Tag = "AI.Intent.Combat.Attack"
	TagCombatDefend  Tag = "AI.Intent.Combat.Defend"
	TagCombatRetreat Tag = "AI.Intent.Combat.Retreat"

	TagWander  Tag = "AI.Intent.Wander"
	TagPatrol  Tag = "AI.Intent.Patrol"
	TagExplore Tag = "AI.Intent.Explore"
	TagFlee    Tag = "AI.Intent.Flee"
	TagMoveTo  Tag = "AI.Intent.MoveTo"

	TagSocial       Tag = "AI.Intent.Social"
	TagSocialTalk   Tag = "AI.Intent.Social.Talk"
	TagSocialTrade  Tag = "AI.Intent.Social.Trade"
	TagSocialFollow Tag = "AI.Intent.Social.Follow"

	TagInteract Tag = "AI.Intent.Interact"

	TagIdle  Tag = "AI.Intent.Idle"
	TagGuard Tag = "AI.Intent.Guard"

	TagCuriosity      Tag = "AI.Intent.Curiosity"
	TagCuriosityWatch Tag = "AI.Intent.Curiosity.Watch"
)

// Valid reports whether the tag is non-empty.
func (t Tag) Valid() bool {
	return t != ""
}

// String returns the tag as a plain string.
func (t Tag) String() string {
	return string(t)
}

// Matches reports an exact tag match.
func (t Tag) Matches(other Tag) bool {
	return t == other
}

// HasAncestor reports whether ancestor equals t or is a dotted prefix of t.
// Every tag is its own ancestor: HasAncestor(t) is true.
func (t Tag) HasAncestor(ancestor Tag) bool {
	if t == ancestor {
		return true
	}
	return strings.HasPrefix(string(t), string(ancestor)+".")
}

// Parent returns the tag with the last segment removed,
// or the empty tag for single-segment tags.
func (t Tag) Parent() Tag {
	idx := strings.LastIndexByte(string(t), '.')
	if idx < 0 {
		return ""
	}
	return t[:idx]
}

// Leaf returns the last segment of the tag.
func (t Tag) Leaf() string {
	idx := strings.LastIndexByte(string(t), '.')
	if idx < 0 {
		return string(t)
	}
	return string(t[idx+1:])
}

// MatchesAnySupported reports whether t is a descendant of (or equal to) any
// tag in the supported set. This is the canExecute test shared by every
// executor.
func (t Tag) MatchesAnySupported(supported []Tag) bool {
	for _, s := range supported {
		if t.HasAncestor(s) {
			return true
		}
	}
	return false
}
