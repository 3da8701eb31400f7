package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Well-known parameter keys. Parameters carry ad-hoc payloads serialized as
// text; the typed With* payloads below are preferred and the accessors fall
// back to parsing these keys for intents built from the wire shape.
const (
	ParamTargetActor    = "TargetActor"    // decimal ActorID
	ParamDestination    = "Destination"    // "x,y,z"
	ParamThreatLocation = "ThreatLocation" // "x,y,z"
)

// Intent is a tagged request for behavior.
//
// Immutable once dispatched: the value is built with NewIntent plus With*
// copies and never mutated in place. Re-dispatch means constructing a new
// Intent. The dispatcher owns a queued intent until it hands it to a
// sub-executor, which keeps its own copy as the currently executing intent.
type Intent struct {
	id       string
	tag      Tag
	priority Priority
	target   ActorID
	dest     *Location
	threat   *Location
	params   map[string]string
}

// NewIntent creates an intent with a fresh ID for log and notification
// correlation.
func NewIntent(tag Tag, priority Priority) Intent {
	return Intent{
		id:       uuid.NewString(),
		tag:      tag,
		priority: priority,
	}
}

// WithTarget returns a copy carrying a direct target actor handle.
func (i Intent) WithTarget(id ActorID) Intent {
	i.target = id
	return i
}

// WithDestination returns a copy carrying a typed destination point.
func (i Intent) WithDestination(loc Location) Intent {
	i.dest = &loc
	return i
}

// WithThreatLocation returns a copy carrying a typed threat origin.
func (i Intent) WithThreatLocation(loc Location) Intent {
	i.threat = &loc
	return i
}

// WithParam returns a copy with an ad-hoc text parameter added.
// The parameter map is copied so earlier intent values stay unchanged.
func (i Intent) WithParam(key, value string) Intent {
	params := make(map[string]string, len(i.params)+1)
	for k, v := range i.params {
		params[k] = v
	}
	params[key] = value
	i.params = params
	return i
}

// Valid reports whether the intent was built with NewIntent.
// The zero Intent is invalid and means "no intent".
func (i Intent) Valid() bool {
	return i.id != ""
}

// ID returns the intent correlation ID.
func (i Intent) ID() string {
	return i.id
}

// Tag returns the hierarchical intent tag.
func (i Intent) Tag() Tag {
	return i.tag
}

// Priority returns the planner-assigned priority.
func (i Intent) Priority() Priority {
	return i.priority
}

// Param returns an ad-hoc text parameter.
func (i Intent) Param(key string) (string, bool) {
	v, ok := i.params[key]
	return v, ok
}

// TargetActor returns the target actor handle from the typed field,
// falling back to the TargetActor parameter.
func (i Intent) TargetActor() (ActorID, bool) {
	if i.target != 0 {
		return i.target, true
	}
	raw, ok := i.params[ParamTargetActor]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return ActorID(id), true
}

// Destination returns the destination point from the typed field,
// falling back to the Destination parameter.
func (i Intent) Destination() (Location, bool) {
	if i.dest != nil {
		return *i.dest, true
	}
	return i.paramLocation(ParamDestination)
}

// ThreatLocation returns the threat origin from the typed field,
// falling back to the ThreatLocation parameter.
func (i Intent) ThreatLocation() (Location, bool) {
	if i.threat != nil {
		return *i.threat, true
	}
	return i.paramLocation(ParamThreatLocation)
}

func (i Intent) paramLocation(key string) (Location, bool) {
	raw, ok := i.params[key]
	if !ok {
		return Location{}, false
	}
	return ParseLocation(raw)
}

// ParseLocation parses the "x,y,z" wire form of a point.
func ParseLocation(raw string) (Location, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return Location{}, false
	}
	coords := make([]int32, 3)
	for n, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return Location{}, false
		}
		coords[n] = int32(v)
	}
	return NewLocation(coords[0], coords[1], coords[2], 0), true
}

// FormatLocation renders a point in the "x,y,z" wire form.
func FormatLocation(loc Location) string {
	return fmt.Sprintf("%d,%d,%d", loc.X, loc.Y, loc.Z)
}
