package model

import "math"

// headingUnitsPerCircle is the full-circle heading resolution (uint16 range).
const headingUnitsPerCircle = 65536.0

// Location represents a position in world units.
// Value type, passed by value (immutable).
type Location struct {
	X       int32
	Y       int32
	Z       int32
	Heading uint16 // 0-65535, 0 points along +X
}

// NewLocation creates a Location with the given coordinates.
func NewLocation(x, y, z int32, heading uint16) Location {
	return Location{X: x, Y: y, Z: z, Heading: heading}
}

// WithHeading returns a new Location with the heading replaced (immutable pattern).
func (l Location) WithHeading(heading uint16) Location {
	l.Heading = heading
	return l
}

// WithCoordinates returns a new Location with the coordinates replaced (immutable pattern).
func (l Location) WithCoordinates(x, y, z int32) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// Offset returns a new Location shifted by (dx, dy, dz).
func (l Location) Offset(dx, dy, dz int32) Location {
	l.X += dx
	l.Y += dy
	l.Z += dz
	return l
}

// DistanceSquared returns the squared distance to another point (no sqrt on hot paths).
func (l Location) DistanceSquared(other Location) int64 {
	dx := int64(l.X - other.X)
	dy := int64(l.Y - other.Y)
	dz := int64(l.Z - other.Z)
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the distance to another point in world units.
func (l Location) Distance(other Location) float64 {
	return math.Sqrt(float64(l.DistanceSquared(other)))
}

// WithinRange reports whether other is within radius world units (inclusive).
func (l Location) WithinRange(other Location, radius int32) bool {
	return l.DistanceSquared(other) <= int64(radius)*int64(radius)
}

// HeadingTo returns the heading value that faces from l toward other.
// Computed on the XY plane; identical points keep the current heading.
func (l Location) HeadingTo(other Location) uint16 {
	dx := float64(other.X - l.X)
	dy := float64(other.Y - l.Y)
	if dx == 0 && dy == 0 {
		return l.Heading
	}
	angle := math.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	// Round can land on the full circle; the integer conversion wraps it to 0.
	return uint16(int64(math.Round(angle / (2 * math.Pi) * headingUnitsPerCircle)))
}

// FacingTo returns a copy of l turned to face other.
func (l Location) FacingTo(other Location) Location {
	return l.WithHeading(l.HeadingTo(other))
}

// ProjectAway returns the point dist units beyond l along the from→l direction.
// Used to compute flee and retreat destinations. When from and l coincide the
// projection axis is undefined and +X is used.
func (l Location) ProjectAway(from Location, dist int32) Location {
	dx := float64(l.X - from.X)
	dy := float64(l.Y - from.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return l.Offset(dist, 0, 0)
	}
	scale := float64(dist) / length
	return l.Offset(int32(math.Round(dx*scale)), int32(math.Round(dy*scale)), 0)
}

// Toward returns the point step units from l in the direction of dest.
// Never overshoots: if dest is closer than step, dest is returned.
func (l Location) Toward(dest Location, step int32) Location {
	dx := float64(dest.X - l.X)
	dy := float64(dest.Y - l.Y)
	dz := float64(dest.Z - l.Z)
	length := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if length <= float64(step) {
		return dest.WithHeading(l.Heading)
	}
	scale := float64(step) / length
	moved := l.Offset(
		int32(math.Round(dx*scale)),
		int32(math.Round(dy*scale)),
		int32(math.Round(dz*scale)),
	)
	return moved.WithHeading(l.HeadingTo(dest))
}

// Lateral returns the point dist units from l perpendicular to the l→around
// direction. Used for circling repositioning during combat. clockwise selects
// the rotation sense on the XY plane.
func (l Location) Lateral(around Location, dist int32, clockwise bool) Location {
	dx := float64(around.X - l.X)
	dy := float64(around.Y - l.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return l.Offset(0, dist, 0)
	}
	// Perpendicular unit vector on the XY plane.
	px, py := -dy/length, dx/length
	if clockwise {
		px, py = -px, -py
	}
	return l.Offset(
		int32(math.Round(px*float64(dist))),
		int32(math.Round(py*float64(dist))),
		0,
	)
}
