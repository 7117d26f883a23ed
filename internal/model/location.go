package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Location представляет позицию и ориентацию сущности в шарде.
// Value type, передаётся по значению (immutable).
type Location struct {
	Position mgl64.Vec3
	Yaw      float64 // degrees
	Pitch    float64 // degrees
}

// NewLocation создаёт Location с указанными координатами и ориентацией.
func NewLocation(x, y, z, yaw, pitch float64) Location {
	return Location{Position: mgl64.Vec3{x, y, z}, Yaw: yaw, Pitch: pitch}
}

// WithPosition returns a copy moved to pos, keeping orientation.
func (l Location) WithPosition(pos mgl64.Vec3) Location {
	l.Position = pos
	return l
}

// WithOrientation returns a copy with the given yaw and pitch.
func (l Location) WithOrientation(yaw, pitch float64) Location {
	l.Yaw = yaw
	l.Pitch = pitch
	return l
}

// DistanceSquared возвращает квадрат расстояния до точки (без sqrt для hot path).
func (l Location) DistanceSquared(other mgl64.Vec3) float64 {
	d := other.Sub(l.Position)
	return d.Dot(d)
}

// Facing returns a copy of l oriented towards target.
// Yaw follows the block-game convention: 0 faces +Z, 90 faces -X.
// If target coincides with the position the orientation is unchanged.
func (l Location) Facing(target mgl64.Vec3) Location {
	d := target.Sub(l.Position)
	horizontal := math.Hypot(d.X(), d.Z())
	if horizontal == 0 && d.Y() == 0 {
		return l
	}

	yaw := mgl64.RadToDeg(-math.Atan2(d.X(), d.Z()))
	pitch := mgl64.RadToDeg(-math.Atan2(d.Y(), horizontal))
	return l.WithOrientation(yaw, pitch)
}

// IsFinite reports whether every coordinate and angle is a real number.
func (l Location) IsFinite() bool {
	for _, v := range []float64{l.Position.X(), l.Position.Y(), l.Position.Z(), l.Yaw, l.Pitch} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
