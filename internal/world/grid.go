package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellShift - shift by N bits for 2^N units per cell (2^4 = 16, one chunk column).
const CellShift = 4

// CellSize in world units.
const CellSize = 1 << CellShift

// cellKey addresses a vertical column of the shard on the X/Z plane.
type cellKey struct {
	x, z int32
}

// cellOf returns the cell column containing pos.
func cellOf(pos mgl64.Vec3) cellKey {
	return cellKey{
		x: int32(math.Floor(pos.X())) >> CellShift,
		z: int32(math.Floor(pos.Z())) >> CellShift,
	}
}

// cellRange returns the inclusive cell bounds covering a sphere of the given
// squared radius around pos.
func cellRange(pos mgl64.Vec3, radiusSquared float64) (minKey, maxKey cellKey) {
	r := math.Sqrt(radiusSquared)
	minKey = cellOf(mgl64.Vec3{pos.X() - r, 0, pos.Z() - r})
	maxKey = cellOf(mgl64.Vec3{pos.X() + r, 0, pos.Z() + r})
	return minKey, maxKey
}
