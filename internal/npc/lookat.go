package npc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Auriosi/AuriNPC/internal/world"
)

// nearestPlayer returns the closest player within rangeSquared of from.
// Distances are compared squared; ties go to the first player yielded.
func nearestPlayer(shard world.Shard, from mgl64.Vec3, rangeSquared float64) (world.Player, bool) {
	var closest world.Player
	best := math.MaxFloat64

	for e := range shard.NearbyEntities(from, rangeSquared) {
		p, ok := e.(world.Player)
		if !ok {
			continue
		}
		d := p.Position().Sub(from)
		if dist := d.Dot(d); dist < best {
			closest = p
			best = dist
		}
	}
	return closest, closest != nil
}

// lookAtNearest turns the NPC towards the nearest player in range.
// Orientation is left unchanged when nobody is in range.
func (n *NPC) lookAtNearest() {
	n.mu.RLock()
	shard := n.shard
	loc := n.location
	rangeSquared := float64(n.lookRangeSquared)
	n.mu.RUnlock()

	target, ok := nearestPlayer(shard, loc.Position, rangeSquared)
	if !ok {
		return
	}

	facing := loc.Facing(target.Position())
	if facing == loc {
		return
	}

	n.mu.Lock()
	if n.location.Position != loc.Position {
		// moved while scanning; next tick will retry
		n.mu.Unlock()
		return
	}
	n.location = facing
	n.mu.Unlock()

	n.broadcastUpdate()
}
