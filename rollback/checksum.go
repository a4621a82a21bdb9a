package rollback

import (
	"math"

	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/netconfig"
)

// PhysicsState is the 16-bit fingerprint of one player's body.
type PhysicsState uint16

// Checksums holds one PhysicsState per player slot.
type Checksums [netconfig.MaxPlayers]PhysicsState

// BodyChecksum folds the IEEE-754 bit patterns of position, velocity,
// rotation and angular velocity, 16 bits at a time, into a wrapping sum.
func BodyChecksum(b components.Body) PhysicsState {
	fields := [...]float32{
		b.Position.X, b.Position.Y,
		b.Velocity.X, b.Velocity.Y,
		float32(b.Rotation),
		float32(b.AngularVelocity),
	}
	var sum uint16
	for _, f := range fields {
		bits := math.Float32bits(f)
		sum += uint16(bits) + uint16(bits>>16)
	}
	return PhysicsState(sum)
}

// ComputeChecksums folds every player's body in player-index order. Empty
// slots fold to zero.
func ComputeChecksums(w *components.World, players [netconfig.MaxPlayers]components.Entity) Checksums {
	var out Checksums
	for p, e := range players {
		if !w.Entities.Has(e, components.MaskBody) {
			continue
		}
		out[p] = BodyChecksum(w.Bodies.Get(e))
	}
	return out
}

// Compare returns the first player whose checksums differ, with ok false. When
// every slot matches it returns ok true.
func Compare(local, remote Checksums) (player netconfig.PlayerNumber, ok bool) {
	for p := range local {
		if local[p] != remote[p] {
			return netconfig.PlayerNumber(p), false
		}
	}
	return netconfig.InvalidPlayer, true
}
