// Package netconfig defines lightweight types shared between client and server
// for simulation and network serialization. Every value here must be identical
// on all peers, so nothing in this package is runtime-configurable.
package netconfig

import (
	"math"
	"time"
)

// Frame counts fixed simulation steps since the match started.
type Frame uint32

// PlayerNumber is a player's slot in the match, 0..MaxPlayers-1.
type PlayerNumber uint8

// ClientID identifies a connected client before it gets a player number.
type ClientID uint16

const (
	// MaxPlayers is the number of ships in a match.
	MaxPlayers = 2

	// MaxInputs is the capacity of the per-player input history and the
	// number of inputs carried by every input packet.
	MaxInputs = 50

	// InvalidPlayer marks a client that has not been assigned a slot.
	InvalidPlayer PlayerNumber = math.MaxUint8

	// FixedPeriod is the duration of one simulated frame (50 Hz).
	FixedPeriod = 20 * time.Millisecond

	// FixedDelta is FixedPeriod in seconds, as used by the integrator.
	FixedDelta float32 = 0.02

	// PixelPerUnit converts world units to broad-phase space pixels.
	PixelPerUnit = 100.0
)

// MatchState is a bit set describing the client match lifecycle.
type MatchState uint32

const (
	MatchStarted MatchState = 1 << iota
	MatchFinished
	MatchDesynced
)

func (s MatchState) Has(flag MatchState) bool {
	return s&flag == flag
}
