package game

import (
	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netconfig"
)

// Recorder receives a copy of every input packet and validation for offline
// desync analysis. Implementations must not block the tick.
type Recorder interface {
	RecordInput(msg messages.PlayerInput)
	RecordValidation(frame netconfig.Frame, checksums rollback.Checksums)
}

type nopRecorder struct{}

func (nopRecorder) RecordInput(messages.PlayerInput)                     {}
func (nopRecorder) RecordValidation(netconfig.Frame, rollback.Checksums) {}

func toWire(c rollback.Checksums) [netconfig.MaxPlayers]uint16 {
	var out [netconfig.MaxPlayers]uint16
	for i, v := range c {
		out[i] = uint16(v)
	}
	return out
}

func fromWire(c [netconfig.MaxPlayers]uint16) rollback.Checksums {
	var out rollback.Checksums
	for i, v := range c {
		out[i] = rollback.PhysicsState(v)
	}
	return out
}
