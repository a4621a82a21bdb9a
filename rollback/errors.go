package rollback

import (
	"errors"
	"fmt"

	"github.com/automoto/shipduel/shared/netconfig"
)

var (
	// ErrInvalidPlayer is returned for operations on a player slot outside
	// 0..MaxPlayers-1. Nothing is mutated.
	ErrInvalidPlayer = errors.New("rollback: invalid player")

	// ErrFrameNotReady means some spawned player's input for the requested
	// frame has not arrived yet. Callers keep the request and retry later.
	ErrFrameNotReady = errors.New("rollback: frame not ready")

	// ErrPredictionWindow means advancing would require inputs older than the
	// input ledger keeps. The caller waits for validation to catch up.
	ErrPredictionWindow = errors.New("rollback: prediction window exceeded")

	// ErrDesync is wrapped by every *DesyncError.
	ErrDesync = errors.New("rollback: desync")

	// ErrDesynced is returned by every mutating call once a desync was
	// detected. The session cannot be repaired.
	ErrDesynced = errors.New("rollback: session desynced")

	ErrEmptySnapshot = errors.New("rollback: empty snapshot")
)

// DesyncError reports the first player whose checksum differs from the
// authoritative one after replaying to Frame.
type DesyncError struct {
	Frame  netconfig.Frame
	Player netconfig.PlayerNumber
	Local  PhysicsState
	Remote PhysicsState
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("rollback: desync at frame %d: player %d local %04x remote %04x",
		e.Frame, e.Player, uint16(e.Local), uint16(e.Remote))
}

func (e *DesyncError) Unwrap() error {
	return ErrDesync
}
