package messages

import "github.com/automoto/shipduel/shared/netconfig"

// SpawnPlayer is broadcast when a client gets a player slot.
type SpawnPlayer struct {
	ClientID     netconfig.ClientID
	PlayerNumber netconfig.PlayerNumber
	X, Y         float32
	Rotation     float32 // degrees
}

// StartGame is broadcast once every slot is taken. Clients begin simulating
// frame 1 at StartTime (Unix ms).
type StartGame struct {
	StartTime int64
}

// ValidateFrame is broadcast by the server every time it validates a frame,
// with one physics checksum per player slot.
type ValidateFrame struct {
	Frame         netconfig.Frame
	PhysicsStates [netconfig.MaxPlayers]uint16
}

// WinGame is broadcast when exactly one ship has health left.
type WinGame struct {
	Winner netconfig.PlayerNumber
}

// Ping is sent by a client and echoed unchanged by the server.
type Ping struct {
	Time     int64 // client clock, Unix ms
	ClientID netconfig.ClientID
}
