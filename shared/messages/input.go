package messages

import "github.com/automoto/shipduel/shared/netconfig"

// PlayerInput is sent by a client every frame and relayed by the server to
// the other clients. Inputs[i] is the input for Frame-i, so a lost packet is
// covered by any later one. Entries before frame 0 are InputNone.
type PlayerInput struct {
	PlayerNumber netconfig.PlayerNumber
	Frame        netconfig.Frame
	Inputs       [netconfig.MaxInputs]netconfig.Input
}
