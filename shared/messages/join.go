package messages

import "github.com/automoto/shipduel/shared/netconfig"

// JoinRequest is sent by a client after connecting to request a player slot.
type JoinRequest struct {
	ClientID netconfig.ClientID
	Version  string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	ClientID     netconfig.ClientID
	PlayerNumber netconfig.PlayerNumber
	ServerName   string
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
