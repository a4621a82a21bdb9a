package netcomponents

import (
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/yohamta/donburi"
)

// NetMatchData is the single replicated match entity: the last validated
// frame with its checksums and the winner once known.
type NetMatchData struct {
	Frame     uint32
	Checksums [netconfig.MaxPlayers]uint16
	Winner    uint8 // netconfig.InvalidPlayer until the match ends
	Players   int
}

var NetMatch = donburi.NewComponentType[NetMatchData]()
