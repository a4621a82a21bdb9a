package rollback

import (
	"github.com/automoto/shipduel/shared/netconfig"
)

// InputLedger keeps the last MaxInputs inputs of every player in a ring
// indexed by frame % MaxInputs. A slot is meaningful only for frames in
// [head-MaxInputs+1, head].
//
// A player with no input for a frame is extrapolated by holding its last
// received input. With a non-zero hold limit, frames further than that from
// the last received one fall back to InputNone.
type InputLedger struct {
	inputs       [netconfig.MaxPlayers][netconfig.MaxInputs]netconfig.Input
	lastReceived [netconfig.MaxPlayers]netconfig.Frame
	head         netconfig.Frame
	holdLimit    netconfig.Frame
}

// NewInputLedger creates an empty ledger. holdLimit 0 holds the last input
// indefinitely.
func NewInputLedger(holdLimit netconfig.Frame) *InputLedger {
	return &InputLedger{holdLimit: holdLimit}
}

// Head is the most recent frame the ledger holds inputs for.
func (l *InputLedger) Head() netconfig.Frame {
	return l.head
}

// Advance moves the head to frame, filling every new slot with each player's
// extrapolated input. Frames at or before the head are ignored.
func (l *InputLedger) Advance(frame netconfig.Frame) {
	if frame <= l.head {
		return
	}
	start := l.head + 1
	if frame-l.head > netconfig.MaxInputs {
		start = frame - netconfig.MaxInputs + 1
	}
	for p := range l.inputs {
		held := l.inputs[p][slot(l.head)]
		for f := start; f <= frame; f++ {
			l.inputs[p][slot(f)] = l.extrapolate(held, l.lastReceived[p], f)
		}
	}
	l.head = frame
}

// SetInput stores input for player at frame. Input older than the window is
// dropped. A future frame advances the head first, overwriting the oldest
// slots. Returns false when nothing was stored.
func (l *InputLedger) SetInput(player netconfig.PlayerNumber, input netconfig.Input, frame netconfig.Frame) bool {
	if int(player) >= netconfig.MaxPlayers {
		return false
	}
	if frame > l.head {
		l.Advance(frame)
	}
	if !l.inWindow(frame) {
		return false
	}

	l.inputs[player][slot(frame)] = input
	if frame > l.lastReceived[player] {
		for f := frame + 1; f <= l.head; f++ {
			l.inputs[player][slot(f)] = l.extrapolate(input, frame, f)
		}
		l.lastReceived[player] = frame
	}
	return true
}

// GetInputAt returns the input of player at frame, false when the frame is
// outside the window.
func (l *InputLedger) GetInputAt(player netconfig.PlayerNumber, frame netconfig.Frame) (netconfig.Input, bool) {
	if int(player) >= netconfig.MaxPlayers || !l.inWindow(frame) {
		return netconfig.InputNone, false
	}
	return l.inputs[player][slot(frame)], true
}

// GetInputs returns the window newest first: index i holds the input for frame
// Head()-i. Indices before frame 0 are InputNone.
func (l *InputLedger) GetInputs(player netconfig.PlayerNumber) [netconfig.MaxInputs]netconfig.Input {
	return l.InputWindow(player, l.head)
}

// InputWindow returns the inputs ending at frame, newest first: index i holds
// the input for frame-i. This is the layout carried by input packets. Frames
// outside the ledger window, or before frame 0, are InputNone.
func (l *InputLedger) InputWindow(player netconfig.PlayerNumber, frame netconfig.Frame) [netconfig.MaxInputs]netconfig.Input {
	var out [netconfig.MaxInputs]netconfig.Input
	if int(player) >= netconfig.MaxPlayers {
		return out
	}
	for i := range out {
		if netconfig.Frame(i) > frame {
			break
		}
		if in, ok := l.GetInputAt(player, frame-netconfig.Frame(i)); ok {
			out[i] = in
		}
	}
	return out
}

// LastReceivedFrame is the newest frame a real input was stored for player.
func (l *InputLedger) LastReceivedFrame(player netconfig.PlayerNumber) netconfig.Frame {
	if int(player) >= netconfig.MaxPlayers {
		return 0
	}
	return l.lastReceived[player]
}

func (l *InputLedger) extrapolate(held netconfig.Input, from, frame netconfig.Frame) netconfig.Input {
	if l.holdLimit > 0 && frame-from > l.holdLimit {
		return netconfig.InputNone
	}
	return held
}

func (l *InputLedger) inWindow(frame netconfig.Frame) bool {
	return frame <= l.head && l.head-frame < netconfig.MaxInputs
}

func slot(frame netconfig.Frame) int {
	return int(frame % netconfig.MaxInputs)
}
