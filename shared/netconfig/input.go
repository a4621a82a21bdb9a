package netconfig

import "strings"

// Input is the per-frame bit set of a player's pressed actions.
type Input uint8

const (
	InputNone  Input = 0
	InputUp    Input = 1 << 0
	InputDown  Input = 1 << 1
	InputLeft  Input = 1 << 2
	InputRight Input = 1 << 3
	InputShoot Input = 1 << 4
)

// Has reports whether every bit of flag is set.
func (in Input) Has(flag Input) bool {
	return in&flag == flag
}

var inputNames = [...]struct {
	flag Input
	name string
}{
	{InputUp, "up"},
	{InputDown, "down"},
	{InputLeft, "left"},
	{InputRight, "right"},
	{InputShoot, "shoot"},
}

func (in Input) String() string {
	if in == InputNone {
		return "none"
	}
	var parts []string
	for _, n := range inputNames {
		if in.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
