// Package game wires the rollback core to the duel rules and to the match
// flow of the server and of a client. Transport code only ever enqueues
// events here; every state change happens inside Tick.
package game

import (
	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/automoto/shipduel/systems"
)

// Manager is the part of a match shared by server and clients: the rollback
// driver running the duel rules, and the winner once known.
type Manager struct {
	rollback *rollback.Manager
	winner   netconfig.PlayerNumber
}

func NewManager(opts ...rollback.Option) *Manager {
	return &Manager{
		rollback: rollback.NewManager(systems.NewGameplay(), opts...),
		winner:   netconfig.InvalidPlayer,
	}
}

// Rollback exposes the frame driver for read access and validation.
func (g *Manager) Rollback() *rollback.Manager {
	return g.rollback
}

// SpawnPlayer creates the ship of player. Spawning twice is a no-op.
func (g *Manager) SpawnPlayer(player netconfig.PlayerNumber, position gamemath.Vec2, rotation gamemath.Degree) (components.Entity, error) {
	return g.rollback.SpawnPlayer(player, func(w *components.World) components.Entity {
		return systems.SpawnShip(w, player, position, rotation)
	})
}

// SetPlayerInputs stores an input window ending at frame, newest first, as
// carried by input packets.
func (g *Manager) SetPlayerInputs(player netconfig.PlayerNumber, frame netconfig.Frame, inputs [netconfig.MaxInputs]netconfig.Input) error {
	for i, in := range inputs {
		if netconfig.Frame(i) > frame {
			break
		}
		if err := g.rollback.SetPlayerInput(player, in, frame-netconfig.Frame(i)); err != nil {
			return err
		}
	}
	return nil
}

// Validate makes frame the new baseline, simulating up to it first if needed.
func (g *Manager) Validate(frame netconfig.Frame) (rollback.Validation, error) {
	return g.rollback.ValidateFrame(frame)
}

// CheckWinner returns the only ship with health left, or InvalidPlayer while
// zero or several ships are alive.
func (g *Manager) CheckWinner() netconfig.PlayerNumber {
	alive := 0
	winner := netconfig.InvalidPlayer
	g.rollback.EachLive(components.MaskPlayerCharacter, func(w *components.World, e components.Entity) {
		pc := w.Players.Get(e)
		if pc.Health > 0 {
			alive++
			winner = pc.PlayerNumber
		}
	})
	if alive != 1 {
		return netconfig.InvalidPlayer
	}
	return winner
}

func (g *Manager) WinGame(winner netconfig.PlayerNumber) {
	g.winner = winner
}

// Winner is InvalidPlayer until WinGame was called.
func (g *Manager) Winner() netconfig.PlayerNumber {
	return g.winner
}

// Health returns the health of every player slot; empty slots are zero.
func (g *Manager) Health() [netconfig.MaxPlayers]int16 {
	var out [netconfig.MaxPlayers]int16
	for p := range out {
		if pc, ok := g.rollback.PlayerCharacter(netconfig.PlayerNumber(p)); ok {
			out[p] = pc.Health
		}
	}
	return out
}
