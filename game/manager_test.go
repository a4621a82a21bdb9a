package game

import (
	"testing"

	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netconfig"
)

func vec(x, y float32) gamemath.Vec2 {
	return gamemath.Vec2{X: x, Y: y}
}

// setHealth edits the speculative world directly; the next rewind undoes it.
func setHealth(g *Manager, player netconfig.PlayerNumber, health int16) {
	g.Rollback().View(func(w *components.World) {
		w.EachLive(components.MaskPlayerCharacter, func(e components.Entity) {
			pc := w.Players.Get(e)
			if pc.PlayerNumber == player {
				pc.Health = health
				w.Players.Set(e, pc)
			}
		})
	})
}

func TestCheckWinner(t *testing.T) {
	g := NewManager()
	if w := g.CheckWinner(); w != netconfig.InvalidPlayer {
		t.Errorf("empty match winner = %d", w)
	}

	if _, err := g.SpawnPlayer(0, gamemath.Vec2{Y: 1}, 0); err != nil {
		t.Fatalf("spawn 0: %v", err)
	}
	if w := g.CheckWinner(); w != 0 {
		t.Errorf("single ship winner = %d, want 0", w)
	}
	if _, err := g.SpawnPlayer(1, gamemath.Vec2{Y: -1}, 180); err != nil {
		t.Fatalf("spawn 1: %v", err)
	}
	if w := g.CheckWinner(); w != netconfig.InvalidPlayer {
		t.Errorf("two live ships winner = %d", w)
	}

	setHealth(g, 0, 0)
	if w := g.CheckWinner(); w != 1 {
		t.Errorf("winner = %d, want 1", w)
	}
	setHealth(g, 1, 0)
	if w := g.CheckWinner(); w != netconfig.InvalidPlayer {
		t.Errorf("no live ships winner = %d", w)
	}
}

func TestSetPlayerInputsWindow(t *testing.T) {
	g := NewManager()
	if _, err := g.SpawnPlayer(0, gamemath.Vec2{}, 0); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	var window [netconfig.MaxInputs]netconfig.Input
	window[0] = netconfig.InputShoot
	window[1] = netconfig.InputLeft
	window[2] = netconfig.InputUp
	if err := g.SetPlayerInputs(0, 3, window); err != nil {
		t.Fatalf("set inputs: %v", err)
	}

	rb := g.Rollback()
	if got := rb.LastReceivedFrame(0); got != 3 {
		t.Errorf("last received = %d, want 3", got)
	}
	// frame 0 is the validated baseline and is never overwritten
	got := rb.Inputs(0, 3)
	want := [4]netconfig.Input{netconfig.InputShoot, netconfig.InputLeft, netconfig.InputUp, netconfig.InputNone}
	for i, in := range want {
		if got[i] != in {
			t.Errorf("input for frame %d = %v, want %v", 3-i, got[i], in)
		}
	}
}

func TestWinGame(t *testing.T) {
	g := NewManager()
	if g.Winner() != netconfig.InvalidPlayer {
		t.Fatalf("winner before WinGame = %d", g.Winner())
	}
	g.WinGame(1)
	if g.Winner() != 1 {
		t.Errorf("winner = %d, want 1", g.Winner())
	}
}

func TestHealthPerSlot(t *testing.T) {
	g := NewManager()
	if _, err := g.SpawnPlayer(1, gamemath.Vec2{}, 0); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	h := g.Health()
	if h[0] != 0 || h[1] <= 0 {
		t.Errorf("health = %v", h)
	}
}
