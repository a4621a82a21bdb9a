package systems

import (
	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/solarlune/resolv"
)

// Gameplay is the fixed-step simulation of a duel. Every step runs the same
// ordered list of updates over the world; each update walks entities in
// ascending handle order, so two peers with the same world and inputs end in
// the same state.
//
// A Gameplay keeps a scratch broad-phase space between steps. It is emptied at
// the end of every step and must not be shared between worlds.
type Gameplay struct {
	space *resolv.Space
	steps []func(w *components.World, inputs [netconfig.MaxPlayers]netconfig.Input)
}

func NewGameplay() *Gameplay {
	g := &Gameplay{space: newArenaSpace()}
	g.steps = []func(*components.World, [netconfig.MaxPlayers]netconfig.Input){
		applyInputs,
		func(w *components.World, _ [netconfig.MaxPlayers]netconfig.Input) { updatePlayers(w) },
		func(w *components.World, _ [netconfig.MaxPlayers]netconfig.Input) { updateBullets(w) },
		func(w *components.World, _ [netconfig.MaxPlayers]netconfig.Input) { g.updatePhysics(w) },
		func(w *components.World, _ [netconfig.MaxPlayers]netconfig.Input) { syncTransforms(w) },
	}
	return g
}

// FixedUpdate advances w by one fixed period.
func (g *Gameplay) FixedUpdate(w *components.World, inputs [netconfig.MaxPlayers]netconfig.Input) {
	for _, step := range g.steps {
		step(w, inputs)
	}
}

func syncTransforms(w *components.World) {
	w.EachLive(components.MaskTransform|components.MaskBody, func(e components.Entity) {
		body := w.Bodies.Get(e)
		t := w.Transforms.Get(e)
		t.Position = body.Position
		t.Rotation = body.Rotation
		w.Transforms.Set(e, t)
	})
}
