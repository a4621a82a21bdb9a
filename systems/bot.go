package systems

import (
	"math"
	"math/rand/v2"

	"github.com/automoto/shipduel/components"
	cfg "github.com/automoto/shipduel/config"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netconfig"
)

// BotState is the current decision of a bot.
type BotState int

const (
	BotStateIdle BotState = iota
	BotStateChase
	BotStateAttack
)

// Bot produces inputs for one ship. It replaces device polling in the
// headless client: its output is sent like any player's input, so the bot
// itself does not have to be deterministic across peers.
type Bot struct {
	Player netconfig.PlayerNumber
	State  BotState

	difficulty    cfg.BotDifficultyConfig
	rng           *rand.Rand
	decisionTimer int
	wander        netconfig.Input
}

// NewBot creates a bot for player. The same seed replays the same wandering.
func NewBot(player netconfig.PlayerNumber, difficulty cfg.BotDifficulty, seed uint64) *Bot {
	d, ok := cfg.Bot.Difficulties[difficulty]
	if !ok {
		d = cfg.Bot.Difficulties[cfg.BotDifficultyNormal]
	}
	return &Bot{
		Player:     player,
		difficulty: d,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Input decides the input for the next frame from the current world.
func (b *Bot) Input(w *components.World) netconfig.Input {
	self, ok := findShip(w, b.Player)
	if !ok {
		return netconfig.InputNone
	}
	selfBody := w.Bodies.Get(self)
	target, hasTarget := findNearestTarget(w, b.Player, selfBody.Position)

	if b.decisionTimer > 0 {
		b.decisionTimer--
	} else {
		b.updateState(w, selfBody, target, hasTarget)
		b.decisionTimer = b.difficulty.ReactionDelay
	}

	switch b.State {
	case BotStateChase, BotStateAttack:
		if !hasTarget {
			return netconfig.InputNone
		}
		return b.pursue(selfBody, w.Bodies.Get(target))
	default:
		return b.wander
	}
}

func (b *Bot) updateState(w *components.World, self components.Body, target components.Entity, hasTarget bool) {
	if !hasTarget {
		b.State = BotStateIdle
		b.wander = netconfig.InputNone
		switch b.rng.IntN(3) {
		case 0:
			b.wander |= netconfig.InputLeft
		case 1:
			b.wander |= netconfig.InputRight
		}
		if b.rng.IntN(100) < b.difficulty.WanderThrustPct {
			b.wander |= netconfig.InputUp
		}
		return
	}

	dist := w.Bodies.Get(target).Position.Sub(self.Position).Magnitude()
	if dist < b.difficulty.ChaseRange {
		b.State = BotStateAttack
		return
	}
	b.State = BotStateChase
}

// pursue turns toward the target, thrusts while far away and shoots once the
// heading error is inside the aim tolerance.
func (b *Bot) pursue(self, target components.Body) netconfig.Input {
	var in netconfig.Input
	to := target.Position.Sub(self.Position)
	if to.Magnitude() == 0 {
		return netconfig.InputShoot
	}

	heading := Heading(self.Rotation)
	errDeg := headingError(heading, to)
	switch {
	case errDeg > float64(b.difficulty.AimTolerance):
		in |= netconfig.InputRight
	case errDeg < -float64(b.difficulty.AimTolerance):
		in |= netconfig.InputLeft
	default:
		in |= netconfig.InputShoot
	}

	if b.State == BotStateChase {
		in |= netconfig.InputUp
	} else if self.Velocity.Dot(heading) > 0 && self.Velocity.Magnitude() > cfg.Player.Speed {
		in |= netconfig.InputDown
	}
	return in
}

// headingError is the clockwise angle in degrees from heading to the
// direction to, in (-180, 180].
func headingError(heading, to gamemath.Vec2) float64 {
	cross := float64(heading.X*to.Y - heading.Y*to.X)
	dot := float64(heading.Dot(to))
	// Clockwise is positive, the opposite of the math convention.
	return -math.Atan2(cross, dot) * 180 / math.Pi
}

func findShip(w *components.World, player netconfig.PlayerNumber) (components.Entity, bool) {
	found := components.InvalidEntity
	w.EachLive(components.MaskPlayerCharacter|components.MaskBody, func(e components.Entity) {
		if found == components.InvalidEntity && w.Players.Get(e).PlayerNumber == player {
			found = e
		}
	})
	return found, found != components.InvalidEntity
}

func findNearestTarget(w *components.World, self netconfig.PlayerNumber, from gamemath.Vec2) (components.Entity, bool) {
	nearest := components.InvalidEntity
	nearestDist := float32(math.MaxFloat32)
	w.EachLive(components.MaskPlayerCharacter|components.MaskBody, func(e components.Entity) {
		pc := w.Players.Get(e)
		if pc.PlayerNumber == self || pc.Health <= 0 {
			return
		}
		dist := w.Bodies.Get(e).Position.Sub(from).Magnitude()
		if dist < nearestDist {
			nearestDist = dist
			nearest = e
		}
	})
	return nearest, nearest != components.InvalidEntity
}
