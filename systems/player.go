package systems

import (
	"github.com/automoto/shipduel/components"
	cfg "github.com/automoto/shipduel/config"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netconfig"
)

const shipMask = components.MaskTransform | components.MaskBody | components.MaskBox | components.MaskPlayerCharacter

// SpawnShip creates the ship of player at the given spawn transform.
func SpawnShip(w *components.World, player netconfig.PlayerNumber, position gamemath.Vec2, rotation gamemath.Degree) components.Entity {
	e := w.Create(shipMask)
	w.Transforms.Set(e, components.Transform{
		Position: position,
		Scale:    gamemath.One(),
		Rotation: rotation,
	})
	w.Bodies.Set(e, components.Body{
		Position: position,
		Rotation: rotation,
		Type:     components.BodyDynamic,
	})
	w.Boxes.Set(e, components.Box{Extends: cfg.Player.BoxExtends})
	w.Players.Set(e, components.PlayerCharacter{
		PlayerNumber: player,
		Health:       cfg.Player.Health,
		// A fresh ship can shoot on its first frame.
		ShootingTime: cfg.Player.ShootingPeriod,
	})
	return e
}

// SpawnTransform returns the spawn position and rotation of a player slot.
func SpawnTransform(player netconfig.PlayerNumber) (gamemath.Vec2, gamemath.Degree) {
	i := int(player) % len(cfg.Spawn.Positions)
	return cfg.Spawn.Positions[i], cfg.Spawn.Rotations[i]
}

func applyInputs(w *components.World, inputs [netconfig.MaxPlayers]netconfig.Input) {
	w.EachLive(components.MaskPlayerCharacter, func(e components.Entity) {
		pc := w.Players.Get(e)
		if int(pc.PlayerNumber) >= netconfig.MaxPlayers {
			return
		}
		pc.Input = inputs[pc.PlayerNumber]
		w.Players.Set(e, pc)
	})
}

// Heading is the unit vector a ship with the given rotation points to.
// Rotation grows clockwise.
func Heading(rotation gamemath.Degree) gamemath.Vec2 {
	return gamemath.Up().Rotate(-rotation)
}

func axis(in netconfig.Input, positive, negative netconfig.Input) float32 {
	var v float32
	if in.Has(positive) {
		v++
	}
	if in.Has(negative) {
		v--
	}
	return v
}

func updatePlayers(w *components.World) {
	dt := netconfig.FixedDelta
	w.EachLive(components.MaskPlayerCharacter|components.MaskBody, func(e components.Entity) {
		pc := w.Players.Get(e)
		body := w.Bodies.Get(e)

		body.AngularVelocity = gamemath.Degree(axis(pc.Input, netconfig.InputRight, netconfig.InputLeft)) * cfg.Player.AngularSpeed
		dir := Heading(body.Rotation + body.AngularVelocity*gamemath.Degree(dt))
		thrust := axis(pc.Input, netconfig.InputUp, netconfig.InputDown) * cfg.Player.Speed
		body.Velocity = body.Velocity.Add(dir.Scale(thrust * dt))
		w.Bodies.Set(e, body)

		if pc.InvincibilityTime > 0 {
			pc.InvincibilityTime -= dt
		}
		if pc.ShootingTime < cfg.Player.ShootingPeriod {
			pc.ShootingTime += dt
		}
		if pc.ShootingTime >= cfg.Player.ShootingPeriod && pc.Input.Has(netconfig.InputShoot) {
			var carried float32
			if body.Velocity.Dot(dir) > 0 {
				carried = body.Velocity.Magnitude()
			}
			velocity := dir.Scale(carried + cfg.Bullet.Speed)
			position := body.Position.
				Add(dir.Scale(cfg.Bullet.SpawnAhead)).
				Add(body.Velocity.Scale(dt))
			SpawnBullet(w, pc.PlayerNumber, position, velocity)
			pc.ShootingTime = 0
		}
		w.Players.Set(e, pc)
	})
}
