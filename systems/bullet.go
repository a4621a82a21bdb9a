package systems

import (
	"github.com/automoto/shipduel/components"
	cfg "github.com/automoto/shipduel/config"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netconfig"
)

const bulletMask = components.MaskTransform | components.MaskBody | components.MaskBox | components.MaskBullet

// SpawnBullet creates a bullet owned by player. Inside a rollback step the
// creation is speculative until the frame is validated.
func SpawnBullet(w *components.World, player netconfig.PlayerNumber, position, velocity gamemath.Vec2) components.Entity {
	e := w.Create(bulletMask)
	w.Transforms.Set(e, components.Transform{
		Position: position,
		Scale:    gamemath.One().Scale(cfg.Bullet.Scale),
	})
	w.Bodies.Set(e, components.Body{
		Position: position,
		Velocity: velocity,
		Type:     components.BodyDynamic,
	})
	w.Boxes.Set(e, components.Box{
		Extends:   gamemath.One().Scale(cfg.Bullet.Scale * 0.5),
		IsTrigger: true,
	})
	w.Bullets.Set(e, components.Bullet{
		RemainingTime: cfg.Bullet.Period,
		PlayerNumber:  player,
	})
	return e
}

// DestroyBullet flags a bullet as destroyed. Anything else is left alone.
func DestroyBullet(w *components.World, e components.Entity) {
	if !w.Entities.HasLive(e, components.MaskBullet) {
		return
	}
	w.Destroy(e)
}

func updateBullets(w *components.World) {
	w.EachLive(components.MaskBullet, func(e components.Entity) {
		b := w.Bullets.Get(e)
		b.RemainingTime -= netconfig.FixedDelta
		w.Bullets.Set(e, b)
		if b.RemainingTime < 0 {
			DestroyBullet(w, e)
		}
	})
}
