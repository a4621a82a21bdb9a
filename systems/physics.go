package systems

import (
	"cmp"
	"slices"

	"github.com/automoto/shipduel/components"
	cfg "github.com/automoto/shipduel/config"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/automoto/shipduel/tags"
	"github.com/solarlune/resolv"
)

// contact is an overlapping collider pair with a < b.
type contact struct {
	a, b components.Entity
}

func newArenaSpace() *resolv.Space {
	w := int(cfg.Arena.Width * netconfig.PixelPerUnit)
	h := int(cfg.Arena.Height * netconfig.PixelPerUnit)
	return resolv.NewSpace(w, h, cfg.Arena.CellPixel, cfg.Arena.CellPixel)
}

func (g *Gameplay) updatePhysics(w *components.World) {
	integrateBodies(w)
	for _, c := range g.contacts(w) {
		// An earlier contact this step may have destroyed one side.
		if !w.Entities.HasLive(c.a, components.MaskBox) || !w.Entities.HasLive(c.b, components.MaskBox) {
			continue
		}
		if w.Boxes.Get(c.a).IsTrigger || w.Boxes.Get(c.b).IsTrigger {
			onTrigger(w, c.a, c.b)
		}
	}
}

func integrateBodies(w *components.World) {
	dt := netconfig.FixedDelta
	w.EachLive(components.MaskBody, func(e components.Entity) {
		body := w.Bodies.Get(e)
		if body.Type == components.BodyStatic {
			return
		}
		body.Position = gamemath.Integrate(body.Position, body.Velocity, dt)
		body.Rotation = gamemath.IntegrateAngle(body.Rotation, body.AngularVelocity, dt)
		w.Bodies.Set(e, body)
	})
}

// contacts returns every overlapping pair of live colliders sorted by handle.
// The resolv space only narrows the candidates; the exact AABB test decides.
func (g *Gameplay) contacts(w *components.World) []contact {
	var objects []*resolv.Object
	w.EachLive(components.MaskBody|components.MaskBox, func(e components.Entity) {
		x, y, bw, bh := broadRect(w.Bodies.Get(e).Position, w.Boxes.Get(e).Extends)
		obj := resolv.NewObject(x, y, bw, bh, colliderTags(w, e)...)
		obj.SetShape(resolv.NewRectangle(0, 0, bw, bh))
		obj.Data = e
		g.space.Add(obj)
		objects = append(objects, obj)
	})
	defer g.space.Remove(objects...)

	var out []contact
	for _, obj := range objects {
		a := obj.Data.(components.Entity)
		check := obj.Check(0, 0, tags.ResolvBox)
		if check == nil {
			continue
		}
		for _, other := range check.ObjectsByTags(tags.ResolvBox) {
			b, ok := other.Data.(components.Entity)
			if !ok || b <= a {
				continue
			}
			if overlapping(w, a, b) {
				out = append(out, contact{a: a, b: b})
			}
		}
	}

	slices.SortFunc(out, func(x, y contact) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})
	return slices.Compact(out)
}

func colliderTags(w *components.World, e components.Entity) []string {
	out := []string{tags.ResolvBox}
	switch {
	case w.Entities.Has(e, components.MaskPlayerCharacter):
		out = append(out, tags.ResolvShip)
	case w.Entities.Has(e, components.MaskBullet):
		out = append(out, tags.ResolvBullet)
	}
	if w.Boxes.Get(e).IsTrigger {
		out = append(out, tags.ResolvTrigger)
	}
	return out
}

func overlapping(w *components.World, a, b components.Entity) bool {
	return gamemath.Overlaps(
		w.Bodies.Get(a).Position, w.Boxes.Get(a).Extends,
		w.Bodies.Get(b).Position, w.Boxes.Get(b).Extends,
	)
}

// broadRect converts a collider to space pixels, clamped inside the arena.
func broadRect(center, extends gamemath.Vec2) (x, y, w, h float64) {
	const ppu = netconfig.PixelPerUnit
	arenaW := float64(cfg.Arena.Width) * ppu
	arenaH := float64(cfg.Arena.Height) * ppu

	w = max(float64(2*extends.X)*ppu, 1)
	h = max(float64(2*extends.Y)*ppu, 1)
	x = (float64(center.X-extends.X) + float64(cfg.Arena.Width)/2) * ppu
	y = (float64(center.Y-extends.Y) + float64(cfg.Arena.Height)/2) * ppu

	x = min(max(x, 0), max(arenaW-w, 0))
	y = min(max(y, 0), max(arenaH-h, 0))
	return x, y, w, h
}
