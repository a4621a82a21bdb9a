package systems

import (
	"errors"

	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/netcomponents"
	"github.com/automoto/shipduel/tags"
	"github.com/yohamta/donburi"
)

// Mirror copies the simulation world into a donburi world made of the
// replicated net components. The server syncs the mirror to spectators; the
// rollback world itself never leaves the process.
type Mirror struct {
	World donburi.World

	// OnCreate is called for every donburi entity the mirror creates, with
	// the net component it carries. The server uses it to start syncing.
	OnCreate func(entity *donburi.Entity, component donburi.IComponentType) error

	ships    map[components.Entity]donburi.Entity
	bullets  map[components.Entity]donburi.Entity
	match    donburi.Entity
	hasMatch bool
}

func NewMirror(world donburi.World) *Mirror {
	return &Mirror{
		World:   world,
		ships:   make(map[components.Entity]donburi.Entity),
		bullets: make(map[components.Entity]donburi.Entity),
	}
}

// Sync makes the donburi world reflect src and match. Mirrored entities whose
// source is gone are removed.
func (m *Mirror) Sync(src *components.World, match netcomponents.NetMatchData) error {
	var errs []error

	seenShips := make(map[components.Entity]bool)
	src.EachLive(components.MaskPlayerCharacter|components.MaskBody, func(e components.Entity) {
		seenShips[e] = true
		id, err := m.ensure(m.ships, e, netcomponents.NetShip, tags.Ship)
		if err != nil {
			errs = append(errs, err)
		}
		body := src.Bodies.Get(e)
		pc := src.Players.Get(e)
		netcomponents.NetShip.SetValue(m.World.Entry(id), netcomponents.NetShipData{
			X:            float64(body.Position.X),
			Y:            float64(body.Position.Y),
			Rotation:     float64(body.Rotation),
			PlayerNumber: uint8(pc.PlayerNumber),
			Health:       int(pc.Health),
			Invincible:   pc.InvincibilityTime > 0,
		})
	})

	seenBullets := make(map[components.Entity]bool)
	src.EachLive(components.MaskBullet|components.MaskBody, func(e components.Entity) {
		seenBullets[e] = true
		id, err := m.ensure(m.bullets, e, netcomponents.NetBullet, tags.Bullet)
		if err != nil {
			errs = append(errs, err)
		}
		body := src.Bodies.Get(e)
		netcomponents.NetBullet.SetValue(m.World.Entry(id), netcomponents.NetBulletData{
			X:            float64(body.Position.X),
			Y:            float64(body.Position.Y),
			VelX:         float64(body.Velocity.X),
			VelY:         float64(body.Velocity.Y),
			PlayerNumber: uint8(src.Bullets.Get(e).PlayerNumber),
		})
	})

	m.prune(m.ships, seenShips)
	m.prune(m.bullets, seenBullets)

	if !m.hasMatch {
		m.match = m.World.Create(tags.Match, netcomponents.NetMatch)
		m.hasMatch = true
		if err := m.created(&m.match, netcomponents.NetMatch); err != nil {
			errs = append(errs, err)
		}
	}
	netcomponents.NetMatch.SetValue(m.World.Entry(m.match), match)

	return errors.Join(errs...)
}

// Len returns the number of mirrored ships and bullets.
func (m *Mirror) Len() (ships, bullets int) {
	return len(m.ships), len(m.bullets)
}

func (m *Mirror) ensure(set map[components.Entity]donburi.Entity, e components.Entity, c, tag donburi.IComponentType) (donburi.Entity, error) {
	if id, ok := set[e]; ok && m.World.Valid(id) {
		return id, nil
	}
	id := m.World.Create(tag, c)
	err := m.created(&id, c)
	set[e] = id
	return id, err
}

func (m *Mirror) created(id *donburi.Entity, c donburi.IComponentType) error {
	if m.OnCreate == nil {
		return nil
	}
	return m.OnCreate(id, c)
}

func (m *Mirror) prune(set map[components.Entity]donburi.Entity, seen map[components.Entity]bool) {
	for e, id := range set {
		if seen[e] {
			continue
		}
		if m.World.Valid(id) {
			m.World.Remove(id)
		}
		delete(set, e)
	}
}
