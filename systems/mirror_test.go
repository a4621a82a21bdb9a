package systems

import (
	"testing"

	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netcomponents"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/automoto/shipduel/tags"
	"github.com/yohamta/donburi"
)

func countComponent(world donburi.World, c interface {
	Each(donburi.World, func(*donburi.Entry))
}) int {
	n := 0
	c.Each(world, func(*donburi.Entry) { n++ })
	return n
}

func TestMirrorSync(t *testing.T) {
	src := components.NewWorld()
	SpawnShip(src, 0, gamemath.Vec2{X: 1, Y: 2}, 90)
	SpawnShip(src, 1, gamemath.Vec2{Y: -1}, 180)
	bullet := SpawnBullet(src, 0, gamemath.Vec2{}, gamemath.Vec2{Y: 2})

	m := NewMirror(donburi.NewWorld())
	created := 0
	m.OnCreate = func(*donburi.Entity, donburi.IComponentType) error {
		created++
		return nil
	}

	match := netcomponents.NetMatchData{Frame: 7, Winner: uint8(netconfig.InvalidPlayer), Players: 2}
	if err := m.Sync(src, match); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := countComponent(m.World, netcomponents.NetShip); got != 2 {
		t.Errorf("ships = %d, want 2", got)
	}
	if got := countComponent(m.World, netcomponents.NetBullet); got != 1 {
		t.Errorf("bullets = %d, want 1", got)
	}
	if got := countComponent(m.World, tags.Ship); got != 2 {
		t.Errorf("ship tags = %d, want 2", got)
	}
	if created != 4 {
		t.Errorf("OnCreate called %d times, want 4", created)
	}

	found := false
	netcomponents.NetShip.Each(m.World, func(entry *donburi.Entry) {
		s := netcomponents.NetShip.Get(entry)
		if s.PlayerNumber == 0 {
			found = true
			if s.X != 1 || s.Y != 2 || s.Rotation != 90 || s.Health != 5 {
				t.Errorf("player 0 mirrored as %+v", *s)
			}
		}
	})
	if !found {
		t.Error("player 0 not mirrored")
	}

	src.Destroy(bullet)
	match.Frame = 8
	if err := m.Sync(src, match); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if got := countComponent(m.World, netcomponents.NetBullet); got != 0 {
		t.Errorf("destroyed bullet still mirrored (%d)", got)
	}
	if created != 4 {
		t.Errorf("second Sync created entities: %d calls", created)
	}
	entry, ok := netcomponents.NetMatch.First(m.World)
	if !ok {
		t.Fatal("no match entity")
	}
	if got := netcomponents.NetMatch.Get(entry).Frame; got != 8 {
		t.Errorf("match frame = %d, want 8", got)
	}
}

func TestLerpNetShipTakesShortestArc(t *testing.T) {
	got := netcomponents.LerpNetShip(
		netcomponents.NetShipData{Rotation: 170},
		netcomponents.NetShipData{Rotation: -170},
		0.5,
	)
	if got.Rotation != 180 {
		t.Errorf("rotation = %v, want 180", got.Rotation)
	}
}
