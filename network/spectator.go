package network

import (
	"log"
	"slices"

	"github.com/automoto/shipduel/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// Spectator rebuilds the server's validated match from esync world snapshots.
// It never predicts: ships and bullets are shown as of the last validated
// frame.
type Spectator struct {
	World donburi.World

	presentIDs map[esync.NetworkId]bool
}

func NewSpectator() *Spectator {
	return &Spectator{
		World:      donburi.NewWorld(),
		presentIDs: make(map[esync.NetworkId]bool),
	}
}

// Apply replaces the spectator world with snapshot. Entities missing from the
// snapshot are removed.
func (s *Spectator) Apply(snapshot esync.WorldSnapshot) {
	world := s.World
	clear(s.presentIDs)

	for _, ent := range snapshot {
		s.presentIDs[ent.Id] = true

		var compData []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				log.Printf("[spectator] entity %d: %v", ent.Id, err)
				continue
			}
			compData = append(compData, instance)
		}

		entity := esync.FindByNetworkId(world, ent.Id)
		if !world.Valid(entity) {
			entity = world.Create(componentTypesFromInstances(compData)...)
			entry := world.Entry(entity)
			entry.AddComponent(esync.NetworkIdComponent)
			esync.NetworkIdComponent.SetValue(entry, ent.Id)
		}

		entry := world.Entry(entity)
		for _, data := range compData {
			applyComponentToEntry(entry, data)
		}
	}

	esync.NetworkEntityQuery.Each(world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		if !s.presentIDs[*id] {
			entry.Remove()
		}
	})
}

// Match returns the replicated match summary, false before the first snapshot.
func (s *Spectator) Match() (netcomponents.NetMatchData, bool) {
	entry, ok := netcomponents.NetMatch.First(s.World)
	if !ok {
		return netcomponents.NetMatchData{}, false
	}
	return *netcomponents.NetMatch.Get(entry), true
}

// Ships returns every replicated ship ordered by player number.
func (s *Spectator) Ships() []netcomponents.NetShipData {
	var ships []netcomponents.NetShipData
	netcomponents.NetShip.Each(s.World, func(entry *donburi.Entry) {
		ships = append(ships, *netcomponents.NetShip.Get(entry))
	})
	slices.SortFunc(ships, func(a, b netcomponents.NetShipData) int {
		return int(a.PlayerNumber) - int(b.PlayerNumber)
	})
	return ships
}

func (s *Spectator) Bullets() []netcomponents.NetBulletData {
	var bullets []netcomponents.NetBulletData
	netcomponents.NetBullet.Each(s.World, func(entry *donburi.Entry) {
		bullets = append(bullets, *netcomponents.NetBullet.Get(entry))
	})
	return bullets
}

func componentTypesFromInstances(components []any) []donburi.IComponentType {
	var ctypes []donburi.IComponentType
	for _, data := range components {
		switch data.(type) {
		case netcomponents.NetShipData:
			ctypes = append(ctypes, netcomponents.NetShip)
		case netcomponents.NetBulletData:
			ctypes = append(ctypes, netcomponents.NetBullet)
		case netcomponents.NetMatchData:
			ctypes = append(ctypes, netcomponents.NetMatch)
		}
	}
	return ctypes
}

func applyComponentToEntry(entry *donburi.Entry, data any) {
	switch v := data.(type) {
	case netcomponents.NetShipData:
		if !entry.HasComponent(netcomponents.NetShip) {
			entry.AddComponent(netcomponents.NetShip)
		}
		netcomponents.NetShip.SetValue(entry, v)
	case netcomponents.NetBulletData:
		if !entry.HasComponent(netcomponents.NetBullet) {
			entry.AddComponent(netcomponents.NetBullet)
		}
		netcomponents.NetBullet.SetValue(entry, v)
	case netcomponents.NetMatchData:
		if !entry.HasComponent(netcomponents.NetMatch) {
			entry.AddComponent(netcomponents.NetMatch)
		}
		netcomponents.NetMatch.SetValue(entry, v)
	}
}
