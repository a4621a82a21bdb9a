package protocol

import (
	"github.com/automoto/shipduel/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetShip   uint = 10
	SyncIDNetBullet uint = 11
	SyncIDNetMatch  uint = 12
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetShip   uint8 = 10
	InterpIDNetBullet uint8 = 11
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetShip,
		netcomponents.NetShipData{},
		netcomponents.NetShip,
		esync.WithInterpFn(InterpIDNetShip, netcomponents.LerpNetShip),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetBullet,
		netcomponents.NetBulletData{},
		netcomponents.NetBullet,
		esync.WithInterpFn(InterpIDNetBullet, netcomponents.LerpNetBullet),
	); err != nil {
		return err
	}

	// Match: no interpolation (discrete state)
	if err := esync.RegisterComponent(
		SyncIDNetMatch,
		netcomponents.NetMatchData{},
		netcomponents.NetMatch,
	); err != nil {
		return err
	}

	return nil
}
