package netcomponents

import "github.com/yohamta/donburi"

type NetBulletData struct {
	X, Y         float64
	VelX, VelY   float64 // Client extrapolation between snapshots
	PlayerNumber uint8
}

var NetBullet = donburi.NewComponentType[NetBulletData]()

// LerpNetBullet interpolates between two bullet states
func LerpNetBullet(from, to NetBulletData, t float64) *NetBulletData {
	return &NetBulletData{
		X:            from.X + (to.X-from.X)*t,
		Y:            from.Y + (to.Y-from.Y)*t,
		VelX:         to.VelX,
		VelY:         to.VelY,
		PlayerNumber: to.PlayerNumber,
	}
}
