package netcomponents

import "github.com/yohamta/donburi"

// NetShipData is the replicated view of a ship.
type NetShipData struct {
	X, Y         float64
	Rotation     float64 // degrees, clockwise
	PlayerNumber uint8
	Health       int
	Invincible   bool
}

var NetShip = donburi.NewComponentType[NetShipData]()

// LerpNetShip interpolates between two ship states
func LerpNetShip(from, to NetShipData, t float64) *NetShipData {
	return &NetShipData{
		X:            from.X + (to.X-from.X)*t,
		Y:            from.Y + (to.Y-from.Y)*t,
		Rotation:     from.Rotation + shortestArc(from.Rotation, to.Rotation)*t,
		PlayerNumber: to.PlayerNumber,
		Health:       to.Health,
		Invincible:   to.Invincible,
	}
}

func shortestArc(from, to float64) float64 {
	d := to - from
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}
