package tags

import "github.com/yohamta/donburi"

// Mirror entity tags
var (
	Ship   = donburi.NewTag().SetName("Ship")
	Bullet = donburi.NewTag().SetName("Bullet")
	Match  = donburi.NewTag().SetName("Match")
)

// Resolv tags for the collision broad phase
const (
	ResolvBox     = "box"
	ResolvShip    = "ship"
	ResolvBullet  = "bullet"
	ResolvTrigger = "trigger"
)
