package systems

import (
	"github.com/automoto/shipduel/components"
	cfg "github.com/automoto/shipduel/config"
)

func onTrigger(w *components.World, a, b components.Entity) {
	switch {
	case w.Entities.Has(a, components.MaskPlayerCharacter) && w.Entities.Has(b, components.MaskBullet):
		hitPlayer(w, a, b)
	case w.Entities.Has(b, components.MaskPlayerCharacter) && w.Entities.Has(a, components.MaskBullet):
		hitPlayer(w, b, a)
	}
}

// hitPlayer resolves a bullet reaching a ship. Own bullets pass through. Any
// other bullet is consumed; it only costs health outside the invincibility
// window opened by the previous hit.
func hitPlayer(w *components.World, player, bullet components.Entity) {
	pc := w.Players.Get(player)
	if pc.PlayerNumber == w.Bullets.Get(bullet).PlayerNumber {
		return
	}
	DestroyBullet(w, bullet)
	if pc.InvincibilityTime > 0 {
		return
	}
	pc.Health--
	pc.InvincibilityTime = cfg.Player.InvincibilityPeriod
	w.Players.Set(player, pc)
}
