package components

// LifecycleObserver is told about speculative creations and destructions so
// they can be confirmed or reverted later.
type LifecycleObserver interface {
	EntityCreated(e Entity)
	EntityDestroyed(e Entity)
}

// World is the complete simulation state: entity masks plus one dense store
// per component type.
type World struct {
	Entities *EntityManager

	Transforms Store[Transform]
	Bodies     Store[Body]
	Boxes      Store[Box]
	Players    Store[PlayerCharacter]
	Bullets    Store[Bullet]

	observer LifecycleObserver
}

func NewWorld() *World {
	return &World{Entities: NewEntityManager()}
}

// SetObserver installs the lifecycle observer. A nil observer disables
// recording, which is how permanent entities (players) are spawned.
func (w *World) SetObserver(o LifecycleObserver) {
	w.observer = o
}

// Create allocates an entity with zeroed components and reports it to the
// observer.
func (w *World) Create(mask Mask) Entity {
	e := w.Entities.Create()
	w.resetComponents(e)
	w.Entities.Add(e, mask)
	if w.observer != nil {
		w.observer.EntityCreated(e)
	}
	return e
}

// Destroy flags e as speculatively destroyed. The slot stays allocated until
// the destruction is confirmed, so the handle cannot be reused inside a replay
// window. Destroying a dead or already flagged entity does nothing.
func (w *World) Destroy(e Entity) {
	if !w.Entities.Live(e) {
		return
	}
	w.Entities.Add(e, MaskDestroyed)
	if w.observer != nil {
		w.observer.EntityDestroyed(e)
	}
}

// Remove frees e immediately. Only the lifecycle ledger calls this.
func (w *World) Remove(e Entity) {
	if !w.Entities.Exists(e) {
		return
	}
	w.Entities.Destroy(e)
	w.resetComponents(e)
}

// Restore lifts a speculative destroy flag.
func (w *World) Restore(e Entity) {
	w.Entities.Remove(e, MaskDestroyed)
}

// EachLive calls fn for every live entity carrying mask, in ascending handle
// order.
func (w *World) EachLive(mask Mask, fn func(e Entity)) {
	for i := 0; i < w.Entities.Len(); i++ {
		e := Entity(i)
		if w.Entities.HasLive(e, mask) {
			fn(e)
		}
	}
}

func (w *World) resetComponents(e Entity) {
	w.Transforms.Reset(e)
	w.Bodies.Reset(e)
	w.Boxes.Reset(e)
	w.Players.Reset(e)
	w.Bullets.Reset(e)
}
