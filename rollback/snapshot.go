package rollback

import (
	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/netconfig"
)

// Snapshot is an immutable copy of the entity masks and every component
// store. Its slices are never written after Capture; Restore copies out of
// them.
type Snapshot struct {
	frame netconfig.Frame
	valid bool

	entities   components.EntityManager
	transforms components.Store[components.Transform]
	bodies     components.Store[components.Body]
	boxes      components.Store[components.Box]
	players    components.Store[components.PlayerCharacter]
	bullets    components.Store[components.Bullet]
}

// Capture copies all component state of w, tagged with frame.
func Capture(w *components.World, frame netconfig.Frame) Snapshot {
	return Snapshot{
		frame:      frame,
		valid:      true,
		entities:   w.Entities.Clone(),
		transforms: w.Transforms.Clone(),
		bodies:     w.Bodies.Clone(),
		boxes:      w.Boxes.Clone(),
		players:    w.Players.Clone(),
		bullets:    w.Bullets.Clone(),
	}
}

// Frame is the frame the snapshot was captured at.
func (s *Snapshot) Frame() netconfig.Frame {
	return s.frame
}

// Restore replaces the entity masks and every component store of w, so
// entities created after Capture are gone and destroy flags set after it are
// lifted. A zero Snapshot is rejected before anything is touched.
func (s *Snapshot) Restore(w *components.World) error {
	if !s.valid {
		return ErrEmptySnapshot
	}
	w.Entities.CopyFrom(&s.entities)
	w.Transforms.CopyFrom(&s.transforms)
	w.Bodies.CopyFrom(&s.bodies)
	w.Boxes.CopyFrom(&s.boxes)
	w.Players.CopyFrom(&s.players)
	w.Bullets.CopyFrom(&s.bullets)
	return nil
}
