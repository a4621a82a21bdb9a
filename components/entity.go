package components

import "math"

// Entity is an index into the dense component stores.
type Entity uint32

// InvalidEntity is never handed out by an EntityManager.
const InvalidEntity Entity = math.MaxUint32

// Mask is the set of component types attached to an entity.
type Mask uint32

const (
	MaskEmpty Mask = 0

	// MaskExists is set on every allocated entity; a zero mask marks a free slot.
	MaskExists Mask = 1 << iota
	MaskTransform
	MaskBody
	MaskBox
	MaskPlayerCharacter
	MaskBullet

	// MaskDestroyed tags an entity whose destruction is still speculative.
	MaskDestroyed
)

// EntityManager allocates entity handles and tracks their component masks.
// Handles are reused lowest-first so two peers that create and destroy the
// same entities in the same order hand out the same handles.
type EntityManager struct {
	masks []Mask
}

func NewEntityManager() *EntityManager {
	return &EntityManager{}
}

// Create returns the lowest free handle.
func (m *EntityManager) Create() Entity {
	for i, mask := range m.masks {
		if mask == MaskEmpty {
			m.masks[i] = MaskExists
			return Entity(i)
		}
	}
	m.masks = append(m.masks, MaskExists)
	return Entity(len(m.masks) - 1)
}

// Destroy frees the handle. Destroying a free or unknown handle is a no-op.
func (m *EntityManager) Destroy(e Entity) {
	if int(e) < len(m.masks) {
		m.masks[e] = MaskEmpty
	}
}

// Exists reports whether e is allocated.
func (m *EntityManager) Exists(e Entity) bool {
	return int(e) < len(m.masks) && m.masks[e]&MaskExists != 0
}

// Live is the liveness predicate used by every per-frame update: the entity
// exists and is not flagged as speculatively destroyed.
func (m *EntityManager) Live(e Entity) bool {
	return m.Exists(e) && m.masks[e]&MaskDestroyed == 0
}

// Has reports whether e exists and carries every bit in mask.
func (m *EntityManager) Has(e Entity, mask Mask) bool {
	return m.Exists(e) && m.masks[e]&mask == mask
}

// HasLive is Has combined with the liveness predicate.
func (m *EntityManager) HasLive(e Entity, mask Mask) bool {
	return m.Live(e) && m.masks[e]&mask == mask
}

func (m *EntityManager) Add(e Entity, mask Mask) {
	if m.Exists(e) {
		m.masks[e] |= mask
	}
}

func (m *EntityManager) Remove(e Entity, mask Mask) {
	if m.Exists(e) {
		m.masks[e] &^= mask &^ MaskExists
	}
}

// Len is the number of slots, allocated or not. Iterating 0..Len visits
// entities in ascending handle order.
func (m *EntityManager) Len() int {
	return len(m.masks)
}

// Clone returns an independent copy of the handle table.
func (m *EntityManager) Clone() EntityManager {
	return EntityManager{masks: append([]Mask(nil), m.masks...)}
}

// CopyFrom replaces every mask of m with a copy of other's.
func (m *EntityManager) CopyFrom(other *EntityManager) {
	m.masks = append(m.masks[:0], other.masks...)
}

// Count returns the number of allocated entities.
func (m *EntityManager) Count() int {
	n := 0
	for _, mask := range m.masks {
		if mask != MaskEmpty {
			n++
		}
	}
	return n
}
