package components

import "testing"

type recorder struct {
	created   []Entity
	destroyed []Entity
}

func (r *recorder) EntityCreated(e Entity)   { r.created = append(r.created, e) }
func (r *recorder) EntityDestroyed(e Entity) { r.destroyed = append(r.destroyed, e) }

func TestEntityManagerReusesLowestHandle(t *testing.T) {
	m := NewEntityManager()
	a := m.Create()
	b := m.Create()
	c := m.Create()
	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("handles = %d,%d,%d, want 0,1,2", a, b, c)
	}

	m.Destroy(b)
	m.Destroy(a)
	if got := m.Create(); got != 0 {
		t.Errorf("Create after destroy = %d, want 0", got)
	}
	if got := m.Create(); got != 1 {
		t.Errorf("second Create after destroy = %d, want 1", got)
	}
	if m.Count() != 3 {
		t.Errorf("Count = %d, want 3", m.Count())
	}
}

func TestLivenessPredicate(t *testing.T) {
	m := NewEntityManager()
	e := m.Create()
	m.Add(e, MaskBullet)

	if !m.HasLive(e, MaskBullet) {
		t.Fatal("fresh entity should be live")
	}
	m.Add(e, MaskDestroyed)
	if m.Live(e) {
		t.Error("flagged entity must not be live")
	}
	if !m.Exists(e) {
		t.Error("flagged entity must still exist")
	}
	m.Remove(e, MaskDestroyed)
	if !m.Live(e) {
		t.Error("entity should be live after lifting the flag")
	}
	if !m.Has(e, MaskBullet) {
		t.Error("Remove must keep unrelated bits")
	}
	if m.Live(InvalidEntity) {
		t.Error("InvalidEntity must never be live")
	}
}

func TestStoreGrowClearsStaleValues(t *testing.T) {
	var s Store[int]
	s.Set(4, 42)
	var short Store[int]
	short.Set(0, 1)
	s.CopyFrom(&short)
	if s.Len() != 1 {
		t.Fatalf("Len after CopyFrom = %d, want 1", s.Len())
	}
	s.Set(2, 7)
	if got := s.Get(4); got != 0 {
		t.Errorf("Get(4) beyond len = %d, want 0", got)
	}
	s.Set(4, 9)
	if got := s.Get(3); got != 0 {
		t.Errorf("Get(3) = %d, want 0 after regrow", got)
	}
}

func TestStoreCloneIsIndependent(t *testing.T) {
	var s Store[Body]
	s.Set(0, Body{Rotation: 10})
	c := s.Clone()
	s.Set(0, Body{Rotation: 20})
	if c.Get(0).Rotation != 10 {
		t.Errorf("clone changed with source: %v", c.Get(0).Rotation)
	}
}

func TestWorldDestroyIsSpeculative(t *testing.T) {
	w := NewWorld()
	r := &recorder{}
	w.SetObserver(r)

	e := w.Create(MaskBullet | MaskBody)
	w.Bullets.Set(e, Bullet{RemainingTime: 1})
	w.Destroy(e)
	w.Destroy(e)

	if len(r.created) != 1 || len(r.destroyed) != 1 {
		t.Fatalf("observer saw %d creations, %d destructions; want 1, 1", len(r.created), len(r.destroyed))
	}
	if !w.Entities.Exists(e) {
		t.Fatal("speculative destroy must keep the slot")
	}

	var visited []Entity
	w.EachLive(MaskBullet, func(e Entity) { visited = append(visited, e) })
	if len(visited) != 0 {
		t.Errorf("EachLive visited flagged entity %v", visited)
	}

	w.Remove(e)
	if w.Entities.Exists(e) {
		t.Error("Remove must free the slot")
	}
	next := w.Create(MaskBullet)
	if next != e {
		t.Errorf("handle %d not reused, got %d", e, next)
	}
	if w.Bullets.Get(next).RemainingTime != 0 {
		t.Error("reused handle kept stale component data")
	}
}

func TestEachLiveAscendingOrder(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 5; i++ {
		w.Create(MaskBody)
	}
	w.Remove(2)
	var got []Entity
	w.EachLive(MaskBody, func(e Entity) { got = append(got, e) })
	want := []Entity{0, 1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("EachLive = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EachLive = %v, want %v", got, want)
		}
	}
}
