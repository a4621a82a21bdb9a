package rollback

import (
	"cmp"
	"slices"

	"github.com/automoto/shipduel/shared/netconfig"
)

// Entry is one tentative record tagged with the frame it happened on.
type Entry[T cmp.Ordered] struct {
	Frame netconfig.Frame
	Value T
}

// TentativeLog is a two-phase log: records are appended speculatively, then
// either committed (frame <= validated) or aborted (frame > rewind target).
// Both operations hand records back in (frame, value) order, so the outcome
// never depends on the order the records were appended in.
type TentativeLog[T cmp.Ordered] struct {
	entries []Entry[T]
}

func (l *TentativeLog[T]) Append(value T, frame netconfig.Frame) {
	l.entries = append(l.entries, Entry[T]{Frame: frame, Value: value})
}

// Abort removes and returns every record with a frame after frame.
func (l *TentativeLog[T]) Abort(frame netconfig.Frame) []Entry[T] {
	return l.extract(func(e Entry[T]) bool { return e.Frame > frame })
}

// Commit removes and returns every record with a frame at or before frame.
func (l *TentativeLog[T]) Commit(frame netconfig.Frame) []Entry[T] {
	return l.extract(func(e Entry[T]) bool { return e.Frame <= frame })
}

// Contains reports whether value has a pending record.
func (l *TentativeLog[T]) Contains(value T) bool {
	return slices.ContainsFunc(l.entries, func(e Entry[T]) bool { return e.Value == value })
}

func (l *TentativeLog[T]) Len() int {
	return len(l.entries)
}

// Pending returns a sorted copy of the records still waiting for a decision.
func (l *TentativeLog[T]) Pending() []Entry[T] {
	out := slices.Clone(l.entries)
	sortEntries(out)
	return out
}

func (l *TentativeLog[T]) extract(match func(Entry[T]) bool) []Entry[T] {
	var out []Entry[T]
	kept := l.entries[:0]
	for _, e := range l.entries {
		if match(e) {
			out = append(out, e)
		} else {
			kept = append(kept, e)
		}
	}
	clear(l.entries[len(kept):])
	l.entries = kept
	sortEntries(out)
	return out
}

func sortEntries[T cmp.Ordered](entries []Entry[T]) {
	slices.SortStableFunc(entries, func(a, b Entry[T]) int {
		if c := cmp.Compare(a.Frame, b.Frame); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
}
