// Package resource keeps a local, possibly stale copy of one remote
// collection in step with the server. Local state only changes after the
// matching remote call has succeeded.
package resource

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseStale
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseStale:
		return "stale"
	default:
		return "idle"
	}
}

// State is a snapshot. Reason is set only in PhaseStale.
type State[T any] struct {
	Phase  Phase
	Items  []T
	Reason error

	// Mutations confirmed by the server before the current load finished.
	// They are replayed onto whatever the load produces.
	created []T
	deleted []int
}

type EventKind int

const (
	EventLoadStarted EventKind = iota
	EventLoadSucceeded
	EventLoadFailed
	EventCreated
	EventDeleted
)

type Event[T any] struct {
	Kind  EventKind
	Items []T
	Item  T
	ID    int
	Err   error
}

func LoadStarted[T any]() Event[T] {
	return Event[T]{Kind: EventLoadStarted}
}

func LoadSucceeded[T any](items []T) Event[T] {
	return Event[T]{Kind: EventLoadSucceeded, Items: items}
}

func LoadFailed[T any](err error, fallback []T) Event[T] {
	return Event[T]{Kind: EventLoadFailed, Err: err, Items: fallback}
}

func Created[T any](item T) Event[T] {
	return Event[T]{Kind: EventCreated, Item: item}
}

func Deleted[T any](id int) Event[T] {
	return Event[T]{Kind: EventDeleted, ID: id}
}

// Reduce is pure: it never mutates s.Items or e.Items. Created and Deleted
// that land before a load has finished apply to the current list at once and
// are replayed onto the list the load delivers.
func Reduce[T any](s State[T], e Event[T], idOf func(T) int) State[T] {
	switch e.Kind {
	case EventLoadStarted:
		return State[T]{Phase: PhaseLoading, Items: s.Items, created: s.created, deleted: s.deleted}

	case EventLoadSucceeded:
		return State[T]{Phase: PhaseReady, Items: replay(e.Items, s.created, s.deleted, idOf)}

	case EventLoadFailed:
		return State[T]{Phase: PhaseStale, Items: replay(e.Items, s.created, s.deleted, idOf), Reason: e.Err}

	case EventCreated:
		next := State[T]{Phase: s.Phase, Items: s.Items, Reason: s.Reason, created: s.created, deleted: s.deleted}
		if !contains(s.Items, idOf(e.Item), idOf) {
			next.Items = append(clone(s.Items), e.Item)
		}
		if !s.loaded() {
			next.created = append(clone(s.created), e.Item)
		}
		return next

	case EventDeleted:
		next := State[T]{Phase: s.Phase, Items: without(s.Items, e.ID, idOf), Reason: s.Reason, created: s.created, deleted: s.deleted}
		if !s.loaded() {
			next.created = without(s.created, e.ID, idOf)
			next.deleted = append(append([]int(nil), s.deleted...), e.ID)
		}
		return next
	}
	return s
}

// replay applies pending mutations to a freshly loaded list. An item the
// load already returned is not added twice.
func replay[T any](items, created []T, deleted []int, idOf func(T) int) []T {
	out := clone(items)
	for _, id := range deleted {
		out = without(out, id, idOf)
	}
	for _, item := range created {
		if !contains(out, idOf(item), idOf) {
			out = append(out, item)
		}
	}
	return out
}

func without[T any](items []T, id int, idOf func(T) int) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

func contains[T any](items []T, id int, idOf func(T) int) bool {
	for _, item := range items {
		if idOf(item) == id {
			return true
		}
	}
	return false
}

func (s State[T]) loaded() bool {
	return s.Phase == PhaseReady || s.Phase == PhaseStale
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
