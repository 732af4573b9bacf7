package fdsolver

// EventKind classifies what changed about a Variable's Domain during one
// mutation, per spec.md §3. Events are cumulative within one propagation
// step: a single domain mutation sequence reports the aggregate of
// everything that happened since the variable's demons were last drained,
// not one event per elementary operation.
type EventKind uint8

const (
	// EventBoundTightenedMin fires when Min() increases.
	EventBoundTightenedMin EventKind = 1 << iota
	// EventBoundTightenedMax fires when Max() decreases.
	EventBoundTightenedMax
	// EventValueRemoved fires when an interior value is punched out
	// without moving either bound.
	EventValueRemoved
	// EventBound fires when the domain becomes a singleton.
	EventBound
	// EventDomainChanged is an aggregate event: any change at all,
	// including bound moves and holes. Every other event kind implies
	// this one.
	EventDomainChanged
)

// has reports whether mask includes kind.
func (k EventKind) has(kind EventKind) bool {
	return k&kind != 0
}

// eventMask accumulates the events fired by one mutation sequence so the
// Variable can decide, once, which demon lists to enqueue.
type eventMask struct {
	kind EventKind
}

func (m *eventMask) add(kind EventKind) {
	m.kind |= kind
}

func (m *eventMask) clear() {
	m.kind = 0
}

func (m *eventMask) empty() bool {
	return m.kind == 0
}
