package page

import "strings"

// Event is a DOM-style event. Pointer events carry page coordinates.
type Event struct {
	Type   string
	PageX  float64
	PageY  float64
	Button int

	// Target is where the event was first dispatched. Dispatch fills it in
	// when the caller leaves it nil.
	Target *Target

	// CurrentTarget is the target whose listeners are running.
	CurrentTarget *Target

	stopped bool
}

// StopPropagation keeps the event from bubbling past the current target.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Handler receives dispatched events.
type Handler func(*Event)

type listener struct {
	fn      Handler
	removed bool
}

// Target holds event listeners keyed by event type. The zero value is
// ready to use.
type Target struct {
	name      string
	listeners map[string][]*listener
}

// NewTarget returns a target for something that is not part of a document,
// such as a standalone drawing surface.
func NewTarget(name string) *Target {
	return &Target{name: name}
}

func (t *Target) String() string {
	return t.name
}

// AddEventListener registers fn for every space separated type in types.
// The returned subscription removes all of those registrations.
func (t *Target) AddEventListener(types string, fn Handler) *Subscription {
	if t.listeners == nil {
		t.listeners = make(map[string][]*listener)
	}
	sub := &Subscription{target: t}
	for _, typ := range strings.Fields(types) {
		l := &listener{fn: fn}
		t.listeners[typ] = append(t.listeners[typ], l)
		sub.entries = append(sub.entries, subscriptionEntry{typ: typ, l: l})
	}
	return sub
}

// Dispatch runs the listeners registered for ev.Type in registration order.
// Listeners added while dispatching wait for the next event; listeners
// removed while dispatching do not run.
func (t *Target) Dispatch(ev *Event) {
	if ev.Target == nil {
		ev.Target = t
	}
	ev.CurrentTarget = t
	snapshot := append([]*listener(nil), t.listeners[ev.Type]...)
	for _, l := range snapshot {
		if !l.removed {
			l.fn(ev)
		}
	}
}

// ListenerCount returns the number of live listeners for typ.
func (t *Target) ListenerCount(typ string) int {
	return len(t.listeners[typ])
}

func (t *Target) remove(typ string, l *listener) {
	list := t.listeners[typ]
	for i, cur := range list {
		if cur == l {
			t.listeners[typ] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(t.listeners[typ]) == 0 {
		delete(t.listeners, typ)
	}
}

type subscriptionEntry struct {
	typ string
	l   *listener
}

// Subscription is the handle for listeners added by one AddEventListener
// call.
type Subscription struct {
	target  *Target
	entries []subscriptionEntry
	done    bool
}

// Cancel removes the listeners. Calling it again does nothing.
func (s *Subscription) Cancel() {
	if s == nil || s.done {
		return
	}
	s.done = true
	for _, e := range s.entries {
		e.l.removed = true
		s.target.remove(e.typ, e.l)
	}
}

// Active reports whether Cancel has not been called yet.
func (s *Subscription) Active() bool {
	return s != nil && !s.done
}
