package dom

// Event dispatch follows the browser model: a capture phase from the root
// down to the target, the target phase, then a bubble phase back up for
// events that bubble.

// Event phases, in dispatch order.
const (
	PhaseCapture = 1
	PhaseTarget  = 2
	PhaseBubble  = 3
)

// Event is a dispatched occurrence on an element.
type Event struct {
	// Type is the event name ("click", "input", ...).
	Type string
	// Params carries structured action parameters, attached by the portal
	// router before invoking an action. Nil for events outside action
	// dispatch.
	Params map[string]any
	// Detail is an arbitrary payload set by the dispatcher.
	Detail any

	target           *Element
	currentTarget    *Element
	bubbles          bool
	phase            int
	stopped          bool
	stoppedImmediate bool
	defaultPrevented bool
}

// NewEvent creates an event of the given type. Bubbling is the norm for
// user-interaction events and is on by default.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, bubbles: true}
}

// NoBubble marks the event as non-bubbling and returns it.
func (e *Event) NoBubble() *Event {
	e.bubbles = false
	return e
}

// Target returns the element the event was dispatched on.
func (e *Event) Target() *Element { return e.target }

// CurrentTarget returns the element whose listener is currently running.
func (e *Event) CurrentTarget() *Element { return e.currentTarget }

// Phase returns the current dispatch phase.
func (e *Event) Phase() int { return e.phase }

// Bubbles reports whether the event bubbles.
func (e *Event) Bubbles() bool { return e.bubbles }

// StopPropagation prevents the event from reaching further elements.
// Remaining listeners on the current element still run.
func (e *Event) StopPropagation() { e.stopped = true }

// StopImmediatePropagation prevents any further listener from running.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedImmediate = true
}

// Stopped reports whether propagation has been stopped.
func (e *Event) Stopped() bool { return e.stopped }

// PreventDefault marks the event's default behavior as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Listener is a registered event handler.
type Listener struct {
	Type    string
	Fn      func(*Event)
	Capture bool
	Once    bool

	owner *Element
}

// AddEventListener registers fn for events of the given type during the
// target and bubble phases, returning a handle for removal.
func (e *Element) AddEventListener(typ string, fn func(*Event)) *Listener {
	return e.addListener(&Listener{Type: typ, Fn: fn})
}

// AddCaptureListener registers fn for the capture phase.
func (e *Element) AddCaptureListener(typ string, fn func(*Event)) *Listener {
	return e.addListener(&Listener{Type: typ, Fn: fn, Capture: true})
}

func (e *Element) addListener(l *Listener) *Listener {
	if l.Fn == nil {
		panic("dom: AddEventListener called with nil handler")
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	l.owner = e
	e.listeners[l.Type] = append(e.listeners[l.Type], l)
	return l
}

// RemoveEventListener unregisters a listener. Removing a listener that was
// already removed is a no-op.
func (e *Element) RemoveEventListener(l *Listener) {
	if l == nil || l.owner != e {
		return
	}
	list := e.listeners[l.Type]
	for i, other := range list {
		if other == l {
			e.listeners[l.Type] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners for the given event type.
func (e *Element) ListenerCount(typ string) int {
	return len(e.listeners[typ])
}

// handle runs the element's listeners matching the current phase.
func (e *Element) handle(evt *Event) {
	evt.currentTarget = e
	list := e.listeners[evt.Type]
	snapshot := make([]*Listener, len(list))
	copy(snapshot, list)
	for _, l := range snapshot {
		if evt.stoppedImmediate {
			return
		}
		switch evt.phase {
		case PhaseCapture:
			if !l.Capture {
				continue
			}
		case PhaseBubble:
			if l.Capture {
				continue
			}
		}
		if l.Once {
			e.RemoveEventListener(l)
		}
		l.Fn(evt)
	}
}

// Dispatch runs the event through capture, target and bubble phases
// starting at element e.
func (e *Element) Dispatch(evt *Event) *Event {
	if evt == nil {
		panic("dom: Dispatch called with nil event")
	}
	evt.target = e
	ancestors := e.path()

	evt.phase = PhaseCapture
	for _, ancestor := range ancestors {
		if evt.stopped {
			return evt
		}
		ancestor.handle(evt)
	}

	if evt.stopped {
		return evt
	}
	evt.phase = PhaseTarget
	e.handle(evt)

	if !evt.bubbles || evt.stopped {
		return evt
	}
	evt.phase = PhaseBubble
	for i := len(ancestors) - 1; i >= 0; i-- {
		if evt.stopped {
			return evt
		}
		ancestors[i].handle(evt)
	}
	return evt
}
