package portal

import (
	"fmt"

	"github.com/pthm/portal/lib/dom"
)

// ActionFunc handles one routed action invocation. The event carries
// structured parameters in Event.Params.
type ActionFunc func(*dom.Event) error

// TargetHook runs when a target element binds or unbinds for the
// controller's identifier. A returned error (or a panic) is reported
// through the relay's error channel and never interrupts the remaining
// fan-out.
type TargetHook func(*dom.Element) error

// Controller is the base type for portal-aware components. User components
// embed *Controller and register their behavior explicitly:
//
//	type Widget struct {
//	    *portal.Controller
//	}
//
//	func NewWidget(root *dom.Element) *Widget {
//	    w := &Widget{Controller: portal.NewController("widget", root)}
//	    w.Targets("content")
//	    w.Action("save", w.save)
//	    w.OnTargetConnected("content", w.contentConnected)
//	    return w
//	}
//
// A controller's target accessors (HasTarget, Target, TargetAll) consult
// only its own scope until the controller is synced to a relay; while
// synced, they consult the relay's target index first and the local scope
// second. Unsync restores the original behavior exactly.
type Controller struct {
	identifier  string
	root        *dom.Element
	targetNames []string

	actions      map[string]ActionFunc
	connected    map[string]TargetHook
	disconnected map[string]TargetHook

	lookup targetLookup
}

// NewController creates a controller base for the given identifier, scoped
// to root. Panics on a malformed identifier or nil root.
func NewController(identifier string, root *dom.Element) *Controller {
	mustValidIdentifier(identifier)
	if root == nil {
		panic("portal: NewController called with nil root")
	}
	c := &Controller{
		identifier:   identifier,
		root:         root,
		actions:      make(map[string]ActionFunc),
		connected:    make(map[string]TargetHook),
		disconnected: make(map[string]TargetHook),
	}
	c.lookup = &localLookup{c: c}
	return c
}

// Identifier returns the controller's identifier.
func (c *Controller) Identifier() string {
	return c.identifier
}

// Root returns the controller's scope root element.
func (c *Controller) Root() *dom.Element {
	return c.root
}

// Targets declares the controller's target names. Declared names are what
// accessor interception patches and what generated accessors are emitted
// for. Repeated declarations accumulate; duplicates are ignored.
func (c *Controller) Targets(names ...string) *Controller {
	for _, name := range names {
		if name == "" {
			panic("portal: Targets called with empty name")
		}
		if !c.hasTargetName(name) {
			c.targetNames = append(c.targetNames, name)
		}
	}
	return c
}

// TargetNames returns the declared target names in declaration order.
func (c *Controller) TargetNames() []string {
	out := make([]string, len(c.targetNames))
	copy(out, c.targetNames)
	return out
}

func (c *Controller) hasTargetName(name string) bool {
	for _, n := range c.targetNames {
		if n == name {
			return true
		}
	}
	return false
}

// Action registers a named action handler. Registering the same method
// twice panics: it signals two pieces of code fighting over one name.
func (c *Controller) Action(method string, fn ActionFunc) *Controller {
	if method == "" || fn == nil {
		panic("portal: Action called with empty method or nil handler")
	}
	if _, exists := c.actions[method]; exists {
		panic(fmt.Sprintf("portal: action %q registered twice on %q", method, c.identifier))
	}
	c.actions[method] = fn
	return c
}

// OnTargetConnected registers the hook run when an element binds as the
// named target. Implicitly declares the target name.
func (c *Controller) OnTargetConnected(name string, fn TargetHook) *Controller {
	if fn == nil {
		panic("portal: OnTargetConnected called with nil hook")
	}
	c.Targets(name)
	c.connected[name] = fn
	return c
}

// OnTargetDisconnected registers the hook run when an element unbinds as
// the named target. Implicitly declares the target name.
func (c *Controller) OnTargetDisconnected(name string, fn TargetHook) *Controller {
	if fn == nil {
		panic("portal: OnTargetDisconnected called with nil hook")
	}
	c.Targets(name)
	c.disconnected[name] = fn
	return c
}

// HasTarget reports whether at least one element is bound as the named
// target.
func (c *Controller) HasTarget(name string) bool {
	return c.lookup.has(name)
}

// Target returns the first element bound as the named target. While synced,
// relay-discovered elements take precedence over scope-local ones.
func (c *Controller) Target(name string) (*dom.Element, bool) {
	return c.lookup.first(name)
}

// TargetAll returns every element bound as the named target: relay-known
// elements first, then scope-local ones. No deduplication is performed.
func (c *Controller) TargetAll(name string) []*dom.Element {
	return c.lookup.all(name)
}

// Value reads a declared value from the controller root
// (data-<identifier>-<name>-value), returning def when absent.
func (c *Controller) Value(name, def string) string {
	if v, ok := c.root.Attr("data-" + c.identifier + "-" + name + "-value"); ok {
		return v
	}
	return def
}

// SetValue writes a declared value onto the controller root.
func (c *Controller) SetValue(name, value string) {
	c.root.SetAttr("data-"+c.identifier+"-"+name+"-value", value)
}

// ClassName reads a declared class name from the controller root
// (data-<identifier>-<name>-class).
func (c *Controller) ClassName(name string) (string, bool) {
	return c.root.Attr("data-" + c.identifier + "-" + name + "-class")
}

// OutletSelector reads a declared outlet selector from the controller root
// (data-<identifier>-<name>-outlet).
func (c *Controller) OutletSelector(name string) (string, bool) {
	return c.root.Attr("data-" + c.identifier + "-" + name + "-outlet")
}

// invokeAction runs the registered handler for method. The caller guards
// against panics and reports errors.
func (c *Controller) invokeAction(method string, evt *dom.Event) error {
	fn, ok := c.actions[method]
	if !ok {
		return fmt.Errorf("%w: %s#%s", ErrNoAction, c.identifier, method)
	}
	return fn(evt)
}

// hookConnected returns the connected hook for a target name, or nil.
func (c *Controller) hookConnected(name string) TargetHook {
	return c.connected[name]
}

// hookDisconnected returns the disconnected hook for a target name, or nil.
func (c *Controller) hookDisconnected(name string) TargetHook {
	return c.disconnected[name]
}

// bind patches the controller's target lookup to consult the relay. A
// second bind without an intervening unbind is a lifecycle bug.
func (c *Controller) bind(r *Relay) {
	if _, patched := c.lookup.(*portalLookup); patched {
		panic(fmt.Sprintf("portal: controller %q synced twice without Unsync", c.identifier))
	}
	c.lookup = &portalLookup{relay: r, c: c, local: c.lookup}
}

// unbind restores the original lookup. Safe to call on a controller that
// was never bound.
func (c *Controller) unbind() {
	if pl, ok := c.lookup.(*portalLookup); ok {
		c.lookup = pl.local
	}
}

// boundTo reports whether the controller is currently synced to r.
func (c *Controller) boundTo(r *Relay) bool {
	pl, ok := c.lookup.(*portalLookup)
	return ok && pl.relay == r
}
