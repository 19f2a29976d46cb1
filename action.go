package portal

import (
	"sort"
	"strings"

	"github.com/pthm/portal/lib/dom"
)

// proxyPrefix marks synthesized action methods written into data-action.
// A token like "click->portal-ab12cd34#proxy--save" is the relay's own
// rewrite of an owned "save" directive and is regenerated, never indexed.
const proxyPrefix = "proxy--"

// actionIndex rewrites action attributes for owned directives and routes
// events back to controller instances through shared, refcounted proxy
// listeners on the relay element.
//
// The original directives are preserved verbatim in data-forwarded-action
// on the same element, which makes the rewrite idempotent and lets routing
// re-resolve ownership at invocation time.
type actionIndex struct {
	relay *Relay

	// owned[el] maps canonical directive strings to the parsed directive
	// currently forwarded on that element.
	owned map[*dom.Element]map[string]Directive
	// proxies is keyed by method name; each proxy carries one bubbling
	// listener per event type, shared across every directive that needs it.
	proxies map[string]*actionProxy
}

type actionProxy struct {
	method    string
	listeners map[string]*proxyListener
}

type proxyListener struct {
	listener *dom.Listener
	count    int
}

func newActionIndex(r *Relay) *actionIndex {
	return &actionIndex{
		relay:   r,
		owned:   make(map[*dom.Element]map[string]Directive),
		proxies: make(map[string]*actionProxy),
	}
}

// updateElement reconciles one element's action attributes with the
// relay's current ownership. Owned directives move into
// data-forwarded-action and are replaced in data-action by synthesized
// proxy tokens; directives whose identifier lost its last instance move
// back. Malformed tokens pass through untouched.
func (a *actionIndex) updateElement(el *dom.Element) {
	visible, _ := el.Attr(ActionAttribute)
	forwarded, _ := el.Attr(ForwardedActionAttribute)

	var keep []string
	current := make(map[string]Directive)

	consume := func(token string) {
		d, err := ParseDirective(token)
		if err != nil {
			keep = append(keep, token)
			return
		}
		if d.Identifier == a.relay.identifier {
			// Synthesized on a previous pass; regenerated below.
			return
		}
		if a.relay.registry.owns(d.Identifier) {
			current[d.String()] = d
		} else {
			keep = append(keep, d.String())
		}
	}
	for _, token := range strings.Fields(visible) {
		consume(token)
	}
	for _, token := range strings.Fields(forwarded) {
		consume(token)
	}

	prev := a.owned[el]
	for canonical, d := range prev {
		if _, still := current[canonical]; !still {
			a.release(el, d)
		}
	}
	for canonical, d := range current {
		if _, had := prev[canonical]; !had {
			a.acquire(el, d)
		}
	}
	if len(current) == 0 {
		delete(a.owned, el)
	} else {
		a.owned[el] = current
	}

	a.rewriteAttrs(el, keep, current)
}

// rewriteAttrs writes the visible and forwarded attributes back. Owned
// directives are emitted in canonical sorted order so repeated passes are
// byte-stable and never feed the mutation observer.
func (a *actionIndex) rewriteAttrs(el *dom.Element, keep []string, owned map[string]Directive) {
	canonicals := sortedKeys(owned)

	tokens := append([]string(nil), keep...)
	seen := make(map[string]bool)
	for _, canonical := range canonicals {
		d := owned[canonical]
		synth := a.resolvedEvent(d, el) + "->" + a.relay.identifier + "#" + proxyPrefix + d.Method
		if !seen[synth] {
			seen[synth] = true
			tokens = append(tokens, synth)
		}
	}

	setOrRemove(el, ActionAttribute, strings.Join(tokens, " "))
	setOrRemove(el, ForwardedActionAttribute, strings.Join(canonicals, " "))
}

func setOrRemove(el *dom.Element, name, value string) {
	if value == "" {
		el.RemoveAttr(name)
		return
	}
	el.SetAttr(name, value)
}

func (a *actionIndex) resolvedEvent(d Directive, el *dom.Element) string {
	return d.EventFor(el.Tag)
}

// acquire takes a reference on the proxy listener for the directive's
// method and resolved event type, creating both on first use.
func (a *actionIndex) acquire(el *dom.Element, d Directive) {
	p := a.proxies[d.Method]
	if p == nil {
		p = &actionProxy{method: d.Method, listeners: make(map[string]*proxyListener)}
		a.proxies[d.Method] = p
	}
	event := a.resolvedEvent(d, el)
	pl := p.listeners[event]
	if pl == nil {
		method := d.Method
		l := a.relay.element.AddEventListener(event, func(evt *dom.Event) {
			a.routeEvent(method, evt)
		})
		pl = &proxyListener{listener: l}
		p.listeners[event] = pl
	}
	pl.count++
}

func (a *actionIndex) release(el *dom.Element, d Directive) {
	p := a.proxies[d.Method]
	if p == nil {
		return
	}
	event := a.resolvedEvent(d, el)
	pl := p.listeners[event]
	if pl == nil {
		return
	}
	pl.count--
	if pl.count == 0 {
		a.relay.element.RemoveEventListener(pl.listener)
		delete(p.listeners, event)
	}
	if len(p.listeners) == 0 {
		delete(a.proxies, d.Method)
	}
}

// routeEvent resolves a proxied invocation. Ownership, parameters and
// modifiers are re-read from the carrier element's forwarded attribute at
// invocation time, so directives added or removed between rewrite and
// dispatch behave as their current state dictates.
func (a *actionIndex) routeEvent(method string, evt *dom.Event) {
	for el := evt.Target(); el != nil; el = el.Parent() {
		forwarded, ok := el.Attr(ForwardedActionAttribute)
		if ok {
			for _, d := range ParseDirectives(forwarded) {
				if d.Method != method || a.resolvedEvent(d, el) != evt.Type {
					continue
				}
				if !a.relay.registry.owns(d.Identifier) {
					continue
				}
				a.invoke(el, d, evt)
				if evt.Stopped() {
					return
				}
			}
		}
		if el == a.relay.element {
			return
		}
	}
}

func (a *actionIndex) invoke(el *dom.Element, d Directive, evt *dom.Event) {
	params, err := CollectParams(el, d.Identifier)
	if err != nil {
		a.relay.reportError(err)
	}
	evt.Params = params

	switch d.Modifier {
	case "prevent":
		evt.PreventDefault()
	case "stop":
		evt.StopPropagation()
	case "self":
		if evt.Target() != el {
			return
		}
	}

	for _, inst := range a.relay.registry.of(d.Identifier) {
		a.relay.safely("action "+d.Identifier+"#"+d.Method, func() error {
			return inst.invokeAction(d.Method, evt)
		})
	}
}

// dropIdentifier re-reconciles every element carrying directives for an
// identifier that lost its last instance, restoring the originals into
// data-action. Must run after the registry entry is gone.
func (a *actionIndex) dropIdentifier(id string) {
	for _, el := range a.elementsFor(id) {
		a.updateElement(el)
	}
}

func (a *actionIndex) elementsFor(id string) []*dom.Element {
	var out []*dom.Element
	for el, directives := range a.owned {
		for _, d := range directives {
			if d.Identifier == id {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

// removeElementTree releases proxy references held by a detached subtree.
// Attributes are left alone: the elements are out of the document.
func (a *actionIndex) removeElementTree(el *dom.Element) {
	el.Walk(func(e *dom.Element) {
		for _, d := range a.owned[e] {
			a.release(e, d)
		}
		delete(a.owned, e)
	})
}

// restoreAll undoes every rewrite. Called during relay teardown after the
// registry is cleared, so updateElement sees nothing as owned.
func (a *actionIndex) restoreAll() {
	for _, el := range a.elements() {
		a.updateElement(el)
	}
}

func (a *actionIndex) elements() []*dom.Element {
	out := make([]*dom.Element, 0, len(a.owned))
	for el := range a.owned {
		out = append(out, el)
	}
	return out
}

// forwardedCount reports the number of owned directives across elements,
// exposed through Relay.Stats.
func (a *actionIndex) forwardedCount() int {
	n := 0
	for _, directives := range a.owned {
		n += len(directives)
	}
	return n
}

func (a *actionIndex) proxyCount() int {
	return len(a.proxies)
}

// listenerCountFor reports the shared-listener refcount for a method and
// event type. Zero means no proxy listener exists.
func (a *actionIndex) listenerCountFor(method, event string) int {
	p := a.proxies[method]
	if p == nil {
		return 0
	}
	pl := p.listeners[event]
	if pl == nil {
		return 0
	}
	return pl.count
}

// prune drops proxy references for detached elements.
func (a *actionIndex) prune() {
	for el := range a.owned {
		if !el.Attached() {
			a.removeElementTree(el)
		}
	}
}

func sortedKeys(m map[string]Directive) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
