package portal

import "github.com/pthm/portal/lib/dom"

// targetLookup resolves target names to elements for a controller. The
// local implementation scans the controller's own subtree; the portal
// implementation consults the relay's index first and falls back to the
// local scope.
type targetLookup interface {
	has(name string) bool
	first(name string) (*dom.Element, bool)
	all(name string) []*dom.Element
}

type localLookup struct {
	c *Controller
}

func (l *localLookup) selector(name string) string {
	return `[` + TargetAttribute(l.c.identifier) + `~="` + name + `"]`
}

func (l *localLookup) has(name string) bool {
	_, ok := l.first(name)
	return ok
}

func (l *localLookup) first(name string) (*dom.Element, bool) {
	sel := l.selector(name)
	if l.c.root.Matches(sel) {
		return l.c.root, true
	}
	if el := l.c.root.QuerySelector(sel); el != nil {
		return el, true
	}
	return nil, false
}

func (l *localLookup) all(name string) []*dom.Element {
	sel := l.selector(name)
	var out []*dom.Element
	if l.c.root.Matches(sel) {
		out = append(out, l.c.root)
	}
	out = append(out, l.c.root.QuerySelectorAll(sel)...)
	return out
}

// portalLookup is installed by Relay.Sync. Relay-known elements win ties
// and lead ordering; elements only visible in the local scope still
// resolve, so a controller keeps working against its own subtree even
// when the relay has not swept it yet.
type portalLookup struct {
	relay *Relay
	c     *Controller
	local targetLookup
}

func (p *portalLookup) has(name string) bool {
	if _, ok := p.relay.targets.first(p.c.identifier, name); ok {
		return true
	}
	return p.local.has(name)
}

func (p *portalLookup) first(name string) (*dom.Element, bool) {
	if el, ok := p.relay.targets.first(p.c.identifier, name); ok {
		return el, true
	}
	return p.local.first(name)
}

func (p *portalLookup) all(name string) []*dom.Element {
	indexed := p.relay.targets.all(p.c.identifier, name)
	seen := make(map[*dom.Element]bool, len(indexed))
	out := make([]*dom.Element, 0, len(indexed))
	for _, el := range indexed {
		out = append(out, el)
		seen[el] = true
	}
	for _, el := range p.local.all(name) {
		if !seen[el] {
			out = append(out, el)
		}
	}
	return out
}
