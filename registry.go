package portal

import "sort"

// identifierRegistry tracks the live controller instances per identifier,
// preserving sync order within each identifier.
type identifierRegistry struct {
	instances map[string][]*Controller
}

func newIdentifierRegistry() *identifierRegistry {
	return &identifierRegistry{instances: make(map[string][]*Controller)}
}

// add registers a controller and reports whether it is the first live
// instance of its identifier.
func (r *identifierRegistry) add(c *Controller) (first bool) {
	id := c.identifier
	list := r.instances[id]
	r.instances[id] = append(list, c)
	return len(list) == 0
}

// remove unregisters a controller and reports whether it was the last live
// instance of its identifier. Removing an unknown controller is a no-op.
func (r *identifierRegistry) remove(c *Controller) (last bool) {
	id := c.identifier
	list := r.instances[id]
	for i, inst := range list {
		if inst == c {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.instances, id)
		return true
	}
	r.instances[id] = list
	return false
}

// owns reports whether at least one instance of id is registered.
func (r *identifierRegistry) owns(id string) bool {
	return len(r.instances[id]) > 0
}

// owned returns the registered identifiers, sorted for deterministic
// selector and filter construction.
func (r *identifierRegistry) owned() []string {
	out := make([]string, 0, len(r.instances))
	for id := range r.instances {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// of returns the live instances of id in sync order.
func (r *identifierRegistry) of(id string) []*Controller {
	list := r.instances[id]
	out := make([]*Controller, len(list))
	copy(out, list)
	return out
}

// firstOf returns the earliest-synced live instance of id.
func (r *identifierRegistry) firstOf(id string) (*Controller, bool) {
	list := r.instances[id]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// all returns every registered controller across identifiers.
func (r *identifierRegistry) all() []*Controller {
	var out []*Controller
	for _, id := range r.owned() {
		out = append(out, r.instances[id]...)
	}
	return out
}

func (r *identifierRegistry) clear() {
	r.instances = make(map[string][]*Controller)
}
