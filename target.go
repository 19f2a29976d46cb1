package portal

import (
	"strings"

	"github.com/pthm/portal/lib/dom"
)

// targetIndex tracks which elements are bound as which target names for
// the relay's owned identifiers, and delivers the per-instance connected
// and disconnected hooks exactly once per (instance, element, name)
// binding.
type targetIndex struct {
	relay *Relay

	// names[id][name] holds the bound elements in discovery order.
	names map[string]map[string][]*dom.Element
	// byElement[el][id][name] mirrors names for O(1) diffing and removal.
	byElement map[*dom.Element]map[string]map[string]bool
	// delivered[inst][el][name] marks connected hooks already fired, so a
	// late-synced instance catches up and nothing fires twice.
	delivered map[*Controller]map[*dom.Element]map[string]bool
}

func newTargetIndex(r *Relay) *targetIndex {
	return &targetIndex{
		relay:     r,
		names:     make(map[string]map[string][]*dom.Element),
		byElement: make(map[*dom.Element]map[string]map[string]bool),
		delivered: make(map[*Controller]map[*dom.Element]map[string]bool),
	}
}

// syncElement reconciles the index with the element's current target
// attribute for one identifier. It is the single entry point for both
// sweep discovery and attribute mutations, so transitions (added names,
// dropped names, removed attribute) all reduce to a set diff.
func (t *targetIndex) syncElement(el *dom.Element, id string) {
	current := make(map[string]bool)
	if raw, ok := el.Attr(TargetAttribute(id)); ok {
		for _, name := range strings.Fields(raw) {
			current[name] = true
		}
	}

	indexed := t.byElement[el][id]
	for name := range indexed {
		if !current[name] {
			t.removeName(el, id, name)
		}
	}
	for name := range current {
		if !indexed[name] {
			t.addName(el, id, name)
		}
	}
}

func (t *targetIndex) addName(el *dom.Element, id, name string) {
	byID := t.names[id]
	if byID == nil {
		byID = make(map[string][]*dom.Element)
		t.names[id] = byID
	}
	byID[name] = append(byID[name], el)

	ids := t.byElement[el]
	if ids == nil {
		ids = make(map[string]map[string]bool)
		t.byElement[el] = ids
	}
	if ids[id] == nil {
		ids[id] = make(map[string]bool)
	}
	ids[id][name] = true

	for _, inst := range t.relay.registry.of(id) {
		t.deliverConnected(inst, el, name)
	}
}

func (t *targetIndex) removeName(el *dom.Element, id, name string) {
	for _, inst := range t.relay.registry.of(id) {
		t.deliverDisconnected(inst, el, name)
	}

	if byID := t.names[id]; byID != nil {
		list := byID[name]
		for i, e := range list {
			if e == el {
				byID[name] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(byID[name]) == 0 {
			delete(byID, name)
		}
		if len(byID) == 0 {
			delete(t.names, id)
		}
	}
	if ids := t.byElement[el]; ids != nil {
		if ids[id] != nil {
			delete(ids[id], name)
			if len(ids[id]) == 0 {
				delete(ids, id)
			}
		}
		if len(ids) == 0 {
			delete(t.byElement, el)
		}
	}
}

// deliverConnected marks the binding delivered for the instance and fires
// its connected hook. Already-delivered bindings are skipped: this is what
// makes the hook exactly-once under repeated sweeps and refreshes.
func (t *targetIndex) deliverConnected(inst *Controller, el *dom.Element, name string) {
	marks := t.delivered[inst]
	if marks == nil {
		marks = make(map[*dom.Element]map[string]bool)
		t.delivered[inst] = marks
	}
	if marks[el] == nil {
		marks[el] = make(map[string]bool)
	}
	if marks[el][name] {
		return
	}
	marks[el][name] = true

	if hook := inst.hookConnected(name); hook != nil {
		t.relay.safely("target connected hook", func() error {
			return hook(el)
		})
	}
}

// deliverDisconnected fires the disconnected hook only for bindings whose
// connected hook was delivered, then clears the mark.
func (t *targetIndex) deliverDisconnected(inst *Controller, el *dom.Element, name string) {
	marks := t.delivered[inst]
	if marks == nil || marks[el] == nil || !marks[el][name] {
		return
	}
	delete(marks[el], name)
	if len(marks[el]) == 0 {
		delete(marks, el)
	}
	if len(marks) == 0 {
		delete(t.delivered, inst)
	}

	if hook := inst.hookDisconnected(name); hook != nil {
		t.relay.safely("target disconnected hook", func() error {
			return hook(el)
		})
	}
}

// catchUp delivers connected hooks to a late-synced instance for every
// binding of its identifier that the index already holds.
func (t *targetIndex) catchUp(inst *Controller) {
	byID := t.names[inst.identifier]
	for name, list := range byID {
		for _, el := range append([]*dom.Element(nil), list...) {
			t.deliverConnected(inst, el, name)
		}
	}
}

// dropInstance fires disconnected for every delivered binding of the
// instance and forgets its marks. The index entries stay: other instances
// of the identifier may still be live.
func (t *targetIndex) dropInstance(inst *Controller) {
	marks := t.delivered[inst]
	for el, names := range marks {
		for name := range names {
			t.deliverDisconnected(inst, el, name)
		}
	}
	delete(t.delivered, inst)
}

// dropIdentifier removes every index entry for an identifier whose last
// instance unsynced. Hooks were already handled by dropInstance.
func (t *targetIndex) dropIdentifier(id string) {
	for el, ids := range t.byElement {
		if ids[id] != nil {
			delete(ids, id)
			if len(ids) == 0 {
				delete(t.byElement, el)
			}
		}
	}
	delete(t.names, id)
}

// removeElementTree unbinds el and its whole subtree from every owned
// identifier, firing disconnected hooks for delivered bindings.
func (t *targetIndex) removeElementTree(el *dom.Element) {
	el.Walk(func(e *dom.Element) {
		type binding struct{ id, name string }
		var bound []binding
		for id, names := range t.byElement[e] {
			for name := range names {
				bound = append(bound, binding{id, name})
			}
		}
		for _, b := range bound {
			t.removeName(e, b.id, b.name)
		}
	})
}

// disconnectAll fires outstanding disconnected hooks for every instance.
// Used during relay teardown.
func (t *targetIndex) disconnectAll(instances []*Controller) {
	for _, inst := range instances {
		t.dropInstance(inst)
	}
	t.names = make(map[string]map[string][]*dom.Element)
	t.byElement = make(map[*dom.Element]map[string]map[string]bool)
}

func (t *targetIndex) first(id, name string) (*dom.Element, bool) {
	list := t.names[id][name]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

func (t *targetIndex) all(id, name string) []*dom.Element {
	list := t.names[id][name]
	out := make([]*dom.Element, len(list))
	copy(out, list)
	return out
}

// bindingCount reports the number of live (element, identifier, name)
// bindings, exposed through Relay.Stats.
func (t *targetIndex) bindingCount() int {
	n := 0
	for _, ids := range t.byElement {
		for _, names := range ids {
			n += len(names)
		}
	}
	return n
}

// prune drops bindings for elements no longer attached to the document.
func (t *targetIndex) prune() {
	for el := range t.byElement {
		if !el.Attached() {
			t.removeElementTree(el)
		}
	}
}
