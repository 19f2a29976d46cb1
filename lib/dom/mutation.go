package dom

// Mutation observation follows the browser MutationObserver contract where
// this system depends on it: records are batched, delivery is asynchronous
// on the document's loop, attribute observation can be restricted to a
// filter list, and an observer can be disconnected and re-armed while a
// delivery is in flight.

// MutationType discriminates mutation records.
type MutationType string

const (
	// MutationChildList records insertion or removal of child elements.
	MutationChildList MutationType = "childList"

	// MutationAttributes records a single attribute change on one element.
	MutationAttributes MutationType = "attributes"
)

// MutationRecord describes one mutation.
//
// For childList records, Target is the parent whose child list changed and
// Added/Removed hold the affected subtree roots. For attribute records,
// Target is the mutated element; OldValue and HadOldValue describe the
// previous state, so the none/value/changed transitions
// can be told apart by the consumer.
type MutationRecord struct {
	Type    MutationType
	Target  *Element
	Added   []*Element
	Removed []*Element

	AttrName    string
	OldValue    string
	HadOldValue bool
}

// ObserverOptions selects which mutations an observer receives.
type ObserverOptions struct {
	ChildList  bool
	Attributes bool
	// Subtree extends observation from the target to all its descendants.
	Subtree bool
	// AttributeFilter restricts attribute records to the named attributes.
	// Empty means all attributes (when Attributes is set).
	AttributeFilter []string
}

// Observer receives batched mutation records for a subtree.
type Observer struct {
	doc      *Document
	target   *Element
	opts     ObserverOptions
	filter   map[string]bool
	fn       func([]MutationRecord)
	pending  []MutationRecord
	queued   bool
	active   bool
}

// Observe registers an observer on target and returns it. The callback
// runs on the document's loop with the batch accumulated since the last
// delivery, in mutation order.
func (d *Document) Observe(target *Element, opts ObserverOptions, fn func([]MutationRecord)) *Observer {
	if target == nil {
		panic("dom: Observe called with nil target")
	}
	if fn == nil {
		panic("dom: Observe called with nil callback")
	}
	o := &Observer{doc: d, target: target, opts: opts, fn: fn, active: true}
	if len(opts.AttributeFilter) > 0 {
		o.filter = make(map[string]bool, len(opts.AttributeFilter))
		for _, name := range opts.AttributeFilter {
			o.filter[name] = true
		}
	}
	d.observers = append(d.observers, o)
	return o
}

// Disconnect stops the observer and discards pending records. A queued
// delivery that has not yet run delivers nothing.
func (o *Observer) Disconnect() {
	o.active = false
	o.pending = nil
	for i, other := range o.doc.observers {
		if other == o {
			o.doc.observers = append(o.doc.observers[:i], o.doc.observers[i+1:]...)
			break
		}
	}
}

// TakeRecords returns pending records without waiting for the queued
// delivery, clearing the pending batch.
func (o *Observer) TakeRecords() []MutationRecord {
	records := o.pending
	o.pending = nil
	return records
}

func (o *Observer) observes(e *Element) bool {
	if o.opts.Subtree {
		return o.target.Contains(e)
	}
	return o.target == e
}

func (o *Observer) enqueue(rec MutationRecord) {
	o.pending = append(o.pending, rec)
	if o.queued {
		return
	}
	o.queued = true
	o.doc.loop.Post(o.deliver)
}

// deliver hands the current batch to the callback. State is reset before
// the callback runs so that mutations made by the callback start a fresh
// batch on a later tick.
func (o *Observer) deliver() {
	o.queued = false
	if !o.active {
		return
	}
	records := o.pending
	o.pending = nil
	if len(records) == 0 {
		return
	}
	o.fn(records)
}

func (d *Document) notifyChildList(parent *Element, added, removed []*Element) {
	for _, o := range d.snapshotObservers() {
		if !o.active || !o.opts.ChildList || !o.observes(parent) {
			continue
		}
		o.enqueue(MutationRecord{
			Type:    MutationChildList,
			Target:  parent,
			Added:   added,
			Removed: removed,
		})
	}
}

func (d *Document) notifyAttr(e *Element, name, oldValue string, hadOld bool) {
	for _, o := range d.snapshotObservers() {
		if !o.active || !o.opts.Attributes || !o.observes(e) {
			continue
		}
		if o.filter != nil && !o.filter[name] {
			continue
		}
		o.enqueue(MutationRecord{
			Type:        MutationAttributes,
			Target:      e,
			AttrName:    name,
			OldValue:    oldValue,
			HadOldValue: hadOld,
		})
	}
}

// snapshotObservers guards against observer registration or disconnection
// happening while a mutation is being fanned out.
func (d *Document) snapshotObservers() []*Observer {
	out := make([]*Observer, len(d.observers))
	copy(out, d.observers)
	return out
}
