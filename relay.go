package portal

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pthm/portal/lib/dom"
	"github.com/pthm/portal/lib/loop"
)

// sweepBatchSize caps how many identifier selectors are joined into one
// query during a full sweep.
const sweepBatchSize = 8

// Relay connects controllers to elements outside their own subtree. It
// watches its element's subtree with a filtered mutation observer, indexes
// target bindings for the identifiers that currently have live instances,
// and rewrites action directives for those identifiers into proxy tokens
// that route events back through shared listeners.
//
//	doc, _ := dom.Parse(lp, markup)
//	relay := portal.New(doc.Root())
//	relay.Sync(widget.Controller)
//	defer relay.Disconnect()
//
// All relay operations run on the document's event loop; the relay is not
// safe for concurrent use from multiple goroutines.
type Relay struct {
	element    *dom.Element
	doc        *dom.Document
	loop       *loop.Loop
	identifier string

	log     zerolog.Logger
	onError func(error)

	registry *identifierRegistry
	targets  *targetIndex
	actions  *actionIndex

	observer      *dom.Observer
	refreshQueued bool
	disconnected  bool
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger replaces the relay's logger. Errors reported through the
// default error handler are written here.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Relay) { r.log = log }
}

// WithErrorHandler replaces the default error handler. Handler panics are
// not recovered; keep it simple.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Relay) {
		if fn != nil {
			r.onError = fn
		}
	}
}

// WithIdentifier fixes the relay's own identifier instead of the random
// default. Useful in tests where rewritten attributes must be stable.
func WithIdentifier(identifier string) Option {
	return func(r *Relay) {
		mustValidIdentifier(identifier)
		r.identifier = identifier
	}
}

// New creates a relay scoped to element's subtree. Panics on a nil
// element.
func New(element *dom.Element, opts ...Option) *Relay {
	if element == nil {
		panic("portal: New called with nil element")
	}
	r := &Relay{
		element:    element,
		doc:        element.Document(),
		loop:       element.Document().Loop(),
		identifier: "portal-" + uuid.NewString()[:8],
		log:        zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
	r.onError = func(err error) {
		r.log.Error().Err(err).Msg("portal relay error")
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registry = newIdentifierRegistry()
	r.targets = newTargetIndex(r)
	r.actions = newActionIndex(r)
	return r
}

// Identifier returns the relay's own identifier, as it appears in
// synthesized proxy tokens.
func (r *Relay) Identifier() string { return r.identifier }

// Element returns the relay's scope root.
func (r *Relay) Element() *dom.Element { return r.element }

// Loop returns the event loop the relay runs on.
func (r *Relay) Loop() *loop.Loop { return r.loop }

// Sync registers a controller with the relay. The first instance of an
// identifier triggers a sweep of the relay subtree for that identifier's
// target bindings and action directives; later instances catch up from the
// existing index, receiving connected hooks for bindings already present.
//
// Panics if the controller belongs to another document, if it is already
// synced, or if the relay is disconnected.
func (r *Relay) Sync(c *Controller) {
	if r.disconnected {
		panic("portal: Sync on disconnected relay")
	}
	if c == nil {
		panic("portal: Sync called with nil controller")
	}
	if c.root.Document() != r.doc {
		panic(fmt.Sprintf("portal: controller %q belongs to a different document", c.identifier))
	}

	c.bind(r)
	first := r.registry.add(c)
	if first {
		r.restartObserver()
		r.sweepTargets([]string{c.identifier})
		r.sweepActions()
	} else {
		r.targets.catchUp(c)
	}
	r.log.Debug().Str("identifier", c.identifier).Bool("first", first).Msg("controller synced")
}

// Unsync unregisters a controller. Its outstanding target bindings receive
// disconnected hooks, and if it was the last instance of its identifier the
// relay forgets the identifier entirely: index entries drop, forwarded
// directives for it are restored into data-action, and the observer filter
// narrows. Unsyncing a controller that is not registered here is a no-op.
func (r *Relay) Unsync(c *Controller) {
	if c == nil || !c.boundTo(r) {
		return
	}
	r.targets.dropInstance(c)
	c.unbind()
	last := r.registry.remove(c)
	if last {
		r.targets.dropIdentifier(c.identifier)
		r.actions.dropIdentifier(c.identifier)
		r.restartObserver()
	}
	r.log.Debug().Str("identifier", c.identifier).Bool("last", last).Msg("controller unsynced")
}

// Disconnect tears the relay down: every instance receives disconnected
// hooks for its delivered bindings, every rewritten action attribute is
// restored to its original form, and the observer stops. The relay cannot
// be reused afterwards.
func (r *Relay) Disconnect() {
	if r.disconnected {
		return
	}
	instances := r.registry.all()
	r.targets.disconnectAll(instances)
	r.registry.clear()
	r.actions.restoreAll()
	for _, inst := range instances {
		inst.unbind()
	}
	if r.observer != nil {
		r.observer.Disconnect()
		r.observer = nil
	}
	r.disconnected = true
	r.log.Debug().Msg("relay disconnected")
}

// Refresh rebuilds the index from the document: stale entries for detached
// elements are pruned and the relay subtree is re-swept for every owned
// identifier. After a refresh the index holds exactly what a fresh sweep
// would find.
func (r *Relay) Refresh() {
	if r.disconnected {
		return
	}
	r.drainObserver()
	r.targets.prune()
	r.actions.prune()
	r.sweepTargets(r.registry.owned())
	r.sweepActions()
}

// ScheduleRefresh queues a Refresh on the event loop. Multiple calls
// within one tick coalesce into a single refresh.
func (r *Relay) ScheduleRefresh() {
	if r.disconnected || r.refreshQueued {
		return
	}
	r.refreshQueued = true
	r.loop.Post(func() {
		r.refreshQueued = false
		r.Refresh()
	})
}

// Stats reports index sizes, primarily for verifying teardown.
type Stats struct {
	OwnedIdentifiers    int
	TargetBindings      int
	ForwardedDirectives int
	Proxies             int
}

// Stats returns a snapshot of the relay's index sizes.
func (r *Relay) Stats() Stats {
	return Stats{
		OwnedIdentifiers:    len(r.registry.owned()),
		TargetBindings:      r.targets.bindingCount(),
		ForwardedDirectives: r.actions.forwardedCount(),
		Proxies:             r.actions.proxyCount(),
	}
}

// restartObserver replaces the mutation observer so its attribute filter
// matches the current owned set. Pending records from the old observer are
// processed first, not dropped.
func (r *Relay) restartObserver() {
	r.drainObserver()
	if r.observer != nil {
		r.observer.Disconnect()
		r.observer = nil
	}
	owned := r.registry.owned()
	if len(owned) == 0 {
		return
	}
	filter := []string{ActionAttribute, ForwardedActionAttribute}
	for _, id := range owned {
		filter = append(filter, TargetAttribute(id))
	}
	r.observer = r.doc.Observe(r.element, dom.ObserverOptions{
		ChildList:       true,
		Attributes:      true,
		Subtree:         true,
		AttributeFilter: filter,
	}, r.processMutations)
}

func (r *Relay) drainObserver() {
	if r.observer == nil {
		return
	}
	if records := r.observer.TakeRecords(); len(records) > 0 {
		r.processMutations(records)
	}
}

// processMutations is the observer callback. Added subtrees are indexed,
// removed subtrees unbound, and attribute flips reconciled through the
// same syncElement/updateElement paths the sweep uses.
func (r *Relay) processMutations(records []dom.MutationRecord) {
	if r.disconnected {
		return
	}
	for _, rec := range records {
		switch rec.Type {
		case dom.MutationChildList:
			for _, el := range rec.Added {
				r.indexSubtree(el)
			}
			for _, el := range rec.Removed {
				r.targets.removeElementTree(el)
				r.actions.removeElementTree(el)
			}
		case dom.MutationAttributes:
			if rec.AttrName == ActionAttribute || rec.AttrName == ForwardedActionAttribute {
				r.actions.updateElement(rec.Target)
				continue
			}
			if id, ok := identifierForTargetAttr(rec.AttrName); ok && r.registry.owns(id) {
				r.targets.syncElement(rec.Target, id)
			}
		}
	}
}

// indexSubtree walks a newly attached subtree and feeds every element
// carrying relevant attributes through the normal reconcile paths.
// Membership is decided by attribute presence on the element itself, not
// by where the subtree was attached.
func (r *Relay) indexSubtree(root *dom.Element) {
	owned := r.registry.owned()
	root.Walk(func(el *dom.Element) {
		for _, id := range owned {
			if _, ok := el.Attr(TargetAttribute(id)); ok {
				r.targets.syncElement(el, id)
			}
		}
		_, hasAction := el.Attr(ActionAttribute)
		_, hasForwarded := el.Attr(ForwardedActionAttribute)
		if hasAction || hasForwarded {
			r.actions.updateElement(el)
		}
	})
}

// sweepTargets scans the relay subtree for target attributes of the given
// identifiers. Selectors are batched to keep query counts down on pages
// with many owned identifiers.
func (r *Relay) sweepTargets(ids []string) {
	for start := 0; start < len(ids); start += sweepBatchSize {
		end := start + sweepBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		parts := make([]string, len(batch))
		for i, id := range batch {
			parts[i] = "[" + TargetAttribute(id) + "]"
		}
		sel := strings.Join(parts, ", ")
		for _, el := range r.scopeQueryAll(sel) {
			for _, id := range batch {
				if _, ok := el.Attr(TargetAttribute(id)); ok {
					r.targets.syncElement(el, id)
				}
			}
		}
	}
}

// sweepActions scans the relay subtree for action-bearing elements and
// reconciles each one against the current owned set.
func (r *Relay) sweepActions() {
	sel := "[" + ActionAttribute + "], [" + ForwardedActionAttribute + "]"
	for _, el := range r.scopeQueryAll(sel) {
		r.actions.updateElement(el)
	}
}

// scopeQueryAll queries the relay subtree including the scope root itself.
func (r *Relay) scopeQueryAll(selector string) []*dom.Element {
	var out []*dom.Element
	if r.element.Matches(selector) {
		out = append(out, r.element)
	}
	return append(out, r.element.QuerySelectorAll(selector)...)
}

// safely runs fn, converting a returned error or a panic into a report
// through the relay's error handler. Hook and action failures never abort
// the surrounding fan-out.
func (r *Relay) safely(desc string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.reportError(fmt.Errorf("portal: panic in %s: %v", desc, rec))
		}
	}()
	if err := fn(); err != nil {
		r.reportError(fmt.Errorf("portal: %s: %w", desc, err))
	}
}

func (r *Relay) reportError(err error) {
	r.onError(err)
}
