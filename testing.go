package portal

import (
	"fmt"

	"github.com/pthm/portal/lib/dom"
	"github.com/pthm/portal/lib/loop"
)

// TestPage bundles a parsed document, its event loop and a relay with a
// fixed identifier, for exercising controllers in tests:
//
//	page, err := portal.NewTestPage(`<div data-widget-target="content"></div>`)
//	if err != nil { ... }
//	page.Relay.Sync(ctrl)
//	page.Flush()
//	if err := page.Click(`[data-action]`); err != nil { ... }
//
// Errors reported through the relay accumulate in Errors instead of being
// logged, so tests can assert on them.
type TestPage struct {
	Doc    *dom.Document
	Loop   *loop.Loop
	Relay  *Relay
	Errors []error
}

// NewTestPage parses markup into a fresh document and attaches a relay to
// its root. The relay identifier is fixed to "portal-test" so rewritten
// attributes are stable across runs.
func NewTestPage(markup string) (*TestPage, error) {
	lp := loop.New()
	doc, err := dom.Parse(lp, markup)
	if err != nil {
		return nil, err
	}
	p := &TestPage{Doc: doc, Loop: lp}
	p.Relay = New(doc.Root(),
		WithIdentifier("portal-test"),
		WithErrorHandler(func(err error) {
			p.Errors = append(p.Errors, err)
		}),
	)
	return p, nil
}

// Element returns the first element matching selector, or an error naming
// the selector when nothing matches.
func (p *TestPage) Element(selector string) (*dom.Element, error) {
	if el := p.Doc.QuerySelector(selector); el != nil {
		return el, nil
	}
	return nil, fmt.Errorf("portal: no element matches %q", selector)
}

// Fire flushes pending work, dispatches an event of the given type on the
// first element matching selector, then flushes again so observer
// deliveries and routed actions complete before the test asserts.
func (p *TestPage) Fire(selector, eventType string) error {
	p.Flush()
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	el.Dispatch(dom.NewEvent(eventType))
	p.Flush()
	return nil
}

// Click is Fire with a "click" event.
func (p *TestPage) Click(selector string) error {
	return p.Fire(selector, "click")
}

// Flush runs the event loop until no work is queued.
func (p *TestPage) Flush() {
	p.Loop.Flush()
}
