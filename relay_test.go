package portal

import (
	"testing"

	"github.com/pthm/portal/lib/dom"
	"github.com/pthm/portal/lib/loop"
)

func TestDisconnectRestoresMarkupAndEmptiesIndex(t *testing.T) {
	page, err := NewTestPage(
		`<div data-widget-target="content"></div>` +
			`<button data-action="widget#save other#thing"></button>`)
	if err != nil {
		t.Fatal(err)
	}
	c := NewController("widget", page.Doc.Root())
	c.Action("save", func(*dom.Event) error { return nil })
	var disconnects int
	c.OnTargetDisconnected("content", func(*dom.Element) error {
		disconnects++
		return nil
	})
	page.Relay.Sync(c)
	page.Flush()

	page.Relay.Disconnect()
	page.Flush()

	btn, err := page.Element("button")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := btn.Attr(ActionAttribute); got != "other#thing widget#save" {
		t.Fatalf("data-action = %q, want originals restored", got)
	}
	if _, ok := btn.Attr(ForwardedActionAttribute); ok {
		t.Fatal("data-forwarded-action should be removed on disconnect")
	}
	if disconnects != 1 {
		t.Fatalf("disconnected hooks = %d, want 1", disconnects)
	}
	if got := page.Relay.Stats(); got != (Stats{}) {
		t.Fatalf("Stats after disconnect = %+v, want zero", got)
	}
}

func TestRefreshMatchesFreshSweep(t *testing.T) {
	markup := `<div data-widget-target="content"></div>` +
		`<button data-action="widget#save"></button>`
	page, err := NewTestPage(markup)
	if err != nil {
		t.Fatal(err)
	}
	c := NewController("widget", page.Doc.Root())
	c.Action("save", func(*dom.Event) error { return nil })
	page.Relay.Sync(c)
	page.Flush()
	page.Relay.Refresh()
	refreshed := page.Relay.Stats()

	fresh, err := NewTestPage(markup)
	if err != nil {
		t.Fatal(err)
	}
	c2 := NewController("widget", fresh.Doc.Root())
	c2.Action("save", func(*dom.Event) error { return nil })
	fresh.Relay.Sync(c2)
	fresh.Flush()

	if refreshed != fresh.Relay.Stats() {
		t.Fatalf("refreshed stats %+v differ from fresh sweep %+v", refreshed, fresh.Relay.Stats())
	}
}

func TestUnownedAttributesAreIgnored(t *testing.T) {
	page, err := NewTestPage(`<div data-kind="box"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	c := NewController("widget", page.Doc.Root())
	page.Relay.Sync(c)
	page.Flush()

	box, err := page.Element(`[data-kind="box"]`)
	if err != nil {
		t.Fatal(err)
	}
	box.SetAttr("data-other-target", "content")
	page.Flush()

	if got := page.Relay.Stats().TargetBindings; got != 0 {
		t.Fatalf("TargetBindings = %d, want 0 for an unowned identifier", got)
	}
}

func TestSyncAcrossDocumentsPanics(t *testing.T) {
	page, err := NewTestPage(`<div></div>`)
	if err != nil {
		t.Fatal(err)
	}
	other := dom.NewDocument(loop.New(), "body")
	c := NewController("widget", other.Root())

	defer func() {
		if recover() == nil {
			t.Fatal("syncing a controller from another document should panic")
		}
	}()
	page.Relay.Sync(c)
}

func TestSyncOnDisconnectedRelayPanics(t *testing.T) {
	page, err := NewTestPage(`<div></div>`)
	if err != nil {
		t.Fatal(err)
	}
	page.Relay.Disconnect()

	defer func() {
		if recover() == nil {
			t.Fatal("Sync on a disconnected relay should panic")
		}
	}()
	page.Relay.Sync(NewController("widget", page.Doc.Root()))
}

func TestUnsyncUnknownControllerIsNoOp(t *testing.T) {
	page, err := NewTestPage(`<div></div>`)
	if err != nil {
		t.Fatal(err)
	}
	page.Relay.Unsync(NewController("widget", page.Doc.Root()))
	page.Relay.Unsync(nil)
}

func TestObserverFilterNarrowsAfterLastUnsync(t *testing.T) {
	page, err := NewTestPage(`<div data-kind="box"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	c := NewController("widget", page.Doc.Root())
	page.Relay.Sync(c)
	page.Flush()
	page.Relay.Unsync(c)
	page.Flush()

	box, err := page.Element(`[data-kind="box"]`)
	if err != nil {
		t.Fatal(err)
	}
	box.SetAttr("data-widget-target", "content")
	page.Flush()

	if got := page.Relay.Stats().TargetBindings; got != 0 {
		t.Fatalf("TargetBindings = %d, want 0 with no live instances", got)
	}
}

func TestRelayIdentifierIsValidAndStable(t *testing.T) {
	page, err := NewTestPage(`<div></div>`)
	if err != nil {
		t.Fatal(err)
	}
	if got := page.Relay.Identifier(); got != "portal-test" {
		t.Fatalf("Identifier() = %q, want %q", got, "portal-test")
	}

	r := New(page.Doc.Root())
	if r.Identifier() == "" {
		t.Fatal("default identifier must not be empty")
	}
}
