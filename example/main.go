// A counter whose buttons live outside the counter's own subtree: the
// relay routes their clicks to the controller and keeps the display target
// bound as the page mutates.
package main

import (
	"fmt"
	"strconv"

	"github.com/pthm/portal"
	"github.com/pthm/portal/lib/dom"
	"github.com/pthm/portal/lib/loop"
)

const page = `
<section data-counter-count-value="0">
	<span data-counter-target="display">0</span>
</section>
<nav>
	<button data-kind="plus" data-action="counter#increment" data-counter-by-param="1"></button>
	<button data-kind="minus" data-action="counter#increment" data-counter-by-param="-1"></button>
</nav>`

// Counter reacts to buttons anywhere in the relay subtree.
type Counter struct {
	*portal.Controller
}

func NewCounter(root *dom.Element) *Counter {
	c := &Counter{Controller: portal.NewController("counter", root)}
	c.Targets("display")
	c.Action("increment", c.increment)
	c.OnTargetConnected("display", c.showCount)
	return c
}

func (c *Counter) count() int {
	n, _ := strconv.Atoi(c.Value("count", "0"))
	return n
}

func (c *Counter) increment(evt *dom.Event) error {
	by := 1
	if v, ok := evt.Params["by"].(float64); ok {
		by = int(v)
	}
	c.SetValue("count", strconv.Itoa(c.count()+by))
	if display, ok := c.Target("display"); ok {
		display.Text = strconv.Itoa(c.count())
	}
	return nil
}

func (c *Counter) showCount(el *dom.Element) error {
	el.Text = strconv.Itoa(c.count())
	return nil
}

func main() {
	lp := loop.New()
	doc, err := dom.Parse(lp, page)
	if err != nil {
		panic(err)
	}

	relay := portal.New(doc.Root(), portal.WithIdentifier("portal-demo"))
	defer relay.Disconnect()

	section := doc.QuerySelector(`[data-counter-count-value]`)
	counter := NewCounter(section)
	relay.Sync(counter.Controller)
	lp.Flush()

	click := func(kind string) {
		btn := doc.QuerySelector(`[data-kind="` + kind + `"]`)
		btn.Dispatch(dom.NewEvent("click"))
		lp.Flush()
	}

	click("plus")
	click("plus")
	click("minus")

	fmt.Println("count:", counter.Value("count", "0"))
	fmt.Println(doc.Render())
}
