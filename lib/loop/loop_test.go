package loop

import (
	"testing"
	"time"
)

func TestPostRunsOnNextTick(t *testing.T) {
	l := New()
	ran := false
	l.Post(func() { ran = true })

	if ran {
		t.Fatal("task ran before any tick")
	}
	l.Tick()
	if !ran {
		t.Fatal("task did not run on tick")
	}
}

func TestTickBoundary(t *testing.T) {
	l := New()
	var order []string
	l.Post(func() {
		order = append(order, "first")
		l.Post(func() { order = append(order, "reposted") })
	})
	l.Post(func() { order = append(order, "second") })

	l.Tick()
	if len(order) != 2 {
		t.Fatalf("first tick ran %d tasks, want 2", len(order))
	}
	l.Tick()

	want := []string{"first", "second", "reposted"}
	for i, w := range want {
		if order[i] != w {
			t.Errorf("order[%d] = %q, want %q", i, order[i], w)
		}
	}
}

func TestFlushDrains(t *testing.T) {
	l := New()
	count := 0
	l.Post(func() {
		count++
		l.Post(func() { count++ })
	})

	l.Flush()
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if l.Pending() {
		t.Error("queue not empty after Flush")
	}
}

func TestAfterFiresInOrder(t *testing.T) {
	l := New()
	var order []string
	l.After(200*time.Millisecond, func() { order = append(order, "late") })
	l.After(100*time.Millisecond, func() { order = append(order, "early") })

	l.Advance(50 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("timers fired early: %v", order)
	}

	l.Advance(200 * time.Millisecond)
	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("order = %v, want [early late]", order)
	}
}

func TestTimerStop(t *testing.T) {
	l := New()
	fired := false
	tm := l.After(100*time.Millisecond, func() { fired = true })
	tm.Stop()

	l.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestAdvanceMovesClock(t *testing.T) {
	l := New()
	start := l.Now()
	l.Advance(3 * time.Second)
	if got := l.Now().Sub(start); got != 3*time.Second {
		t.Errorf("clock advanced by %v, want 3s", got)
	}
}

func TestTimerTaskSeesFireTime(t *testing.T) {
	l := New()
	start := l.Now()
	var at time.Duration
	l.After(100*time.Millisecond, func() { at = l.Now().Sub(start) })

	l.Advance(time.Second)
	if at != 100*time.Millisecond {
		t.Errorf("timer fired at +%v, want +100ms", at)
	}
}
