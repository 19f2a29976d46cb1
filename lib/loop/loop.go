// Package loop provides the single-threaded event loop that drives portal
// relays: a microtask queue processed in ticks, plus virtual-time timers.
//
// All mutation deliveries, coalesced refreshes, and owner-resolution retries
// run as tasks on one Loop. Nothing in this package spawns goroutines; the
// caller decides when ticks happen, which makes every asynchronous portal
// behavior deterministic under test:
//
//	l := loop.New()
//	l.Post(func() { ... })  // runs on the next tick
//	l.Tick()                // run exactly one tick
//	l.Advance(time.Second)  // fire due timers, then drain
package loop

import (
	"sort"
	"time"
)

// Task is a unit of work queued onto the loop.
type Task func()

// Loop is a deterministic single-threaded scheduler.
//
// Tasks posted during a tick run on the next tick, never the current one.
// That boundary is what "at most once per tick" coalescing in the relay is
// built on.
type Loop struct {
	queue  []Task
	timers []*Timer
	now    time.Time
	seq    int
}

// Timer is a handle for a task scheduled with After.
type Timer struct {
	when    time.Time
	seq     int
	task    Task
	stopped bool
}

// Stop cancels the timer. Stopping an already-fired or already-stopped
// timer is a no-op.
func (t *Timer) Stop() {
	t.stopped = true
}

// New creates a loop with its virtual clock at an arbitrary fixed origin.
func New() *Loop {
	return &Loop{now: time.Unix(0, 0)}
}

// Now returns the loop's virtual time.
func (l *Loop) Now() time.Time {
	return l.now
}

// Post queues a task for the next tick.
func (l *Loop) Post(t Task) {
	if t == nil {
		panic("loop: Post called with nil task")
	}
	l.queue = append(l.queue, t)
}

// After schedules a task to run once d has elapsed on the virtual clock.
// The returned Timer can be stopped before it fires.
func (l *Loop) After(d time.Duration, t Task) *Timer {
	if t == nil {
		panic("loop: After called with nil task")
	}
	l.seq++
	tm := &Timer{when: l.now.Add(d), seq: l.seq, task: t}
	l.timers = append(l.timers, tm)
	return tm
}

// Tick runs every task that was queued before the call. Tasks they post run
// on a later tick. Returns the number of tasks run.
func (l *Loop) Tick() int {
	batch := l.queue
	l.queue = nil
	for _, t := range batch {
		t()
	}
	return len(batch)
}

// Pending reports whether any tasks are queued for the next tick.
func (l *Loop) Pending() bool {
	return len(l.queue) > 0
}

// Flush ticks until the queue is empty. Timers do not fire; only Advance
// moves the clock. Panics after a very large number of ticks, which signals
// a task loop (two tasks endlessly re-posting each other).
func (l *Loop) Flush() {
	for i := 0; l.Tick() > 0; i++ {
		if i > 10000 {
			panic("loop: Flush did not converge, task re-post cycle")
		}
	}
}

// Advance moves the virtual clock forward by d, firing due timers in
// schedule order and draining the task queue after each one.
func (l *Loop) Advance(d time.Duration) {
	deadline := l.now.Add(d)
	for {
		tm := l.nextDue(deadline)
		if tm == nil {
			break
		}
		l.now = tm.when
		if !tm.stopped {
			tm.task()
		}
		l.Flush()
	}
	l.now = deadline
	l.Flush()
}

// nextDue pops the earliest unexpired timer at or before deadline.
func (l *Loop) nextDue(deadline time.Time) *Timer {
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].when.Equal(l.timers[j].when) {
			return l.timers[i].seq < l.timers[j].seq
		}
		return l.timers[i].when.Before(l.timers[j].when)
	})
	for i, tm := range l.timers {
		if tm.stopped {
			continue
		}
		if tm.when.After(deadline) {
			return nil
		}
		l.timers = append(l.timers[:i], l.timers[i+1:]...)
		return tm
	}
	return nil
}
