package accessibility

import (
	"sort"
	"time"
)

// Scheduler runs a task after a delay. Tasks are fire-and-forget: they are not
// cancelable and nothing waits for them.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type deferredTask struct {
	delay time.Duration
	seq   int
	f     func()
}

// Deferred queues tasks until Flush. A request-scoped page has no timer that
// outlives the request, so delayed work runs once event handling is over and
// before the page is rendered, shortest delay first.
type Deferred struct {
	tasks []deferredTask
	seq   int
}

var _ Scheduler = (*Deferred)(nil)

// AfterFunc implements Scheduler.
func (d *Deferred) AfterFunc(delay time.Duration, f func()) {
	d.seq++
	d.tasks = append(d.tasks, deferredTask{delay: delay, seq: d.seq, f: f})
}

// Pending returns the number of queued tasks.
func (d *Deferred) Pending() int {
	return len(d.tasks)
}

// Flush runs every queued task, including tasks queued by tasks, and returns
// how many ran.
// POST: Pending() == 0
func (d *Deferred) Flush() int {
	ran := 0
	for len(d.tasks) > 0 {
		batch := d.tasks
		d.tasks = nil
		sort.SliceStable(batch, func(i, j int) bool {
			if batch[i].delay != batch[j].delay {
				return batch[i].delay < batch[j].delay
			}
			return batch[i].seq < batch[j].seq
		})
		for _, t := range batch {
			t.f()
			ran++
		}
	}
	return ran
}
