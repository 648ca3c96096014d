package interp

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// job is an opaque reference to a background task, carrying a 1-based
// job index and whether the task has finished. exitCode is not filled
// in: the task function passed to start returns no status.
type job struct {
	index    int
	done     bool
	exitCode uint8
}

// jobTable is the Environment's background-job table: a mutex-guarded,
// insertion-ordered list of jobs, reaped lazily whenever List is
// called. The errgroup.Group launches background tasks; List notices
// completions without blocking through each job's done flag.
type jobTable struct {
	mu      sync.Mutex
	next    int
	entries []*job
	group   errgroup.Group
}

func newJobTable() *jobTable {
	return &jobTable{}
}

// start launches fn as a new background job and records its handle.
// It returns immediately; fn runs on its own goroutine under the
// shared errgroup.Group. Indices are assigned from a monotonic
// counter so that pruning a finished job in List never frees its
// number for reuse by a job still running.
func (t *jobTable) start(fn func()) *job {
	t.mu.Lock()
	t.next++
	j := &job{index: t.next}
	t.entries = append(t.entries, j)
	t.mu.Unlock()

	t.group.Go(func() error {
		fn()
		t.mu.Lock()
		j.done = true
		t.mu.Unlock()
		return nil
	})
	return j
}

// List prunes finished jobs and returns "[i] Running" lines for the
// ones still in flight, 1-based.
func (t *jobTable) List() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var lines []string
	live := t.entries[:0]
	for _, j := range t.entries {
		if j.done {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%d] Running", j.index))
		live = append(live, j)
	}
	t.entries = live
	return lines
}
