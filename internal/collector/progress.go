package collector

import "sync"

// progressTracker holds the mutable state a concurrent sync run reports
// through: how many dialogs have finished and which ones are still being
// fetched. It is hydrated once per run and discarded afterward — there is
// no persistence across runs, only across the goroutines of one run.
type progressTracker struct {
	mu           sync.Mutex
	total        int
	done         int
	activeTitles map[string]struct{}
}

func newProgressTracker(total int) *progressTracker {
	return &progressTracker{
		total:        total,
		activeTitles: make(map[string]struct{}),
	}
}

// start marks a dialog as actively being fetched.
func (p *progressTracker) start(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeTitles[title] = struct{}{}
}

// finish marks a dialog's fetch complete, incrementing the done counter.
func (p *progressTracker) finish(title string) Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.activeTitles, title)
	p.done++
	return p.snapshotLocked()
}

// snapshot returns the current progress without mutating state.
func (p *progressTracker) snapshot() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *progressTracker) snapshotLocked() Progress {
	titles := make([]string, 0, len(p.activeTitles))
	for t := range p.activeTitles {
		titles = append(titles, t)
	}
	return Progress{
		DialogsDone:  p.done,
		DialogsTotal: p.total,
		ActiveTitles: titles,
	}
}

// Progress is an immutable snapshot of a running sync, emitted as
// collection-progress events.
type Progress struct {
	Phase        string
	DialogsDone  int
	DialogsTotal int
	ActiveTitles []string
}
