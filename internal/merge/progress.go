package merge

import "time"

// ProgressFunc is invoked at bounded intervals during a merge so a UI
// or CLI can show progress without affecting correctness (spec.md §5,
// §6). stage names the orchestrator phase that just finished;
// completed/total count the steps of the current pairwise merge.
type ProgressFunc func(stage string, completed, total int)

// minProgressInterval is the throttle spec.md §5/§6 requires between
// progress prints.
const minProgressInterval = 16 * time.Millisecond

// progressGate wraps a ProgressFunc so that calls closer together
// than minProgressInterval are dropped, except the first and a final
// completed==total call which always goes through. Grounded on the
// original's console-print throttle (SPEC_FULL.md "Supplemented
// features").
type progressGate struct {
	fn   ProgressFunc
	last time.Time
	seen bool
}

func newProgressGate(fn ProgressFunc) *progressGate {
	return &progressGate{fn: fn}
}

func (g *progressGate) report(stage string, completed, total int) {
	if g.fn == nil {
		return
	}
	now := time.Now()
	final := completed >= total
	if g.seen && !final && now.Sub(g.last) < minProgressInterval {
		return
	}
	g.last = now
	g.seen = true
	g.fn(stage, completed, total)
}

// CancelFunc reports whether the caller has asked the merge to stop,
// per spec.md §5's cooperative cancellation model.
type CancelFunc func() bool
