package scheduler

import "sync"

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeUnchanged
	outcomeDormant
	outcomeMalformed
	outcomeConflict
	outcomeFailed
)

// CycleReport summarises one poll cycle.
type CycleReport struct {
	Fetched   int
	Applied   int
	Unchanged int
	Dormant   int
	Malformed int
	Conflicts int
	Failed    int
}

type tally struct {
	mu     sync.Mutex
	report CycleReport
}

func (t *tally) add(o outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch o {
	case outcomeApplied:
		t.report.Applied++
	case outcomeUnchanged:
		t.report.Unchanged++
	case outcomeDormant:
		t.report.Dormant++
	case outcomeMalformed:
		t.report.Malformed++
	case outcomeConflict:
		t.report.Conflicts++
	case outcomeFailed:
		t.report.Failed++
	}
}

func (t *tally) snapshot(fetched int) CycleReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.report
	r.Fetched = fetched
	return r
}
