package bidi

import "strings"

// RunList is a singly linked list of runs. Runs are appended in logical
// order during resolution; later steps move them around into visual order.
//
// The zero value is an empty list ready to use.
type RunList struct {
	first, last   *Run
	logicallyLast *Run
	count         int
}

// FirstRun returns the physically first run.
func (rl *RunList) FirstRun() *Run { return rl.first }

// LastRun returns the physically last run.
func (rl *RunList) LastRun() *Run { return rl.last }

// LogicallyLastRun returns the run which has been last in logical order.
// It is set by the resolver before runs are reordered.
func (rl *RunList) LogicallyLastRun() *Run { return rl.logicallyLast }

// SetLogicallyLastRun remembers r as the logically last run.
func (rl *RunList) SetLogicallyLastRun(r *Run) { rl.logicallyLast = r }

// RunCount returns the number of runs in the list.
func (rl *RunList) RunCount() int { return rl.count }

// AddRun appends a run at the physical end of the list.
func (rl *RunList) AddRun(r *Run) {
	if rl.first == nil {
		rl.first = r
	} else {
		rl.last.next = r
	}
	rl.last = r
	rl.count++
}

// PrependRun inserts a run at the physical start of the list.
func (rl *RunList) PrependRun(r *Run) {
	if rl.last == nil {
		rl.last = r
	} else {
		r.next = rl.first
	}
	rl.first = r
	rl.count++
}

// MoveRunToEnd moves a member run to the physical end of the list.
func (rl *RunList) MoveRunToEnd(r *Run) {
	if r == nil || r.next == nil {
		return // already at the end
	}
	var prev *Run
	next := rl.first
	for next != r {
		if next == nil {
			return // not a member
		}
		prev, next = next, next.next
	}
	if prev == nil {
		rl.first = r.next
	} else {
		prev.next = r.next
	}
	r.next = nil
	rl.last.next = r
	rl.last = r
}

// MoveRunToBeginning moves a member run to the physical start of the list.
func (rl *RunList) MoveRunToBeginning(r *Run) {
	if r == nil || r == rl.first || rl.first == nil {
		return
	}
	prev := rl.first
	for prev.next != r {
		if prev.next == nil {
			return // not a member
		}
		prev = prev.next
	}
	prev.next = r.next
	if r == rl.last {
		rl.last = prev
	}
	r.next = rl.first
	rl.first = r
}

// ReverseRuns reverses the physical order of runs with index start to end,
// inclusive. Runs outside of this range are left untouched.
func (rl *RunList) ReverseRuns(start, end int) {
	if start >= end || start < 0 || end >= rl.count {
		return
	}
	var beforeStart *Run
	curr := rl.first
	i := 0
	for ; i < start; i++ {
		beforeStart = curr
		curr = curr.next
	}
	startRun := curr
	for i < end {
		i++
		curr = curr.next
	}
	endRun := curr
	afterEnd := curr.next
	curr = startRun
	newNext := afterEnd
	for i = start; i <= end; i++ {
		next := curr.next
		curr.next = newNext
		newNext = curr
		curr = next
	}
	if beforeStart != nil {
		beforeStart.next = endRun
	} else {
		rl.first = endRun
	}
	startRun.next = afterEnd
	if afterEnd == nil {
		rl.last = startRun
	}
}

// ReplaceRunWithRuns splices all runs of newRuns in place of toReplace.
// Pointers to the first, last and logically last run are fixed up if they
// referenced toReplace. Ownership of the runs moves to rl, newRuns is empty
// afterwards.
func (rl *RunList) ReplaceRunWithRuns(toReplace *Run, newRuns *RunList) {
	if toReplace == nil || newRuns.count == 0 || rl.first == nil {
		return
	}
	if rl.first == toReplace {
		rl.first = newRuns.first
	} else {
		prev := rl.first
		for prev.next != toReplace {
			if prev.next == nil {
				return // not a member
			}
			prev = prev.next
		}
		prev.next = newRuns.first
	}
	newRuns.last.next = toReplace.next
	if rl.last == toReplace {
		rl.last = newRuns.last
	}
	if rl.logicallyLast == toReplace {
		if newRuns.logicallyLast != nil {
			rl.logicallyLast = newRuns.logicallyLast
		} else {
			rl.logicallyLast = newRuns.last
		}
	}
	rl.count += newRuns.count - 1
	toReplace.next = nil
	newRuns.clear()
}

// DeleteRuns empties the list. It is safe to call it more than once.
func (rl *RunList) DeleteRuns() {
	for r := rl.first; r != nil; {
		next := r.next
		r.next = nil
		r = next
	}
	rl.clear()
}

func (rl *RunList) clear() {
	rl.first, rl.last, rl.logicallyLast = nil, nil, nil
	rl.count = 0
}

// Runs returns the runs in physical order.
func (rl *RunList) Runs() []*Run {
	runs := make([]*Run, 0, rl.count)
	for r := rl.first; r != nil; r = r.next {
		runs = append(runs, r)
	}
	return runs
}

func (rl *RunList) String() string {
	var b strings.Builder
	for r := rl.first; r != nil; r = r.next {
		b.WriteString(r.String())
	}
	return b.String()
}
