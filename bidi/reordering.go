package bidi

// --- Reordering (L1, L2) ---------------------------------------------------

// ReorderRunsFromLevels implements UAX#9 rule L2: from the highest level
// found in the runs to the lowest odd level, reverse any contiguous sequence
// of runs that are at that level or higher.
//
// Only the order of runs is changed. Clients are responsible for reversing
// the characters within runs of odd level.
func (rl *RunList) ReorderRunsFromLevels() {
	if rl.count == 0 {
		return
	}
	levelLow, levelHigh := uint8(MaxLevel), uint8(0)
	for run := rl.first; run != nil; run = run.next {
		if run.Level > levelHigh {
			levelHigh = run.Level
		}
		if run.Level < levelLow {
			levelLow = run.Level
		}
	}
	// reversing is only done up to the lowest odd level
	if levelLow%2 == 0 {
		levelLow++
	}
	count := rl.count - 1
	for ; levelHigh >= levelLow; levelHigh-- {
		i := 0
		run := rl.first
		for i < count {
			for ; i < count && run != nil && run.Level < levelHigh; i++ {
				run = run.next
			}
			start := i
			for ; i <= count && run != nil && run.Level >= levelHigh; i++ {
				run = run.next
			}
			end := i - 1
			rl.ReverseRuns(start, end)
		}
	}
}

// applyL1Rule resets trailing whitespace of a line to the paragraph level
// (UAX#9 rule L1) and moves it to the visual end of the line, which is the
// start of the run list for RTL paragraphs.
func (r *Resolver) applyL1Rule() {
	if r.opts.hasMode(optionSkipL1) || r.runs.LogicallyLastRun() == nil {
		return
	}
	trailing := r.runs.LogicallyLastRun()
	firstSpace := r.findFirstTrailingSpace(trailing)
	if firstSpace == trailing.Stop {
		return
	}
	var shouldReorder bool
	if r.paragraphDir == LTR {
		shouldReorder = trailing != r.runs.LastRun()
	} else {
		shouldReorder = trailing != r.runs.FirstRun()
	}
	base := r.status.Context.Root()
	if firstSpace != trailing.Start {
		r.trailingSpaceRun = r.addTrailingRun(firstSpace, trailing.Stop, base)
		trailing.Stop = firstSpace
		return
	}
	if !shouldReorder {
		r.trailingSpaceRun = trailing
		return
	}
	if r.paragraphDir == LTR {
		r.runs.MoveRunToEnd(trailing)
	} else {
		r.runs.MoveRunToBeginning(trailing)
	}
	trailing.Level = base.Level()
	r.trailingSpaceRun = trailing
}

func (r *Resolver) addTrailingRun(start, stop int, base *Context) *Run {
	run := NewRun(start, stop, base, OtherNeutral)
	if r.paragraphDir == LTR {
		r.runs.AddRun(run)
	} else {
		r.runs.PrependRun(run)
	}
	return run
}

// findFirstTrailingSpace returns the position of the first character of
// the sequence of whitespace at the end of run.
func (r *Resolver) findFirstTrailingSpace(run *Run) int {
	t := r.current.Text()
	if t == nil {
		return run.Stop
	}
	pos := run.Stop
	for pos > run.Start && isTrailingWhitespace(t.ClassAt(pos-1)) {
		pos--
	}
	return pos
}

// Whitespace, segment separators, and characters removed by X9 and
// isolate formatting characters count as trailing whitespace.
func isTrailingWhitespace(c Category) bool {
	switch c {
	case WhiteSpaceNeutral, SegmentSeparator, BlockSeparator, BoundaryNeutral:
		return true
	}
	return c.isExplicitEmbedding() || c.isIsolateControl()
}
