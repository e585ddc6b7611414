package bidi

// VisualOverride forces a line into a visual order, bypassing the
// bidi algorithm.
type VisualOverride uint8

// Visual overrides
const (
	NoVisualOverride VisualOverride = iota
	VisualLeftToRightOverride
	VisualRightToLeftOverride
)

// IsolatedRun is a placeholder run covering the content of an isolate.
// Clients resolve the content with a separate resolver and splice the
// result back in, replacing Run.
type IsolatedRun struct {
	Run         *Run      // placeholder to be replaced
	Position    int       // first position of the isolated content within the line
	Level       uint8     // embedding level of the context enclosing the isolate
	Direction   Direction // direction of the isolate, as requested by its initiator
	FirstStrong bool      // direction has to be determined from content (FSI)
}

// Resolver resolves runs of text line by line. A resolver is not safe for
// concurrent use; independent paragraphs may be resolved concurrently with
// separate resolvers.
type Resolver struct {
	current, sor, eor, last Iterator
	status                  Status
	direction               Category // class of the run under construction
	endOfRunAtEndOfLine     Iterator
	endOfLine               Iterator
	reachedEndOfLine        bool
	lastBeforeET            Iterator // position of the last character before a run of ETs
	emptyRun                bool
	runs                    RunList
	midpoints               MidpointState
	nestedIsolateCount      int
	baseDepth               int // isolate depth of the resolver's own content
	isolatedRuns            []IsolatedRun
	midpointsForIsolate     map[*Run]MidpointState
	trailingSpaceRun        *Run
	paragraphDir            Direction
	explicitSequence        []embedding
	opts                    options
	err                     error
}

// NewResolver creates a resolver. Clients have to call SetStatus and
// SetPosition before resolving lines.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		direction: OtherNeutral,
		emptyRun:  true,
		opts:      applyOptions(opts),
	}
	return r
}

// Reset prepares r for re-use, keeping its options and the storage of its
// midpoint state.
func (r *Resolver) Reset() {
	m := r.midpoints
	m.Reset()
	opts := r.opts
	*r = Resolver{
		direction: OtherNeutral,
		emptyRun:  true,
		opts:      opts,
		midpoints: m,
	}
}

// --- Accessors -------------------------------------------------------------

// SetStatus sets the resolution state, usually from NewStatus or a status
// saved at the end of a previous line.
func (r *Resolver) SetStatus(s Status) {
	r.status = s
	if s.Context != nil {
		r.paragraphDir = s.Context.Root().Direction()
	}
}

// Status returns the current resolution state.
func (r *Resolver) Status() Status { return r.status }

// Context returns the current embedding context.
func (r *Resolver) Context() *Context { return r.status.Context }

// SetPosition positions r at it. nestedIsolateCount tells how many isolates
// enclosing it are to be treated as isolated from r's point of view.
func (r *Resolver) SetPosition(it Iterator, nestedIsolateCount int) {
	r.current = it
	r.nestedIsolateCount = nestedIsolateCount
	r.baseDepth = it.isolateDepth() - nestedIsolateCount
}

// SetPositionIgnoringNestedIsolates positions r at it, treating it as part
// of the content to resolve even if it lies within an isolate.
func (r *Resolver) SetPositionIgnoringNestedIsolates(it Iterator) {
	r.SetPosition(it, 0)
}

// Position returns the current position.
func (r *Resolver) Position() Iterator { return r.current }

// Runs returns the runs of the most recently resolved line.
func (r *Resolver) Runs() *RunList { return &r.runs }

// TrailingSpaceRun returns the run holding trailing whitespace after rule L1
// has been applied, or nil.
func (r *Resolver) TrailingSpaceRun() *Run { return r.trailingSpaceRun }

// IsolatedRuns returns the placeholder runs for isolates found in the
// most recently resolved line. Clients have to resolve and remove them
// before the resolver is released.
func (r *Resolver) IsolatedRuns() []IsolatedRun { return r.isolatedRuns }

// PopIsolatedRun removes and returns the last isolated run.
func (r *Resolver) PopIsolatedRun() (IsolatedRun, bool) {
	n := len(r.isolatedRuns)
	if n == 0 {
		return IsolatedRun{}, false
	}
	iso := r.isolatedRuns[n-1]
	r.isolatedRuns = r.isolatedRuns[:n-1]
	return iso, true
}

// PushIsolatedRun adds an isolated run to the list of runs to resolve.
func (r *Resolver) PushIsolatedRun(iso IsolatedRun) {
	r.isolatedRuns = append(r.isolatedRuns, iso)
}

// MidpointState returns the midpoints for the current line.
func (r *Resolver) MidpointState() *MidpointState { return &r.midpoints }

// SetMidpointState replaces the midpoints for the current line.
func (r *Resolver) SetMidpointState(m MidpointState) { r.midpoints = m }

// MidpointStateForIsolatedRun returns the midpoints which were active when
// an isolated run was created, and removes them from r.
func (r *Resolver) MidpointStateForIsolatedRun(run *Run) MidpointState {
	m, ok := r.midpointsForIsolate[run]
	if ok {
		delete(r.midpointsForIsolate, run)
	}
	return m
}

// SetMidpointStateForIsolatedRun stores midpoints for a placeholder run.
func (r *Resolver) SetMidpointStateForIsolatedRun(run *Run, m MidpointState) {
	if r.midpointsForIsolate == nil {
		r.midpointsForIsolate = make(map[*Run]MidpointState)
	}
	r.midpointsForIsolate[run] = m
}

// MarkCurrentRunEmpty discards the run under construction.
func (r *Resolver) MarkCurrentRunEmpty() { r.emptyRun = true }

// InIsolate is true while r is positioned within isolated content.
func (r *Resolver) InIsolate() bool { return r.nestedIsolateCount > 0 }

func (r *Resolver) enterIsolate() { r.nestedIsolateCount++ }

func (r *Resolver) exitIsolate() {
	if r.nestedIsolateCount > 0 {
		r.nestedIsolateCount--
	}
}

func (r *Resolver) increment() {
	r.current.Increment()
	r.syncIsolateNesting()
}

// syncIsolateNesting enters or exits isolates according to the nesting depth
// at the current position.
func (r *Resolver) syncIsolateNesting() {
	d := 0
	if !r.current.AtEnd() {
		d = r.current.isolateDepth() - r.baseDepth
	}
	for r.nestedIsolateCount < d {
		r.enterIsolate()
	}
	for r.nestedIsolateCount > d && r.nestedIsolateCount > 0 {
		r.exitIsolate()
	}
}

func (r *Resolver) fail(err error) {
	if r.err == nil {
		r.err = err
		T().Errorf("%v", err)
	}
}

// --- Line resolution -------------------------------------------------------

// lineEndState is the resolver state captured when reaching the end of a
// line. Resolution continues past the line end to resolve the last run and
// rewinds to the captured state afterwards.
type lineEndState struct {
	status           Status
	sor, eor, last   Iterator
	reachedEndOfLine bool
	lastBeforeET     Iterator
	emptyRun         bool
}

func (r *Resolver) captureLineEnd() lineEndState {
	return lineEndState{
		status:           r.status,
		sor:              r.sor,
		eor:              r.eor,
		last:             r.last,
		reachedEndOfLine: r.reachedEndOfLine,
		lastBeforeET:     r.lastBeforeET,
		emptyRun:         r.emptyRun,
	}
}

func (r *Resolver) restoreLineEnd(end Iterator, s lineEndState) {
	r.current = end
	r.status = s.status
	r.sor = s.sor
	r.eor = s.eor
	r.last = s.last
	r.reachedEndOfLine = s.reachedEndOfLine
	r.lastBeforeET = s.lastBeforeET
	r.emptyRun = s.emptyRun
	r.direction = OtherNeutral
	r.syncIsolateNesting()
}

// CreateBidiRunsForLine resolves the characters from the current position
// up to end into runs. If reorderRuns is set, runs will be in visual order
// afterwards (rule L2). A hard line break resets embeddings which have been
// introduced by Unicode formatting characters, but keeps embeddings from
// markup.
//
// Clients consume the runs, call Runs().DeleteRuns() and then continue with
// the next line.
func (r *Resolver) CreateBidiRunsForLine(end Iterator, override VisualOverride,
	hardLineBreak bool, reorderRuns bool) error {
	//
	r.err = nil
	if r.status.Context == nil {
		return ErrNoContext
	}
	if r.direction != OtherNeutral {
		return ErrInconsistentState
	}
	r.trailingSpaceRun = nil
	r.endOfLine = end

	if override != NoVisualOverride {
		r.createVisualRun(end, override)
		return r.err
	}

	r.emptyRun = true
	r.eor = Iterator{}
	r.last = r.current
	lastLineEnded := false
	var stateAtEnd lineEndState

	for {
		if r.InIsolate() && r.emptyRun {
			r.sor = r.current
			r.emptyRun = false
		}
		if !lastLineEnded && r.isEndOfLine(end) {
			if r.emptyRun {
				break
			}
			stateAtEnd = r.captureLineEnd()
			r.endOfRunAtEndOfLine = r.last
			lastLineEnded = true
		}
		var dirCurrent Category
		if lastLineEnded && (hardLineBreak || r.current.AtEnd()) {
			c := r.status.Context
			if hardLineBreak {
				// Hard line breaks reset embeddings coming from Unicode
				// formatting characters, but not those from markup.
				stateAtEnd.status.Context = c.withoutUnicodeContexts()
				dirCurrent = stateAtEnd.status.Context.Dir()
				stateAtEnd.status.Eor = dirCurrent
				stateAtEnd.status.Last = dirCurrent
				stateAtEnd.status.LastStrong = dirCurrent
			} else {
				dirCurrent = c.Root().Dir()
			}
		} else {
			dirCurrent = r.current.Direction()
			if dirCurrent.isIsolateControl() {
				dirCurrent = OtherNeutral
			}
			if r.status.Context.Override() && !dirCurrent.isExplicitEmbedding() {
				dirCurrent = r.status.Context.Dir()
			} else if dirCurrent == NonSpacingMark {
				dirCurrent = r.status.Last
			}
		}
		// Directions within isolates are ignored. Isolated content will be
		// resolved by a separate resolver.
		if r.InIsolate() {
			dirCurrent = OtherNeutral
		}

		switch dirCurrent {
		case RightToLeftEmbedding, LeftToRightEmbedding, RightToLeftOverride,
			LeftToRightOverride, PopDirectionalFormat:
			r.embed(dirCurrent, FromUnicode)
		case LeftToRight:
			r.resolveLeftToRight()
		case RightToLeft, RightToLeftArabic:
			r.resolveRightToLeft(dirCurrent)
		case EuropeanNumber:
			if r.status.LastStrong != RightToLeftArabic {
				r.resolveEuropeanNumber()
				break
			}
			// numbers following Arabic letters are Arabic numbers
			dirCurrent = r.resolveArabicNumber()
		case ArabicNumber:
			dirCurrent = r.resolveArabicNumber()
		case EuropeanNumberSeparator, CommonNumberSeparator:
			// decided by the following character
		case EuropeanNumberTerminator:
			if r.status.Last == EuropeanNumber {
				dirCurrent = EuropeanNumber
				r.eor = r.current
				r.status.Eor = dirCurrent
			} else if r.status.Last != EuropeanNumberTerminator {
				if r.emptyRun {
					r.lastBeforeET = r.eor
				} else {
					r.lastBeforeET = r.last
				}
			}
		case BoundaryNeutral:
			if r.eor.Equal(r.last) {
				r.eor = r.current
			}
		}

		if lastLineEnded && r.eor.Equal(r.current) {
			if !r.reachedEndOfLine {
				r.eor = r.endOfRunAtEndOfLine
				switch r.status.Eor {
				case LeftToRight, RightToLeft, ArabicNumber:
					r.direction = r.status.Eor
				case EuropeanNumber:
					if r.status.LastStrong == LeftToRight {
						r.direction = LeftToRight
					} else {
						r.direction = EuropeanNumber
					}
				default:
					r.fail(ErrInconsistentState)
					r.direction = r.status.Context.Dir()
				}
				r.appendRun()
			}
			r.restoreLineEnd(end, stateAtEnd)
			break
		}

		r.updateStatusLastFromCurrentDirection(dirCurrent)
		r.last = r.current
		if r.emptyRun {
			r.sor = r.current
			r.emptyRun = false
		}
		r.increment()
		if len(r.explicitSequence) > 0 {
			committed := r.commitExplicitEmbedding()
			if committed && lastLineEnded {
				r.restoreLineEnd(end, stateAtEnd)
				break
			}
		}
	}

	r.runs.SetLogicallyLastRun(r.runs.LastRun())
	if reorderRuns {
		r.runs.ReorderRunsFromLevels()
	}
	r.endOfRunAtEndOfLine = Iterator{}
	r.endOfLine = Iterator{}
	if !hardLineBreak && r.runs.RunCount() > 0 {
		r.applyL1Rule()
	}
	T().Debugf("bidi: line runs = %s", r.runs.String())
	return r.err
}

func (r *Resolver) isEndOfLine(end Iterator) bool {
	return r.current.Equal(end) || r.current.AtEnd()
}

// createVisualRun puts all characters up to end into one run, without any
// bidi resolution.
func (r *Resolver) createVisualRun(end Iterator, override VisualOverride) {
	r.emptyRun = false
	r.sor = r.current
	r.eor = Iterator{}
	for !r.current.Equal(end) && !r.current.AtEnd() {
		r.eor = r.current
		r.increment()
	}
	if override == VisualLeftToRightOverride {
		r.direction = LeftToRight
	} else {
		r.direction = RightToLeft
	}
	r.appendRun()
	r.runs.SetLogicallyLastRun(r.runs.LastRun())
	if override == VisualRightToLeftOverride && r.runs.RunCount() > 0 {
		r.runs.ReverseRuns(0, r.runs.RunCount()-1)
	}
}

// --- Transition tables -----------------------------------------------------

// isNeutralOrSeparator lists the classes which may be in status.Last while
// the resolution of a run is still pending.
func isNeutralOrSeparator(c Category) bool {
	switch c {
	case EuropeanNumberSeparator, EuropeanNumberTerminator, CommonNumberSeparator,
		BoundaryNeutral, BlockSeparator, SegmentSeparator, WhiteSpaceNeutral, OtherNeutral:
		return true
	}
	return false
}

func (r *Resolver) resolveLeftToRight() {
	switch last := r.status.Last; {
	case last == RightToLeft || last == RightToLeftArabic || last == EuropeanNumber || last == ArabicNumber:
		if last != EuropeanNumber || r.status.LastStrong != LeftToRight {
			r.appendRun()
		}
	case isNeutralOrSeparator(last):
		if r.status.Eor == EuropeanNumber {
			if r.status.LastStrong != LeftToRight {
				// numbers are on a higher embedding level; close that run
				r.direction = EuropeanNumber
				r.appendRun()
				if r.status.Context.Dir() != LeftToRight {
					// neutrals take the embedding direction, which is R
					r.eor = r.last
					r.direction = RightToLeft
					r.appendRun()
				}
			}
		} else if r.status.Eor == ArabicNumber {
			r.direction = ArabicNumber
			r.appendRun()
			if r.status.Context.Dir() != LeftToRight {
				r.eor = r.last
				r.direction = RightToLeft
				r.appendRun()
			}
		} else if r.status.LastStrong != LeftToRight {
			// neutrals take the embedding direction
			if r.status.Context.Dir() == RightToLeft {
				r.eor = r.last
				r.direction = RightToLeft
			}
			r.appendRun()
		}
	}
	r.eor = r.current
	r.status.Eor = LeftToRight
	r.status.LastStrong = LeftToRight
	r.direction = LeftToRight
}

func (r *Resolver) resolveRightToLeft(dirCurrent Category) {
	switch last := r.status.Last; {
	case last == LeftToRight || last == EuropeanNumber || last == ArabicNumber:
		r.appendRun()
	case isNeutralOrSeparator(last):
		if r.status.Eor == EuropeanNumber {
			if r.status.LastStrong == LeftToRight && r.status.Context.Dir() == LeftToRight {
				r.eor = r.last
			}
			r.appendRun()
		} else if r.status.Eor == ArabicNumber {
			r.appendRun()
		} else if r.status.LastStrong == LeftToRight {
			if r.status.Context.Dir() == LeftToRight {
				r.eor = r.last
			}
			r.appendRun()
		}
	}
	r.eor = r.current
	r.status.Eor = RightToLeft
	r.status.LastStrong = dirCurrent
	r.direction = RightToLeft
}

func (r *Resolver) beforeET() Iterator {
	if r.status.Last == EuropeanNumberTerminator {
		return r.lastBeforeET
	}
	return r.last
}

func (r *Resolver) resolveEuropeanNumber() {
	last := r.status.Last
	switch {
	case last == EuropeanNumber || last == LeftToRight:
		// continue run
	case last == RightToLeft || last == RightToLeftArabic || last == ArabicNumber:
		r.eor = r.last
		r.appendRun()
		r.direction = EuropeanNumber
	case isNeutralOrSeparator(last):
		if (last == EuropeanNumberSeparator || last == CommonNumberSeparator) &&
			r.status.Eor == EuropeanNumber {
			break // separator between numbers
		}
		switch {
		case r.status.Eor == EuropeanNumber:
			if r.status.LastStrong == RightToLeft {
				// numbers on both sides behave like R, so do the neutrals
				r.appendRun()
				r.eor = r.beforeET()
				r.direction = RightToLeft
				r.appendRun()
				r.direction = EuropeanNumber
			}
		case r.status.Eor == ArabicNumber:
			r.appendRun()
			if r.status.LastStrong == RightToLeft || r.status.Context.Dir() == RightToLeft {
				r.eor = r.beforeET()
				r.direction = RightToLeft
				r.appendRun()
				r.direction = EuropeanNumber
			}
		case r.status.LastStrong == RightToLeft:
			// extend the R run over the neutrals
			r.eor = r.beforeET()
			r.direction = RightToLeft
			r.appendRun()
			r.direction = EuropeanNumber
		}
	}
	r.eor = r.current
	r.status.Eor = EuropeanNumber
	if r.direction == OtherNeutral {
		r.direction = LeftToRight
	}
}

func (r *Resolver) resolveArabicNumber() Category {
	last := r.status.Last
	switch {
	case last == LeftToRight:
		if r.status.Context.Dir() == LeftToRight {
			r.appendRun()
		}
	case last == ArabicNumber:
		// continue run
	case last == RightToLeft || last == RightToLeftArabic || last == EuropeanNumber:
		r.eor = r.last
		r.appendRun()
	case isNeutralOrSeparator(last):
		if last == CommonNumberSeparator && r.status.Eor == ArabicNumber {
			break // separator between numbers
		}
		if r.status.Eor == ArabicNumber ||
			(r.status.Eor == EuropeanNumber && (r.status.LastStrong == RightToLeft ||
				r.status.Context.Dir() == RightToLeft)) ||
			(r.status.Eor != EuropeanNumber && r.status.LastStrong == LeftToRight &&
				r.status.Context.Dir() == RightToLeft) {
			// terminate the run before the neutrals and begin an R run for them
			r.appendRun()
			r.direction = RightToLeft
		} else if r.direction == OtherNeutral {
			if r.status.LastStrong == LeftToRight {
				r.direction = LeftToRight
			} else {
				r.direction = RightToLeft
			}
		}
		r.eor = r.last
		r.appendRun()
	}
	r.eor = r.current
	r.status.Eor = ArabicNumber
	if r.direction == OtherNeutral {
		r.direction = ArabicNumber
	}
	return ArabicNumber
}

func (r *Resolver) updateStatusLastFromCurrentDirection(dirCurrent Category) {
	switch dirCurrent {
	case EuropeanNumberTerminator:
		if r.status.Last != EuropeanNumber {
			r.status.Last = EuropeanNumberTerminator
		}
	case EuropeanNumberSeparator, CommonNumberSeparator, SegmentSeparator,
		WhiteSpaceNeutral, OtherNeutral:
		switch r.status.Last {
		case LeftToRight, RightToLeft, RightToLeftArabic, EuropeanNumber, ArabicNumber:
			r.status.Last = dirCurrent
		default:
			r.status.Last = OtherNeutral
		}
	case NonSpacingMark, BoundaryNeutral, RightToLeftEmbedding, LeftToRightEmbedding,
		RightToLeftOverride, LeftToRightOverride, PopDirectionalFormat:
		// ignored
	default:
		r.status.Last = dirCurrent
	}
}

// --- Run creation ----------------------------------------------------------

// appendRun closes the run under construction, spanning sor to eor
// (inclusive), and starts a new one after eor.
func (r *Resolver) appendRun() {
	if !r.emptyRun && !r.eor.AtEnd() {
		start := r.sor.Offset()
		end := r.eor.Offset()
		if !r.endOfRunAtEndOfLine.AtEnd() && end >= r.endOfRunAtEndOfLine.Offset() {
			r.reachedEndOfLine = true
			end = r.endOfRunAtEndOfLine.Offset()
		}
		if end >= start {
			r.appendRunsForSpan(start, end+1)
		}
		r.eor.Increment()
		r.sor = r.eor
	}
	r.direction = OtherNeutral
	r.status.Eor = OtherNeutral
}

// appendRunsForSpan creates runs for [start, stop), leaving out ranges
// between midpoints.
func (r *Resolver) appendRunsForSpan(start, stop int) {
	m := &r.midpoints
	for start < stop {
		next, ok := m.next()
		if m.BetweenMidpoints() {
			if !ok || next.Offset() >= stop {
				return // rest of span is ignored
			}
			m.SetBetweenMidpoints(false)
			m.IncrementCurrentMidpoint()
			if next.Offset() > start {
				start = next.Offset()
			}
			continue
		}
		if !ok || next.IsNull() || next.Offset() >= stop {
			r.addRunsSplittingIsolates(start, stop)
			return
		}
		m.SetBetweenMidpoints(true)
		m.IncrementCurrentMidpoint()
		if next.Offset()+1 > start {
			r.addRunsSplittingIsolates(start, next.Offset()+1)
			start = next.Offset() + 1
		}
	}
}

// addRunsSplittingIsolates creates runs for [start, stop). Content of
// isolates (relative to the resolver's own content) is put into placeholder
// runs, one per isolate.
func (r *Resolver) addRunsSplittingIsolates(start, stop int) {
	t := r.sor.Text()
	if t == nil {
		t = r.current.Text()
	}
	if t == nil {
		r.addLimitedRuns(start, stop)
		return
	}
	for i := start; i < stop; {
		isolated := t.IsolateDepth(i) > r.baseDepth
		j := i + 1
		for j < stop && (t.IsolateDepth(j) > r.baseDepth) == isolated {
			j++
		}
		if isolated {
			r.addIsolatedRun(t, i, j)
		} else {
			r.addLimitedRuns(i, j)
		}
		i = j
	}
}

func (r *Resolver) addIsolatedRun(t *Text, start, stop int) {
	run := NewRun(start, stop, r.status.Context, r.direction)
	r.runs.AddRun(run)
	iso := IsolatedRun{
		Run:      run,
		Position: start,
		Level:    r.status.Context.Level(),
	}
	if k := t.isolateInitiator(start, r.baseDepth); k >= 0 {
		switch t.ClassAt(k) {
		case RightToLeftIsolate:
			iso.Direction = RTL
		case FirstStrongIsolate:
			iso.FirstStrong = true
		}
	}
	r.isolatedRuns = append(r.isolatedRuns, iso)
	r.SetMidpointStateForIsolatedRun(run, r.midpoints.clone())
	T().Debugf("bidi: isolated run %v", run)
}

func (r *Resolver) addLimitedRuns(start, stop int) {
	limit := r.opts.maxRunLength
	if limit <= 0 {
		r.runs.AddRun(NewRun(start, stop, r.status.Context, r.direction))
		return
	}
	for start < stop {
		end := min(stop, start+limit)
		r.runs.AddRun(NewRun(start, end, r.status.Context, r.direction))
		start = end
	}
}

// Release checks that no isolated runs are left unresolved and clears r.
func (r *Resolver) Release() error {
	if len(r.isolatedRuns) > 0 {
		r.Reset()
		return ErrResidualIsolatedRuns
	}
	r.Reset()
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
