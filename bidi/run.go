package bidi

import "fmt"

// A Run is a contiguous span [Start, Stop) of characters sharing an embedding
// level. Runs hold positions, not characters.
type Run struct {
	Start, Stop int      // positions of the first and behind the last character
	Level       uint8    // resolved embedding level
	Dir         Category // L, R, EN or AN; neutral runs take the direction of their context
	Override    bool     // run has been created within an override
	next        *Run
}

// NewRun creates a run for a span within a given embedding context. The
// level of the run is derived from the context's level and the resolved
// class of the span (UAX#9 rules I1 and I2).
func NewRun(start, stop int, ctx *Context, dir Category) *Run {
	if dir == OtherNeutral {
		dir = ctx.Dir()
	}
	r := &Run{
		Start:    start,
		Stop:     stop,
		Level:    ctx.Level(),
		Dir:      dir,
		Override: ctx.Override(),
	}
	if r.Level&1 == 1 {
		if dir == LeftToRight || dir == ArabicNumber || dir == EuropeanNumber {
			r.Level++
		}
	} else {
		if dir == RightToLeft {
			r.Level++
		} else if dir == ArabicNumber || dir == EuropeanNumber {
			r.Level += 2
		}
	}
	return r
}

// Next returns the physically next run in a run list.
func (r *Run) Next() *Run {
	return r.next
}

// Len returns the number of characters covered by r.
func (r *Run) Len() int {
	return r.Stop - r.Start
}

// Direction is the visual direction of r, given by the parity of its level.
func (r *Run) Direction() Direction {
	return directionOf(r.Level)
}

func (r *Run) String() string {
	return fmt.Sprintf("[%d-%s/%d-%d]", r.Start, r.Dir, r.Level, r.Stop)
}
