package bidi

import "fmt"

// Status is the resumable state of bidi resolution at a given position.
// Clients may store a Status at a line end and use it to continue
// resolution later.
type Status struct {
	Eor        Category // class of the end of the current run
	LastStrong Category // last strong class seen
	Last       Category // last class seen
	Context    *Context // current embedding
}

// NewStatus creates the status for the start of a paragraph.
func NewStatus(dir Direction, override bool) Status {
	c := dir.Category()
	var level uint8
	if dir == RTL {
		level = 1
	}
	return Status{
		Eor:        c,
		LastStrong: c,
		Last:       c,
		Context:    NewContext(level, dir, override, FromMarkup),
	}
}

// StatusForIsolate creates the status for resolving the content of an
// isolate. level is the level of the run enclosing the isolate.
func StatusForIsolate(dir Direction, override bool, level uint8) Status {
	if dir == LTR {
		level = nextGreaterEvenLevel(level)
	} else {
		level = nextGreaterOddLevel(level)
	}
	c := dir.Category()
	return Status{
		Eor:        c,
		LastStrong: c,
		Last:       c,
		Context:    NewContext(level, dir, override, FromMarkup),
	}
}

// Equal is true if all the members of both statuses match. Contexts are
// compared structurally.
func (s Status) Equal(o Status) bool {
	if s.Eor != o.Eor || s.LastStrong != o.LastStrong || s.Last != o.Last {
		return false
	}
	if s.Context == nil || o.Context == nil {
		return s.Context == o.Context
	}
	return s.Context.Equal(o.Context)
}

func (s Status) String() string {
	return fmt.Sprintf("status{eor=%s, strong=%s, last=%s, ctx=%s}",
		s.Eor, s.LastStrong, s.Last, s.Context)
}
