package bidi

// MidpointState tracks sub-ranges of a line which are to be ignored when
// creating runs, e.g. collapsed whitespace. Midpoints come in pairs: the
// first of a pair is the last position before an ignored range, the second
// one is the first position after it.
//
// The backing storage is kept across calls to Reset.
type MidpointState struct {
	midpoints []Iterator
	num       int
	current   int
	between   bool
}

// Reset rewinds the state for a new line.
func (m *MidpointState) Reset() {
	m.num = 0
	m.current = 0
	m.between = false
}

// StartIgnoringSpaces starts an ignored range after position it.
func (m *MidpointState) StartIgnoringSpaces(it Iterator) error {
	if m.num%2 != 0 {
		return ErrMidpointParity
	}
	m.add(it)
	return nil
}

// StopIgnoringSpaces ends an ignored range at position it.
func (m *MidpointState) StopIgnoringSpaces(it Iterator) error {
	if m.num%2 == 0 {
		return ErrMidpointParity
	}
	m.add(it)
	return nil
}

// EnsureCharacterGetsLineBox adds an empty ignored range in front of the
// character at sep, splitting it out into a run of its own.
func (m *MidpointState) EnsureCharacterGetsLineBox(sep Iterator) error {
	if sep.IsNull() {
		return ErrNullIterator
	}
	before := Iterator{text: sep.text, pos: sep.pos - 1, end: sep.end}
	if err := m.StartIgnoringSpaces(before); err != nil {
		return err
	}
	return m.StopIgnoringSpaces(sep)
}

// CheckMidpoints removes a dangling ignored range which starts beyond a
// line break. If collapseWhiteSpace is set, the preceding end point is moved
// back by one position to shave off a trailing space.
func (m *MidpointState) CheckMidpoints(lineBreak Iterator, collapseWhiteSpace bool) {
	if lineBreak.IsNull() || m.num == 0 || m.num%2 != 0 {
		return
	}
	endpoint := &m.midpoints[m.num-2]
	startpoint := m.midpoints[m.num-1]
	curr := *endpoint
	for !curr.AtEnd() && !curr.Equal(startpoint) && !curr.Equal(lineBreak) {
		curr.Increment()
	}
	if curr.Equal(lineBreak) {
		m.num--
		if collapseWhiteSpace {
			endpoint.pos--
		}
	}
}

// Midpoints returns the active midpoints.
func (m *MidpointState) Midpoints() []Iterator {
	return m.midpoints[:m.num]
}

// NumMidpoints returns the number of active midpoints.
func (m *MidpointState) NumMidpoints() int { return m.num }

// CurrentMidpoint returns the index of the next midpoint to consume.
func (m *MidpointState) CurrentMidpoint() int { return m.current }

// IncrementCurrentMidpoint consumes a midpoint.
func (m *MidpointState) IncrementCurrentMidpoint() { m.current++ }

// BetweenMidpoints is true while inside an ignored range.
func (m *MidpointState) BetweenMidpoints() bool { return m.between }

// SetBetweenMidpoints sets the in-range flag.
func (m *MidpointState) SetBetweenMidpoints(b bool) { m.between = b }

func (m *MidpointState) add(it Iterator) {
	if len(m.midpoints) <= m.num {
		m.midpoints = append(m.midpoints, make([]Iterator, 10)...)
	}
	m.midpoints[m.num] = it
	m.num++
}

func (m *MidpointState) next() (Iterator, bool) {
	if m.current >= m.num {
		return Iterator{}, false
	}
	return m.midpoints[m.current], true
}

// clone copies the state including its markers.
func (m *MidpointState) clone() MidpointState {
	c := *m
	c.midpoints = append([]Iterator(nil), m.midpoints[:m.num]...)
	return c
}
