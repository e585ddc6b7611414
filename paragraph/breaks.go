package paragraph

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/npillmayer/bidiline/bidi"
	"github.com/rivo/uniseg"
)

// BreakCache holds the line break opportunities of a text. It is filled on
// first use and refilled whenever it is consulted for a different text.
// The zero value is ready to use.
type BreakCache struct {
	text      *bidi.Text
	breakable []bool // breakable[i]: break opportunity before position i
	mandatory []bool // mandatory[i]: line has to end before position i
}

// IsBreakable is true if there is a line break opportunity in front of
// position pos in the text of it. The end of the text is always breakable,
// its start never is.
func IsBreakable(it bidi.Iterator, pos int, cache *BreakCache) bool {
	t := it.Text()
	if t == nil || pos <= 0 {
		return false
	}
	if pos >= t.Len() {
		return true
	}
	if cache == nil {
		cache = &BreakCache{}
	}
	cache.fill(t)
	return cache.breakable[pos]
}

// IsMandatoryBreak is true if a line has to end in front of position pos.
func IsMandatoryBreak(it bidi.Iterator, pos int, cache *BreakCache) bool {
	t := it.Text()
	if t == nil || pos <= 0 || pos > t.Len() {
		return false
	}
	if cache == nil {
		cache = &BreakCache{}
	}
	cache.fill(t)
	return cache.mandatory[pos]
}

func (c *BreakCache) fill(t *bidi.Text) {
	if c.text == t {
		return
	}
	c.text = t
	n := t.Len()
	c.breakable = make([]bool, n+1)
	c.mandatory = make([]bool, n+1)
	// decode surrogates of UTF-16 sources and remember the source position
	// of every code-point
	var b strings.Builder
	starts := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		r := t.RuneAt(i)
		starts = append(starts, i)
		if utf16.IsSurrogate(r) && i+1 < n {
			if d := utf16.DecodeRune(r, t.RuneAt(i+1)); d != utf8.RuneError {
				r = d
				i++
			}
		}
		b.WriteRune(r)
	}
	starts = append(starts, n)
	rest, state := b.String(), -1
	count := 0
	for len(rest) > 0 {
		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)
		count += utf8.RuneCountInString(segment)
		pos := starts[count]
		c.breakable[pos] = true
		c.mandatory[pos] = mustBreak && len(rest) > 0
	}
	T().Debugf("break opportunities computed for %d positions", n)
}

// nextBreak finds the last break opportunity in (from, limit] or, if there
// is none, the first one after limit. A mandatory break within the range
// wins. The second result tells if the break is mandatory.
func (c *BreakCache) nextBreak(from, limit int) (int, bool) {
	n := c.text.Len()
	if limit > n {
		limit = n
	}
	last := -1
	for pos := from + 1; pos <= limit; pos++ {
		if c.mandatory[pos] {
			return pos, true
		}
		if c.breakable[pos] {
			last = pos
		}
	}
	if last > 0 {
		return last, false
	}
	for pos := limit + 1; pos <= n; pos++ {
		if c.breakable[pos] {
			return pos, c.mandatory[pos]
		}
	}
	return n, false
}
