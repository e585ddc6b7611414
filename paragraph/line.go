package paragraph

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/npillmayer/bidiline/bidi"
)

// Line is a resolved line of a paragraph, spanning text positions
// [Start, End).
type Line struct {
	Start, End    int
	Runs          []*bidi.Run // runs in visual order
	TrailingSpace *bidi.Run   // run of trailing whitespace (rule L1), or nil
	Direction     bidi.Direction
	text          *bidi.Text
}

// Len returns the number of positions of the line.
func (l *Line) Len() int {
	return l.End - l.Start
}

// Levels returns the resolved embedding level for every position of the
// line, in logical order.
func (l *Line) Levels() []uint8 {
	levels := make([]uint8, l.Len())
	for _, run := range l.Runs {
		for i := run.Start; i < run.Stop; i++ {
			levels[i-l.Start] = run.Level
		}
	}
	return levels
}

// VisualOrder returns the text positions of the line in visual order.
func (l *Line) VisualOrder() []int {
	order := make([]int, 0, l.Len())
	for _, run := range l.Runs {
		if run.Direction() == bidi.LTR {
			for i := run.Start; i < run.Stop; i++ {
				order = append(order, i)
			}
			continue
		}
		for i := run.Stop - 1; i >= run.Start; i-- {
			order = append(order, i)
		}
	}
	return order
}

// Visual returns the characters of the line in visual order. Surrogate
// pairs are kept intact. Mirroring of characters (rule L4) is left to
// the client.
func (l *Line) Visual() string {
	var b strings.Builder
	order := l.VisualOrder()
	for k := 0; k < len(order); k++ {
		r := l.text.RuneAt(order[k])
		if utf16.IsSurrogate(r) && k+1 < len(order) {
			// order of pairs is reversed in RTL runs
			hi, lo := r, l.text.RuneAt(order[k+1])
			if lo < hi {
				hi, lo = lo, hi
			}
			if d := utf16.DecodeRune(hi, lo); d != unicode.ReplacementChar {
				b.WriteRune(d)
				k++
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l *Line) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line[%d,%d) %s:", l.Start, l.End, l.Direction)
	for _, run := range l.Runs {
		b.WriteString(run.String())
	}
	return b.String()
}
