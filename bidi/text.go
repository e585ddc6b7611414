package bidi

import (
	"unicode"
	"unicode/utf16"
)

// Source is a random access sequence of code-points (or code units, see
// UTF16Source). Positions are indices into the sequence.
type Source interface {
	Len() int
	RuneAt(pos int) rune
}

type runeSource []rune

func (s runeSource) Len() int            { return len(s) }
func (s runeSource) RuneAt(pos int) rune { return s[pos] }

// UTF16Source is a Source over UTF-16 code units. Surrogate pairs occupy two
// positions, and unpaired surrogates may occur.
type UTF16Source []uint16

// Len returns the number of code units.
func (s UTF16Source) Len() int { return len(s) }

// RuneAt returns the code unit at pos.
func (s UTF16Source) RuneAt(pos int) rune { return rune(s[pos]) }

// --- Text ------------------------------------------------------------------

// Text is a paragraph of text prepared for bidi resolution. It caches the
// bidi category of every position and the nesting structure of isolates.
// A Text is read-only after creation.
type Text struct {
	src     Source
	classes []Category
	depth   []int32 // isolate nesting depth per position
	closing []int32 // for isolate initiators: position of matching PDI or end of isolate
}

// NewText prepares a source for resolution.
// The only option respected is Testing.
func NewText(src Source, opts ...Option) *Text {
	o := applyOptions(opts)
	t := &Text{src: src}
	n := src.Len()
	t.classes = make([]Category, n)
	for i := 0; i < n; i++ {
		r := src.RuneAt(i)
		if o.hasMode(optionTesting) && r < unicode.MaxASCII && unicode.IsUpper(r) {
			t.classes[i] = RightToLeft
			continue
		}
		if utf16.IsSurrogate(r) && i+1 < n {
			if c := utf16.DecodeRune(r, src.RuneAt(i+1)); c != unicode.ReplacementChar {
				t.classes[i] = ClassOf(c)
				t.classes[i+1] = t.classes[i]
				i++
				continue
			}
		}
		t.classes[i] = ClassOf(r)
	}
	t.matchIsolates()
	return t
}

// TextFromString creates a Text for the code-points of s.
func TextFromString(s string, opts ...Option) *Text {
	return NewText(runeSource([]rune(s)), opts...)
}

// TextFromRunes creates a Text for a slice of code-points.
func TextFromRunes(runes []rune, opts ...Option) *Text {
	return NewText(runeSource(runes), opts...)
}

// Matching of isolate initiators with PDIs, as per UAX#9 BD9. Every
// paragraph separator terminates all open isolates.
func (t *Text) matchIsolates() {
	n := len(t.classes)
	t.depth = make([]int32, n)
	t.closing = make([]int32, n)
	stack := make([]int, 0, 8)
	closeAll := func(at int) {
		for _, open := range stack {
			t.closing[open] = int32(at)
		}
		stack = stack[:0]
	}
	for i, c := range t.classes {
		t.closing[i] = -1
		switch {
		case c.isIsolateInitiator():
			t.depth[i] = int32(len(stack))
			stack = append(stack, i)
		case c == PopDirectionalIsolate:
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				t.closing[open] = int32(i)
			}
			t.depth[i] = int32(len(stack))
		case c == BlockSeparator:
			closeAll(i)
		default:
			t.depth[i] = int32(len(stack))
		}
	}
	closeAll(n)
}

// Len returns the number of positions.
func (t *Text) Len() int { return len(t.classes) }

// RuneAt returns the code-point (or code unit) at pos.
func (t *Text) RuneAt(pos int) rune { return t.src.RuneAt(pos) }

// Source returns the underlying source.
func (t *Text) Source() Source { return t.src }

// ClassAt returns the bidi category at pos.
func (t *Text) ClassAt(pos int) Category {
	if pos < 0 || pos >= len(t.classes) {
		return OtherNeutral
	}
	return t.classes[pos]
}

// IsolateDepth returns the number of isolates enclosing pos. Isolate
// initiators and their PDIs belong to the enclosing level.
func (t *Text) IsolateDepth(pos int) int {
	if pos < 0 || pos >= len(t.depth) {
		return 0
	}
	return int(t.depth[pos])
}

// IsolateEnd returns the position of the PDI closing the isolate started at
// initiator, or the end of the paragraph for unmatched initiators.
// It returns -1 if there is no isolate initiator at the position.
func (t *Text) IsolateEnd(initiator int) int {
	if initiator < 0 || initiator >= len(t.closing) {
		return -1
	}
	return int(t.closing[initiator])
}

// isolateInitiator finds the initiator of the isolate containing pos, where
// the initiator is nested at depth base.
func (t *Text) isolateInitiator(pos int, base int) int {
	for i := pos - 1; i >= 0; i-- {
		if int(t.depth[i]) <= base {
			if t.classes[i].isIsolateInitiator() {
				return i
			}
			return -1
		}
	}
	return -1
}

// CodePath classifies the text as simple or complex.
func (t *Text) CodePath() CodePath {
	if rs, ok := t.src.(runeSource); ok {
		return CodePathFor(rs)
	}
	runes := make([]rune, t.Len())
	for i := range runes {
		runes[i] = t.src.RuneAt(i)
	}
	return CodePathFor(runes)
}

// IteratorAt returns an iterator positioned at pos, ranging to the end of t.
func (t *Text) IteratorAt(pos int) Iterator {
	return Iterator{text: t, pos: pos, end: t.Len()}
}

// RangeIterator returns an iterator positioned at pos which will be at its
// end at position end.
func (t *Text) RangeIterator(pos, end int) Iterator {
	if end > t.Len() {
		end = t.Len()
	}
	return Iterator{text: t, pos: pos, end: end}
}

// --- Iterator --------------------------------------------------------------

// Iterator is a position within a Text. The zero value is a null iterator,
// which is always at its end.
type Iterator struct {
	text *Text
	pos  int
	end  int
}

// IsNull is true for the zero value iterator.
func (it Iterator) IsNull() bool {
	return it.text == nil
}

// Current returns the code-point at the position of it, or 0 at the end.
func (it Iterator) Current() rune {
	if it.AtEnd() {
		return 0
	}
	return it.text.RuneAt(it.pos)
}

// Increment advances it by one position.
func (it *Iterator) Increment() {
	if it.text != nil && it.pos < it.end {
		it.pos++
	}
}

// AtEnd is true if there are no more positions to visit.
func (it Iterator) AtEnd() bool {
	return it.text == nil || it.pos >= it.end
}

// AtParagraphSeparator is true if it is positioned at a paragraph separator.
func (it Iterator) AtParagraphSeparator() bool {
	return !it.AtEnd() && it.text.ClassAt(it.pos) == BlockSeparator
}

// Offset returns the position of it.
func (it Iterator) Offset() int {
	return it.pos
}

// Limit returns the position at which it will be at its end.
func (it Iterator) Limit() int {
	return it.end
}

// Direction returns the bidi category at the position of it.
func (it Iterator) Direction() Category {
	if it.AtEnd() {
		return OtherNeutral
	}
	return it.text.ClassAt(it.pos)
}

// Text returns the text it iterates over.
func (it Iterator) Text() *Text {
	return it.text
}

// Equal is true if both iterators denote the same position in the same text.
func (it Iterator) Equal(o Iterator) bool {
	return it.text == o.text && it.pos == o.pos
}

func (it Iterator) isolateDepth() int {
	if it.text == nil {
		return 0
	}
	return it.text.IsolateDepth(it.pos)
}
