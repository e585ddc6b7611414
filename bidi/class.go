package bidi

import (
	"unicode"

	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/rangetable"
)

// Category is the bidi class of a code-point, as used by the resolver.
// It is derived from the Bidi_Class property of the Unicode Character Database.
type Category uint8

// Bidi categories. The first 19 categories correspond to the classic
// UAX#9 classes; the isolate controls have been added with Unicode 6.3.
const (
	LeftToRight              Category = iota // L
	RightToLeft                              // R
	EuropeanNumber                           // EN
	EuropeanNumberSeparator                  // ES
	EuropeanNumberTerminator                 // ET
	ArabicNumber                             // AN
	CommonNumberSeparator                    // CS
	BlockSeparator                           // B
	SegmentSeparator                         // S
	WhiteSpaceNeutral                        // WS
	OtherNeutral                             // ON
	LeftToRightEmbedding                     // LRE
	LeftToRightOverride                      // LRO
	RightToLeftArabic                        // AL
	RightToLeftEmbedding                     // RLE
	RightToLeftOverride                      // RLO
	PopDirectionalFormat                     // PDF
	NonSpacingMark                           // NSM
	BoundaryNeutral                          // BN
	LeftToRightIsolate                       // LRI
	RightToLeftIsolate                       // RLI
	FirstStrongIsolate                       // FSI
	PopDirectionalIsolate                    // PDI
)

var categoryNames = [...]string{
	"L", "R", "EN", "ES", "ET", "AN", "CS", "B", "S", "WS", "ON",
	"LRE", "LRO", "AL", "RLE", "RLO", "PDF", "NSM", "BN",
	"LRI", "RLI", "FSI", "PDI",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "<cat?>"
}

// IsStrong is true for L, R and AL.
func (c Category) IsStrong() bool {
	return c == LeftToRight || c == RightToLeft || c == RightToLeftArabic
}

func (c Category) isExplicitEmbedding() bool {
	switch c {
	case LeftToRightEmbedding, LeftToRightOverride, RightToLeftEmbedding,
		RightToLeftOverride, PopDirectionalFormat:
		return true
	}
	return false
}

func (c Category) isIsolateControl() bool {
	return c >= LeftToRightIsolate && c <= PopDirectionalIsolate
}

func (c Category) isIsolateInitiator() bool {
	return c == LeftToRightIsolate || c == RightToLeftIsolate || c == FirstStrongIsolate
}

// ClassOf returns the bidi category of a code-point.
func ClassOf(r rune) Category {
	props, sz := bidi.LookupRune(r)
	if sz == 0 {
		return OtherNeutral
	}
	return fromClass(props.Class())
}

func fromClass(c bidi.Class) Category {
	switch c {
	case bidi.L:
		return LeftToRight
	case bidi.R:
		return RightToLeft
	case bidi.EN:
		return EuropeanNumber
	case bidi.ES:
		return EuropeanNumberSeparator
	case bidi.ET:
		return EuropeanNumberTerminator
	case bidi.AN:
		return ArabicNumber
	case bidi.CS:
		return CommonNumberSeparator
	case bidi.B:
		return BlockSeparator
	case bidi.S:
		return SegmentSeparator
	case bidi.WS:
		return WhiteSpaceNeutral
	case bidi.ON:
		return OtherNeutral
	case bidi.BN:
		return BoundaryNeutral
	case bidi.NSM:
		return NonSpacingMark
	case bidi.AL:
		return RightToLeftArabic
	case bidi.LRO:
		return LeftToRightOverride
	case bidi.RLO:
		return RightToLeftOverride
	case bidi.LRE:
		return LeftToRightEmbedding
	case bidi.RLE:
		return RightToLeftEmbedding
	case bidi.PDF:
		return PopDirectionalFormat
	case bidi.LRI:
		return LeftToRightIsolate
	case bidi.RLI:
		return RightToLeftIsolate
	case bidi.FSI:
		return FirstStrongIsolate
	case bidi.PDI:
		return PopDirectionalIsolate
	}
	return OtherNeutral
}

// --- Direction -------------------------------------------------------------

// Direction is the resolved direction of a paragraph or an embedding.
type Direction uint8

// Directions
const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "RTL"
	}
	return "LTR"
}

// Category returns the strong category for d, i.e. L or R.
func (d Direction) Category() Category {
	if d == RTL {
		return RightToLeft
	}
	return LeftToRight
}

func directionOf(level uint8) Direction {
	if level&1 == 1 {
		return RTL
	}
	return LTR
}

// --- Code paths ------------------------------------------------------------

// CodePath tells clients whether a text may be rendered with a simple
// glyph-by-glyph path or needs a complex shaping path.
type CodePath uint8

// Code paths
const (
	SimplePath CodePath = iota
	ComplexPath
)

func (p CodePath) String() string {
	if p == ComplexPath {
		return "complex"
	}
	return "simple"
}

// Emoji modifiers (Fitzpatrick skin tones) and tag characters
var emojiModifiers = &unicode.RangeTable{
	R32: []unicode.Range32{
		{Lo: 0x1f3fb, Hi: 0x1f3ff, Stride: 1},
		{Lo: 0xe0020, Hi: 0xe007f, Stride: 1},
	},
}

var complexScripts = rangetable.Merge(
	unicode.Mn, unicode.Me,
	unicode.Arabic, unicode.Hebrew, unicode.Syriac, unicode.Thaana, unicode.Nko,
	unicode.Devanagari, unicode.Bengali, unicode.Gurmukhi, unicode.Gujarati,
	unicode.Oriya, unicode.Tamil, unicode.Telugu, unicode.Kannada,
	unicode.Malayalam, unicode.Sinhala, unicode.Thai, unicode.Lao,
	unicode.Tibetan, unicode.Myanmar, unicode.Khmer, unicode.Mongolian,
	unicode.Hangul,
	unicode.Variation_Selector, unicode.Join_Control,
	emojiModifiers,
)

// CodePathFor classifies a sequence of runes. Any rune requiring contextual
// shaping, combining or joining behaviour selects the complex path.
func CodePathFor(runes []rune) CodePath {
	for _, r := range runes {
		if r < 0x300 { // nothing below combining diacritical marks is complex
			continue
		}
		if unicode.Is(complexScripts, r) {
			return ComplexPath
		}
	}
	return SimplePath
}
