package bidi

import "unicode/utf16"

// DetermineParagraphDirectionality scans forward from the current position
// for the first strong character, skipping over isolates, and stops at the
// end of the paragraph. If no strong character is found, LTR is returned
// with hasStrong set to false.
//
// This is used for paragraphs without a declared direction (rules P2 and P3).
// The scan moves the resolver's position.
func (r *Resolver) DetermineParagraphDirectionality() (dir Direction, hasStrong bool) {
	return r.determineDirectionality(true)
}

// DetermineDirectionality works like DetermineParagraphDirectionality, but
// does not stop at paragraph separators. It is used for the content of
// first-strong isolates.
func (r *Resolver) DetermineDirectionality() (dir Direction, hasStrong bool) {
	return r.determineDirectionality(false)
}

func (r *Resolver) determineDirectionality(breakOnParagraph bool) (Direction, bool) {
	for !r.current.AtEnd() {
		if r.InIsolate() {
			r.increment()
			continue
		}
		if breakOnParagraph && r.current.AtParagraphSeparator() {
			break
		}
		c := r.current.Direction()
		if cp := r.current.Current(); utf16.IsSurrogate(cp) {
			r.increment()
			if !isSurrogateLead(cp) || r.current.AtEnd() {
				continue // drop unpaired surrogate
			}
			low := r.current.Current()
			if !isSurrogateTrail(low) {
				continue // invalid pair, retry with next code unit
			}
			c = ClassOf(utf16.DecodeRune(cp, low))
		}
		switch c {
		case LeftToRight:
			return LTR, true
		case RightToLeft, RightToLeftArabic:
			return RTL, true
		}
		r.increment()
	}
	return LTR, false
}

func isSurrogateLead(r rune) bool {
	return r >= 0xd800 && r < 0xdc00
}

func isSurrogateTrail(r rune) bool {
	return r >= 0xdc00 && r < 0xe000
}
