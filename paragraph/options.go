package paragraph

import "github.com/npillmayer/bidiline/bidi"

// Option configures a paragraph.
type Option func(*options)

type options struct {
	mode     uint
	dir      bidi.Direction
	visual   bidi.VisualOverride
	resolver []bidi.Option
}

const (
	optionAuto      uint = 1 << iota // find direction from first strong character
	optionLocale                     // take direction from user locale
	optionOverride                   // paragraph level override
	optionNoReorder                  // leave runs in logical order
	optionTesting                    // uppercase ASCII is R
)

// Direction sets the base direction of a paragraph explicitly.
func Direction(dir bidi.Direction) Option {
	return func(o *options) {
		o.dir = dir
		o.mode &^= optionAuto | optionLocale
	}
}

// AutoDirection determines the base direction from the first strong
// character of the paragraph. Paragraphs without strong characters
// fall back to the direction set with Direction, LTR by default.
func AutoDirection() Option {
	return func(o *options) {
		o.setMode(optionAuto, true)
	}
}

// DirectionFromLocale uses the direction of the script of the user's
// locale as base direction.
func DirectionFromLocale() Option {
	return func(o *options) {
		o.setMode(optionLocale, true)
	}
}

// Override forces the base direction onto all characters of the paragraph,
// as with markup declaring a bidi override.
func Override(b bool) Option {
	return func(o *options) {
		o.setMode(optionOverride, b)
	}
}

// VisualOverride bypasses the bidi algorithm and puts every line into one
// run of the given visual direction.
func VisualOverride(v bidi.VisualOverride) Option {
	return func(o *options) {
		o.visual = v
	}
}

// ReorderRuns switches visual reordering of runs (rule L2) on or off.
// It is on by default.
func ReorderRuns(b bool) Option {
	return func(o *options) {
		o.setMode(optionNoReorder, !b)
	}
}

// Testing treats uppercase ASCII letters as strong right-to-left characters.
func Testing(b bool) Option {
	return func(o *options) {
		o.setMode(optionTesting, b)
	}
}

// ResolverOptions passes options on to every resolver the paragraph uses.
func ResolverOptions(opts ...bidi.Option) Option {
	return func(o *options) {
		o.resolver = append(o.resolver, opts...)
	}
}

func (o *options) setMode(m uint, b bool) {
	if b {
		o.mode |= m
	} else {
		o.mode &^= m
	}
}

func (o options) hasMode(m uint) bool {
	return o.mode&m > 0
}
