package bidi

// --- Options ---------------------------------------------------------------

// Option configures texts and resolvers.
type Option func(*options)

type options struct {
	mode         uint
	maxRunLength int
}

const (
	optionTesting uint = 1 << 1 // test mode: recognize uppercase as class R
	optionSkipL1  uint = 1 << 2 // do not apply rule L1 to trailing whitespace
)

// Testing will set up a text to recognize UPPERCASE letters as having R2L class.
// This is a common pattern in bidi algorithm development.
func Testing(b bool) Option {
	return func(o *options) {
		o.setMode(optionTesting, b)
	}
}

// TrailingWhitespaceRule switches rule L1 on or off. It is on by default.
// Clients which collapse trailing whitespace themselves (see MidpointState)
// may switch it off.
func TrailingWhitespaceRule(b bool) Option {
	return func(o *options) {
		o.setMode(optionSkipL1, !b)
	}
}

// MaxRunLength limits the length of runs. Longer runs are split.
// n ≤ 0 means no limit, which is the default.
func MaxRunLength(n int) Option {
	return func(o *options) {
		o.maxRunLength = n
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
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
