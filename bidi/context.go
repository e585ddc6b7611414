package bidi

import "fmt"

// EmbeddingSource tells how an embedding has been introduced.
type EmbeddingSource uint8

// Embeddings either stem from markup (e.g., a style declaring a direction)
// or from Unicode formatting characters within the text.
const (
	FromMarkup EmbeddingSource = iota
	FromUnicode
)

// Context is one level of a stack of nested embeddings. Contexts are
// immutable; pushing creates a new context which links to its parent.
// A context may therefore be shared freely between statuses, runs and
// goroutines.
type Context struct {
	level    uint8
	dir      Category // LeftToRight or RightToLeft
	override bool
	source   EmbeddingSource
	parent   *Context
}

// NewContext creates a root context.
func NewContext(level uint8, dir Direction, override bool, source EmbeddingSource) *Context {
	return &Context{
		level:    level,
		dir:      dir.Category(),
		override: override,
		source:   source,
	}
}

// Push creates a nested context on top of c. If level exceeds the maximum
// embedding depth, no context is created and c is returned unchanged.
func (c *Context) Push(level uint8, dir Direction, override bool, source EmbeddingSource) *Context {
	if level >= MaxLevel {
		T().Debugf("bidi: embedding level %d refused", level)
		return c
	}
	return &Context{
		level:    level,
		dir:      dir.Category(),
		override: override,
		source:   source,
		parent:   c,
	}
}

// Pop returns the parent context, or nil for a root context.
func (c *Context) Pop() *Context {
	return c.parent
}

// Level returns the embedding level of c.
func (c *Context) Level() uint8 { return c.level }

// Dir returns the direction of c as a strong category, L or R.
func (c *Context) Dir() Category { return c.dir }

// Direction returns the direction of c.
func (c *Context) Direction() Direction {
	if c.dir == RightToLeft {
		return RTL
	}
	return LTR
}

// Override is true if c forces its direction onto contained characters.
func (c *Context) Override() bool { return c.override }

// Source returns the origin of the embedding.
func (c *Context) Source() EmbeddingSource { return c.source }

// Parent returns the enclosing context.
func (c *Context) Parent() *Context { return c.parent }

// Root returns the outermost context of the stack.
func (c *Context) Root() *Context {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// Equal compares two context stacks structurally. Level, direction and
// override flag have to match for every context up to the root.
func (c *Context) Equal(o *Context) bool {
	for c != nil && o != nil {
		if c == o {
			return true
		}
		if c.level != o.level || c.dir != o.dir || c.override != o.override {
			return false
		}
		c, o = c.parent, o.parent
	}
	return c == nil && o == nil
}

func (c *Context) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("[%d %s override=%v]", c.level, c.dir, c.override)
}

// withoutUnicodeContexts copies the stack, dropping every context introduced
// by a Unicode formatting character. Levels of the remaining contexts are
// recomputed relative to their new parents.
func (c *Context) withoutUnicodeContexts() *Context {
	var contexts []*Context
	for it := c; it != nil; it = it.parent {
		if it.source != FromUnicode {
			contexts = append(contexts, it)
		}
	}
	if len(contexts) == 0 {
		return c.Root()
	}
	top := rebase(contexts[len(contexts)-1], nil)
	for i := len(contexts) - 1; i > 0; i-- {
		top = rebase(contexts[i-1], top)
	}
	return top
}

func rebase(c *Context, parent *Context) *Context {
	var level uint8
	if parent != nil {
		level = parent.level
	}
	if c.dir == RightToLeft {
		level = nextGreaterOddLevel(level)
	} else if parent != nil {
		level = nextGreaterEvenLevel(level)
	}
	return &Context{
		level:    level,
		dir:      c.dir,
		override: c.override,
		source:   c.source,
		parent:   parent,
	}
}

func nextGreaterOddLevel(level uint8) uint8 {
	return (level + 1) | 1
}

func nextGreaterEvenLevel(level uint8) uint8 {
	return (level + 2) &^ 1
}
