package paragraph

import (
	"context"
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/bidiline/bidi"
)

// Paragraph is a text prepared for line-by-line bidi resolution.
// A Paragraph is not safe for concurrent use.
type Paragraph struct {
	text      *bidi.Text
	dir       bidi.Direction
	hasStrong bool
	resolver  *bidi.Resolver
	breaks    BreakCache
	pos       int
	opts      options
}

// New prepares a paragraph of text.
func New(s string, opts ...Option) *Paragraph {
	o := collect(opts)
	text := bidi.TextFromString(s, bidi.Testing(o.hasMode(optionTesting)))
	return newParagraph(text, o)
}

// FromText prepares a paragraph for an existing bidi text, e.g. one created
// from a UTF-16 source.
func FromText(text *bidi.Text, opts ...Option) *Paragraph {
	return newParagraph(text, collect(opts))
}

func collect(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newParagraph(text *bidi.Text, o options) *Paragraph {
	p := &Paragraph{text: text, dir: o.dir, opts: o}
	switch {
	case o.hasMode(optionAuto):
		scan := bidi.NewResolver()
		scan.SetPosition(text.IteratorAt(0), 0)
		dir, strong := scan.DetermineParagraphDirectionality()
		p.hasStrong = strong
		if strong {
			p.dir = dir
		}
	case o.hasMode(optionLocale):
		p.dir = DirectionFromEnvironment()
	}
	p.resolver = bidi.NewResolver(o.resolver...)
	p.resolver.SetStatus(bidi.NewStatus(p.dir, o.hasMode(optionOverride)))
	p.resolver.SetPosition(text.IteratorAt(0), 0)
	T().Debugf("paragraph of length %d has base direction %s", text.Len(), p.dir)
	return p
}

// Direction returns the base direction of the paragraph.
func (p *Paragraph) Direction() bidi.Direction { return p.dir }

// HasStrongDirectionality is true if the base direction has been found from
// a strong character of the text (AutoDirection only).
func (p *Paragraph) HasStrongDirectionality() bool { return p.hasStrong }

// Text returns the text of the paragraph.
func (p *Paragraph) Text() *bidi.Text { return p.text }

// Position returns the start position of the next line.
func (p *Paragraph) Position() int { return p.pos }

// Done is true if all lines of the paragraph have been resolved.
func (p *Paragraph) Done() bool {
	return p.pos >= p.text.Len()
}

// NextLine resolves the text from the end of the previous line up to
// position end. hardBreak tells if the line is ended by a forced line break;
// embeddings from formatting characters do not extend over hard breaks.
func (p *Paragraph) NextLine(end int, hardBreak bool) (*Line, error) {
	if p.Done() {
		return nil, ErrNoMoreLines
	}
	if end <= p.pos || end > p.text.Len() {
		return nil, fmt.Errorf("%w: %d not in (%d, %d]", ErrLineEnd, end, p.pos, p.text.Len())
	}
	r := p.resolver
	r.MidpointState().Reset()
	reorder := !p.opts.hasMode(optionNoReorder)
	err := r.CreateBidiRunsForLine(p.text.IteratorAt(end), p.opts.visual, hardBreak, reorder)
	if err != nil {
		r.Runs().DeleteRuns()
		return nil, fmt.Errorf("paragraph: line [%d,%d): %w", p.pos, end, err)
	}
	if err = p.resolveIsolates(r); err != nil {
		r.Runs().DeleteRuns()
		return nil, err
	}
	line := &Line{
		Start:         p.pos,
		End:           end,
		Runs:          r.Runs().Runs(),
		TrailingSpace: r.TrailingSpaceRun(),
		Direction:     p.dir,
		text:          p.text,
	}
	r.Runs().DeleteRuns()
	p.pos = end
	T().Debugf("%v", line)
	return line, nil
}

// WrapLines breaks the rest of the paragraph into lines of at most width
// positions, at line break opportunities. Lines may be longer if there is
// no break opportunity within width. width ≤ 0 breaks at mandatory breaks
// only.
func (p *Paragraph) WrapLines(width int) ([]*Line, error) {
	var lines []*Line
	for !p.Done() {
		limit := p.text.Len()
		if width > 0 {
			limit = p.pos + width
		}
		p.breaks.fill(p.text)
		end, hard := p.breaks.nextBreak(p.pos, limit)
		line, err := p.NextLine(end, hard)
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// IsBreakable is true if there is a line break opportunity in front of pos.
func (p *Paragraph) IsBreakable(pos int) bool {
	return IsBreakable(p.text.IteratorAt(0), pos, &p.breaks)
}

// --- Isolates --------------------------------------------------------------

type isolateTask struct {
	iso       bidi.IsolatedRun
	midpoints bidi.MidpointState
}

// resolveIsolates resolves the content of isolates with separate resolvers
// and replaces the placeholder runs of top. Isolates found within isolated
// content are pushed onto a work stack and resolved in turn.
func (p *Paragraph) resolveIsolates(top *bidi.Resolver) error {
	work := arraystack.New()
	pushIsolates(work, top)
	ctx := context.Background()
	for !work.Empty() {
		v, _ := work.Pop()
		task := v.(isolateTask)
		nested, err := bidi.BorrowResolver(ctx, p.opts.resolver...)
		if err != nil {
			return err
		}
		run := task.iso.Run
		dir := task.iso.Direction
		if task.iso.FirstStrong {
			dir = p.firstStrongDirection(run.Start)
		}
		nested.SetStatus(bidi.StatusForIsolate(dir, false, task.iso.Level))
		nested.SetMidpointState(task.midpoints)
		nested.SetPositionIgnoringNestedIsolates(p.text.RangeIterator(run.Start, run.Stop))
		end := p.text.RangeIterator(run.Stop, run.Stop)
		reorder := !p.opts.hasMode(optionNoReorder)
		if err = nested.CreateBidiRunsForLine(end, bidi.NoVisualOverride, true, reorder); err != nil {
			_ = bidi.ReturnResolver(ctx, nested)
			return fmt.Errorf("paragraph: isolate at %d: %w", run.Start, err)
		}
		T().Debugf("isolate [%d,%d) resolved to %v", run.Start, run.Stop, nested.Runs())
		top.Runs().ReplaceRunWithRuns(run, nested.Runs())
		pushIsolates(work, nested)
		if err = bidi.ReturnResolver(ctx, nested); err != nil {
			return err
		}
	}
	return nil
}

func pushIsolates(work *arraystack.Stack, r *bidi.Resolver) {
	for {
		iso, ok := r.PopIsolatedRun()
		if !ok {
			return
		}
		work.Push(isolateTask{
			iso:       iso,
			midpoints: r.MidpointStateForIsolatedRun(iso.Run),
		})
	}
}

// firstStrongDirection finds the direction of a first-strong isolate
// containing pos from the first strong character of its content. The
// content may start on a previous line.
func (p *Paragraph) firstStrongDirection(pos int) bidi.Direction {
	depth := p.text.IsolateDepth(pos)
	start, end := pos, pos
	for start > 0 && p.text.IsolateDepth(start-1) >= depth {
		start--
	}
	for end < p.text.Len() && p.text.IsolateDepth(end) >= depth {
		end++
	}
	scan := bidi.NewResolver()
	scan.SetPositionIgnoringNestedIsolates(p.text.RangeIterator(start, end))
	dir, _ := scan.DetermineDirectionality()
	return dir
}
