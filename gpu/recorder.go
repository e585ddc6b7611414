package gpu

import (
	"fmt"
	"math"
	"sync"
)

// Recorder is a software backend. It serializes command buffers and keeps
// the results of all successful submissions. A Recorder may be used from
// multiple goroutines.
type Recorder struct {
	// Reject, if set, is consulted for every submission. Rejected buffers
	// complete with StatusError.
	Reject      func(data []byte) bool
	mu          sync.Mutex
	submissions [][]byte
	pending     sync.WaitGroup
}

var _ Context = (*Recorder)(nil)

// CreateCommandBuffer creates an empty command buffer.
func (rec *Recorder) CreateCommandBuffer() (CommandBuffer, error) {
	return &recordedBuffer{recorder: rec}, nil
}

// Submissions returns the encoded command buffers which completed
// successfully, in order of completion.
func (rec *Recorder) Submissions() [][]byte {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	s := make([][]byte, len(rec.submissions))
	copy(s, rec.submissions)
	return s
}

// Wait blocks until all submitted buffers have completed.
func (rec *Recorder) Wait() {
	rec.pending.Wait()
}

// --- Command buffer --------------------------------------------------------

type recordedBuffer struct {
	recorder  *Recorder
	mu        sync.Mutex
	passes    []pass
	submitted bool
	status    Status
}

// pass is the common part of all recorded passes.
type pass interface {
	kind() passKind
	encoded() ([]byte, bool)
}

func (cb *recordedBuffer) CreateRenderPass(target *Texture) (RenderPass, error) {
	if target == nil {
		return nil, cb.invalid(fmt.Errorf("render pass: %w", ErrInvalidDestination))
	}
	p := &renderPass{target: target}
	if err := cb.add(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (cb *recordedBuffer) CreateBlitPass() (BlitPass, error) {
	p := &blitPass{}
	if err := cb.add(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (cb *recordedBuffer) CreateComputePass() (ComputePass, error) {
	p := &computePass{}
	if err := cb.add(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (cb *recordedBuffer) add(p pass) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.submitted {
		return cb.invalid(ErrSubmitted)
	}
	cb.passes = append(cb.passes, p)
	return nil
}

func (cb *recordedBuffer) EncodeCommands() ([]byte, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.encode()
}

func (cb *recordedBuffer) encode() ([]byte, error) {
	enc := newEncoder()
	enc.header(len(cb.passes))
	for i, p := range cb.passes {
		data, ok := p.encoded()
		if !ok {
			return nil, cb.invalid(fmt.Errorf("pass #%d (%s): %w", i, p.kind(), ErrPassNotEncoded))
		}
		enc.raw(data)
	}
	return enc.bytes(), nil
}

func (cb *recordedBuffer) SubmitCommands(callback CompletionCallback) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.submitted {
		return cb.invalid(ErrSubmitted)
	}
	data, err := cb.encode()
	if err != nil {
		cb.status = StatusError
		return err
	}
	cb.submitted = true
	rec := cb.recorder
	rec.pending.Add(1)
	go func() {
		defer rec.pending.Done()
		status := StatusCompleted
		if rec.Reject != nil && rec.Reject(data) {
			T().Errorf("gpu: command buffer rejected by device")
			status = StatusError
		} else {
			rec.mu.Lock()
			rec.submissions = append(rec.submissions, data)
			rec.mu.Unlock()
		}
		cb.mu.Lock()
		cb.status = status
		cb.mu.Unlock()
		T().Debugf("gpu: command buffer of %d bytes %s", len(data), status)
		if callback != nil {
			callback(status)
		}
	}()
	return nil
}

func (cb *recordedBuffer) Status() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.status
}

func (cb *recordedBuffer) invalid(err error) error {
	T().Errorf("%v", err)
	return err
}

// --- Passes ----------------------------------------------------------------

type passKind uint8

const (
	renderPassKind passKind = iota + 1
	blitPassKind
	computePassKind
)

func (k passKind) String() string {
	switch k {
	case renderPassKind:
		return "render"
	case blitPassKind:
		return "blit"
	case computePassKind:
		return "compute"
	}
	return "<pass?>"
}

// recording is embedded into every pass. It holds the serialized form once
// the pass has been encoded.
type recording struct {
	mu   sync.Mutex
	data []byte
	done bool
}

func (r *recording) encoded() ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.done
}

func (r *recording) open() error {
	if r.done {
		T().Errorf("%v", ErrPassEncoded)
		return ErrPassEncoded
	}
	return nil
}

type renderPass struct {
	recording
	target   *Texture
	commands []DrawCommand
}

func (p *renderPass) kind() passKind { return renderPassKind }

func (p *renderPass) AddCommand(cmd DrawCommand) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return err
	}
	if cmd.VertexCount <= 0 || cmd.InstanceCount < 0 || !encodable(cmd.Label, cmd.VertexCount, cmd.InstanceCount) {
		err := fmt.Errorf("draw %q with %d vertices: %w", cmd.Label, cmd.VertexCount, ErrInvalidCommand)
		T().Errorf("%v", err)
		return err
	}
	p.commands = append(p.commands, cmd)
	return nil
}

func (p *renderPass) EncodeCommands() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return err
	}
	enc := newEncoder()
	enc.pass(renderPassKind, p.target.ID(), len(p.commands))
	for _, cmd := range p.commands {
		enc.draw(cmd)
	}
	p.data, p.done = enc.bytes(), true
	return nil
}

type blitCopy struct {
	src, dst  uint32
	region    Region
	dstOrigin Point
}

type blitPass struct {
	recording
	copies []blitCopy
}

func (p *blitPass) kind() passKind { return blitPassKind }

// AddCopy records a copy of region of src to dstOrigin in dst.
func (p *blitPass) AddCopy(src, dst Resource, region Region, dstOrigin Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return err
	}
	var err error
	switch {
	case !valid(src):
		err = ErrInvalidSource
	case !valid(dst):
		err = ErrInvalidDestination
	case !encodable("", region.X, region.Y, region.Width, region.Height, dstOrigin.X, dstOrigin.Y):
		err = fmt.Errorf("copy of %v to (%d,%d): %w", region, dstOrigin.X, dstOrigin.Y, ErrInvalidCommand)
	case region.Empty() || !region.Within(src.Bounds()):
		err = fmt.Errorf("source region %v: %w", region, ErrOutOfBounds)
	default:
		target := Region{X: dstOrigin.X, Y: dstOrigin.Y, Width: region.Width, Height: region.Height}
		if !target.Within(dst.Bounds()) {
			err = fmt.Errorf("destination region %v: %w", target, ErrOutOfBounds)
		}
	}
	if err != nil {
		T().Errorf("gpu: blit: %v", err)
		return err
	}
	p.copies = append(p.copies, blitCopy{src: src.ID(), dst: dst.ID(), region: region, dstOrigin: dstOrigin})
	return nil
}

func (p *blitPass) EncodeCommands() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return err
	}
	enc := newEncoder()
	enc.pass(blitPassKind, 0, len(p.copies))
	for _, c := range p.copies {
		enc.blit(c)
	}
	p.data, p.done = enc.bytes(), true
	return nil
}

type computePass struct {
	recording
	commands []DispatchCommand
}

func (p *computePass) kind() passKind { return computePassKind }

func (p *computePass) AddCommand(cmd DispatchCommand) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if cmd.GridSize[i] <= 0 || cmd.GroupSize[i] <= 0 ||
			!encodable(cmd.Label, cmd.GridSize[i], cmd.GroupSize[i]) {
			err := fmt.Errorf("dispatch %q: %w", cmd.Label, ErrInvalidCommand)
			T().Errorf("%v", err)
			return err
		}
	}
	p.commands = append(p.commands, cmd)
	return nil
}

func (p *computePass) EncodeCommands() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return err
	}
	enc := newEncoder()
	enc.pass(computePassKind, 0, len(p.commands))
	for _, cmd := range p.commands {
		enc.dispatch(cmd)
	}
	p.data, p.done = enc.bytes(), true
	return nil
}

func valid(r Resource) bool {
	switch x := r.(type) {
	case nil:
		return false
	case *Texture:
		return x != nil
	case *Buffer:
		return x != nil
	}
	return true
}

// encodable is true if label and values fit into the wire format.
func encodable(label string, values ...int) bool {
	if len(label) > maxLabelLen {
		return false
	}
	for _, x := range values {
		if x < math.MinInt32 || x > math.MaxInt32 {
			return false
		}
	}
	return true
}
