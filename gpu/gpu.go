package gpu

import "fmt"

// Status is the state of a submitted command buffer.
type Status uint8

// Command buffer states
const (
	StatusPending Status = iota
	StatusError
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusError:
		return "error"
	case StatusCompleted:
		return "completed"
	}
	return "<status?>"
}

// CompletionCallback is called once the backend has finished with a
// command buffer. It may be called on a different goroutine than the one
// which submitted the buffer.
type CompletionCallback func(Status)

// Context hands out command buffers.
type Context interface {
	CreateCommandBuffer() (CommandBuffer, error)
}

// CommandBuffer collects passes and submits them to the device.
type CommandBuffer interface {
	CreateRenderPass(target *Texture) (RenderPass, error)
	CreateBlitPass() (BlitPass, error)
	CreateComputePass() (ComputePass, error)
	// EncodeCommands serializes all passes of the buffer. Every pass has
	// to be encoded before.
	EncodeCommands() ([]byte, error)
	// SubmitCommands submits the buffer. A buffer may be submitted once.
	SubmitCommands(callback CompletionCallback) error
	Status() Status
}

// RenderPass records draw commands for a render target.
type RenderPass interface {
	AddCommand(cmd DrawCommand) error
	EncodeCommands() error
}

// BlitPass records copies between textures and buffers.
type BlitPass interface {
	AddCopy(src, dst Resource, region Region, dstOrigin Point) error
	EncodeCommands() error
}

// ComputePass records compute dispatches.
type ComputePass interface {
	AddCommand(cmd DispatchCommand) error
	EncodeCommands() error
}

// --- Resources and commands ------------------------------------------------

// Resource is memory on the device which may take part in a blit.
type Resource interface {
	ID() uint32
	// Bounds returns the extent of the resource. Buffers are one row high.
	Bounds() Region
}

// Texture is a 2D image on the device.
type Texture struct {
	Handle        uint32
	Width, Height int
}

// ID returns the resource ID of t.
func (t *Texture) ID() uint32 { return t.Handle }

// Bounds returns the extent of t.
func (t *Texture) Bounds() Region {
	return Region{Width: t.Width, Height: t.Height}
}

// Buffer is linear memory on the device.
type Buffer struct {
	Handle uint32
	Size   int
}

// ID returns the resource ID of b.
func (b *Buffer) ID() uint32 { return b.Handle }

// Bounds returns the extent of b.
func (b *Buffer) Bounds() Region {
	return Region{Width: b.Size, Height: 1}
}

// Point is a position within a resource.
type Point struct {
	X, Y int
}

// Region is a rectangle within a resource.
type Region struct {
	X, Y          int
	Width, Height int
}

// Empty is true for regions without area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within is true if r lies inside of bounds.
func (r Region) Within(bounds Region) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.X+r.Width <= bounds.X+bounds.Width &&
		r.Y+r.Height <= bounds.Y+bounds.Height
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// DrawCommand draws primitives with a pipeline.
type DrawCommand struct {
	Label         string
	Pipeline      uint32
	VertexCount   int
	InstanceCount int
}

// DispatchCommand runs a compute pipeline on a grid of thread groups.
type DispatchCommand struct {
	Label     string
	Pipeline  uint32
	GridSize  [3]int
	GroupSize [3]int
}
