package gpu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Encoded command buffers are little endian. A buffer starts with the number
// of passes (u32). Every pass starts with its kind (u8), the render target
// (u32, 0 if none) and the number of commands (u32), followed by the
// commands. Strings are prefixed with their length (u16).

var order = binary.LittleEndian

// maxLabelLen is the maximum length of a label in bytes.
const maxLabelLen = 0xffff

type encoder struct {
	buf bytes.Buffer
}

func newEncoder() *encoder {
	return &encoder{}
}

func (enc *encoder) bytes() []byte {
	return enc.buf.Bytes()
}

func (enc *encoder) u8(x uint8) {
	enc.buf.WriteByte(x)
}

func (enc *encoder) u32(x uint32) {
	var b [4]byte
	order.PutUint32(b[:], x)
	enc.buf.Write(b[:])
}

func (enc *encoder) i32(x int) {
	enc.u32(uint32(int32(x)))
}

// str writes a label. Passes reject labels longer than maxLabelLen, so
// lengths always fit.
func (enc *encoder) str(s string) {
	var b [2]byte
	order.PutUint16(b[:], uint16(len(s)))
	enc.buf.Write(b[:])
	enc.buf.WriteString(s)
}

func (enc *encoder) raw(data []byte) {
	enc.buf.Write(data)
}

func (enc *encoder) header(passes int) {
	enc.i32(passes)
}

func (enc *encoder) pass(k passKind, target uint32, n int) {
	enc.u8(uint8(k))
	enc.u32(target)
	enc.i32(n)
}

func (enc *encoder) draw(cmd DrawCommand) {
	enc.str(cmd.Label)
	enc.u32(cmd.Pipeline)
	enc.i32(cmd.VertexCount)
	enc.i32(cmd.InstanceCount)
}

func (enc *encoder) blit(c blitCopy) {
	enc.u32(c.src)
	enc.u32(c.dst)
	enc.i32(c.region.X)
	enc.i32(c.region.Y)
	enc.i32(c.region.Width)
	enc.i32(c.region.Height)
	enc.i32(c.dstOrigin.X)
	enc.i32(c.dstOrigin.Y)
}

func (enc *encoder) dispatch(cmd DispatchCommand) {
	enc.str(cmd.Label)
	enc.u32(cmd.Pipeline)
	for _, x := range cmd.GridSize {
		enc.i32(x)
	}
	for _, x := range cmd.GroupSize {
		enc.i32(x)
	}
}

// --- Decoding --------------------------------------------------------------

// PassSummary describes an encoded pass.
type PassSummary struct {
	Kind     string
	Target   uint32   // render target, 0 for blit and compute passes
	Commands int      // number of draws, copies or dispatches
	Labels   []string // labels of draws and dispatches
}

// Inspect decodes an encoded command buffer into a list of pass summaries.
func Inspect(data []byte) ([]PassSummary, error) {
	dec := decoder{r: bytes.NewReader(data)}
	n := dec.u32()
	var passes []PassSummary
	for i := uint32(0); i < n && dec.err == nil; i++ {
		k := passKind(dec.u8())
		s := PassSummary{Kind: k.String(), Target: dec.u32(), Commands: int(dec.u32())}
		for j := 0; j < s.Commands && dec.err == nil; j++ {
			switch k {
			case renderPassKind:
				s.Labels = append(s.Labels, dec.str())
				dec.skip(3 * 4)
			case blitPassKind:
				dec.skip(8 * 4)
			case computePassKind:
				s.Labels = append(s.Labels, dec.str())
				dec.skip(7 * 4)
			default:
				dec.err = fmt.Errorf("unknown pass kind %d: %w", k, ErrInvalidCommand)
			}
		}
		passes = append(passes, s)
	}
	if dec.err != nil {
		return passes, fmt.Errorf("gpu: decoding command buffer: %w", dec.err)
	}
	if dec.r.Len() > 0 {
		return passes, fmt.Errorf("gpu: %d trailing bytes in command buffer", dec.r.Len())
	}
	return passes, nil
}

// decoder keeps the first error and turns all further reads into no-ops.
type decoder struct {
	r   *bytes.Reader
	err error
}

func (dec *decoder) u8() uint8 {
	var x uint8
	dec.read(&x)
	return x
}

func (dec *decoder) u32() uint32 {
	var x uint32
	dec.read(&x)
	return x
}

func (dec *decoder) str() string {
	var n uint16
	dec.read(&n)
	if dec.err != nil {
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(dec.r, b); err != nil {
		dec.err = err
		return ""
	}
	return string(b)
}

func (dec *decoder) skip(n int64) {
	if dec.err != nil {
		return
	}
	if int64(dec.r.Len()) < n {
		dec.err = io.ErrUnexpectedEOF
		return
	}
	_, dec.err = dec.r.Seek(n, io.SeekCurrent)
}

func (dec *decoder) read(x interface{}) {
	if dec.err != nil {
		return
	}
	dec.err = binary.Read(dec.r, order, x)
}
