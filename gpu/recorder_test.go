package gpu

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAndSubmit(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{}
	cb, err := rec.CreateCommandBuffer()
	require.NoError(t, err)
	rp, err := cb.CreateRenderPass(&Texture{Handle: 7, Width: 64, Height: 64})
	require.NoError(t, err)
	require.NoError(t, rp.AddCommand(DrawCommand{Label: "glyphs", Pipeline: 1, VertexCount: 6, InstanceCount: 12}))
	require.NoError(t, rp.AddCommand(DrawCommand{Label: "caret", Pipeline: 2, VertexCount: 4}))
	require.NoError(t, rp.EncodeCommands())
	assert.Equal(t, StatusPending, cb.Status())
	//
	done := make(chan Status, 1)
	require.NoError(t, cb.SubmitCommands(func(s Status) { done <- s }))
	select {
	case s := <-done:
		assert.Equal(t, StatusCompleted, s)
	case <-time.After(5 * time.Second):
		t.Fatal("completion callback has not been called")
	}
	rec.Wait()
	assert.Equal(t, StatusCompleted, cb.Status())
	subs := rec.Submissions()
	require.Len(t, subs, 1)
	passes, err := Inspect(subs[0])
	require.NoError(t, err)
	want := []PassSummary{
		{Kind: "render", Target: 7, Commands: 2, Labels: []string{"glyphs", "caret"}},
	}
	if diff := cmp.Diff(want, passes); diff != "" {
		t.Errorf("passes mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeIsStable(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{}
	cb, _ := rec.CreateCommandBuffer()
	cp, err := cb.CreateComputePass()
	require.NoError(t, err)
	require.NoError(t, cp.AddCommand(DispatchCommand{
		Label: "shape", Pipeline: 3, GridSize: [3]int{4, 1, 1}, GroupSize: [3]int{64, 1, 1},
	}))
	require.NoError(t, cp.EncodeCommands())
	first, err := cb.EncodeCommands()
	require.NoError(t, err)
	second, err := cb.EncodeCommands()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
	// 4 (count) + 9 (pass header) + 2+5 (label) + 4 (pipeline) + 6*4 (sizes)
	assert.Len(t, first, 48)
}

func TestBlitValidation(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{}
	cb, _ := rec.CreateCommandBuffer()
	bp, err := cb.CreateBlitPass()
	require.NoError(t, err)
	atlas := &Texture{Handle: 1, Width: 256, Height: 256}
	staging := &Buffer{Handle: 2, Size: 1024}
	var none *Texture
	assert.ErrorIs(t, bp.AddCopy(nil, atlas, Region{Width: 1, Height: 1}, Point{}), ErrInvalidSource)
	assert.ErrorIs(t, bp.AddCopy(none, atlas, Region{Width: 1, Height: 1}, Point{}), ErrInvalidSource)
	assert.ErrorIs(t, bp.AddCopy(staging, nil, Region{Width: 1, Height: 1}, Point{}), ErrInvalidDestination)
	assert.ErrorIs(t, bp.AddCopy(staging, atlas, Region{Width: 2048, Height: 1}, Point{}), ErrOutOfBounds)
	assert.ErrorIs(t, bp.AddCopy(staging, atlas, Region{Width: 512, Height: 1}, Point{X: 0, Y: 10}), ErrOutOfBounds)
	assert.ErrorIs(t, bp.AddCopy(staging, atlas, Region{Width: 0, Height: 1}, Point{}), ErrOutOfBounds)
	assert.ErrorIs(t, bp.AddCopy(atlas, atlas, Region{X: 200, Width: 32, Height: 32}, Point{X: 240}), ErrOutOfBounds)
	//
	require.NoError(t, bp.AddCopy(staging, atlas, Region{X: 512, Width: 256, Height: 1}, Point{Y: 255}))
	require.NoError(t, bp.AddCopy(atlas, staging, Region{Width: 16, Height: 1}, Point{X: 1000}))
	require.NoError(t, bp.EncodeCommands())
	data, err := cb.EncodeCommands()
	require.NoError(t, err)
	passes, err := Inspect(data)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, "blit", passes[0].Kind)
	assert.Equal(t, 2, passes[0].Commands, "rejected copies are not recorded")
}

func TestInvalidCommands(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{}
	cb, _ := rec.CreateCommandBuffer()
	_, err := cb.CreateRenderPass(nil)
	assert.ErrorIs(t, err, ErrInvalidDestination)
	rp, _ := cb.CreateRenderPass(&Texture{Handle: 1, Width: 8, Height: 8})
	assert.ErrorIs(t, rp.AddCommand(DrawCommand{Label: "empty"}), ErrInvalidCommand)
	assert.ErrorIs(t, rp.AddCommand(DrawCommand{VertexCount: 3, InstanceCount: -1}), ErrInvalidCommand)
	cp, _ := cb.CreateComputePass()
	assert.ErrorIs(t, cp.AddCommand(DispatchCommand{GridSize: [3]int{1, 1, 0}, GroupSize: [3]int{1, 1, 1}}), ErrInvalidCommand)
}

func TestPassLifecycle(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{}
	cb, _ := rec.CreateCommandBuffer()
	rp, _ := cb.CreateRenderPass(&Texture{Handle: 1, Width: 8, Height: 8})
	bp, _ := cb.CreateBlitPass()
	require.NoError(t, rp.EncodeCommands())
	assert.ErrorIs(t, rp.EncodeCommands(), ErrPassEncoded)
	assert.ErrorIs(t, rp.AddCommand(DrawCommand{VertexCount: 3}), ErrPassEncoded)
	//
	_, err := cb.EncodeCommands()
	assert.ErrorIs(t, err, ErrPassNotEncoded)
	called := false
	err = cb.SubmitCommands(func(Status) { called = true })
	assert.ErrorIs(t, err, ErrPassNotEncoded)
	assert.Equal(t, StatusError, cb.Status())
	//
	require.NoError(t, bp.EncodeCommands())
	require.NoError(t, cb.SubmitCommands(nil))
	assert.ErrorIs(t, cb.SubmitCommands(nil), ErrSubmitted)
	_, err = cb.CreateBlitPass()
	assert.ErrorIs(t, err, ErrSubmitted)
	rec.Wait()
	assert.False(t, called, "callback of a failed submit is never called")
	assert.Equal(t, StatusCompleted, cb.Status())
}

func TestRejectedSubmission(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{Reject: func(data []byte) bool { return len(data) > 4 }}
	empty, _ := rec.CreateCommandBuffer()
	full, _ := rec.CreateCommandBuffer()
	cp, _ := full.CreateComputePass()
	require.NoError(t, cp.EncodeCommands())
	var mu sync.Mutex
	statuses := map[string]Status{}
	record := func(name string) CompletionCallback {
		return func(s Status) {
			mu.Lock()
			defer mu.Unlock()
			statuses[name] = s
		}
	}
	require.NoError(t, empty.SubmitCommands(record("empty")))
	require.NoError(t, full.SubmitCommands(record("full")))
	rec.Wait()
	assert.Equal(t, map[string]Status{"empty": StatusCompleted, "full": StatusError}, statuses)
	assert.Len(t, rec.Submissions(), 1)
	assert.Equal(t, StatusError, full.Status())
}

func TestConcurrentSubmissions(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cb, _ := rec.CreateCommandBuffer()
			rp, _ := cb.CreateRenderPass(&Texture{Handle: uint32(i + 1), Width: 1, Height: 1})
			assert.NoError(t, rp.AddCommand(DrawCommand{VertexCount: 3}))
			assert.NoError(t, rp.EncodeCommands())
			assert.NoError(t, cb.SubmitCommands(nil))
		}(i)
	}
	wg.Wait()
	rec.Wait()
	targets := map[uint32]bool{}
	for _, data := range rec.Submissions() {
		passes, err := Inspect(data)
		require.NoError(t, err)
		targets[passes[0].Target] = true
	}
	assert.Len(t, targets, 16)
}

func TestInspectTruncated(t *testing.T) {
	rec := &Recorder{}
	cb, _ := rec.CreateCommandBuffer()
	rp, _ := cb.CreateRenderPass(&Texture{Handle: 1, Width: 1, Height: 1})
	_ = rp.AddCommand(DrawCommand{Label: "x", VertexCount: 3})
	_ = rp.EncodeCommands()
	data, _ := cb.EncodeCommands()
	_, err := Inspect(data[:len(data)-2])
	assert.Error(t, err)
	_, err = Inspect(append(data, 0))
	assert.Error(t, err)
}

func TestOversizeValuesAreRejected(t *testing.T) {
	gtrace.GraphicsTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	rec := &Recorder{}
	cb, _ := rec.CreateCommandBuffer()
	rp, _ := cb.CreateRenderPass(&Texture{Handle: 1, Width: 8, Height: 8})
	long := strings.Repeat("ä", maxLabelLen/2+1)
	assert.ErrorIs(t, rp.AddCommand(DrawCommand{Label: long, VertexCount: 3}), ErrInvalidCommand)
	assert.ErrorIs(t, rp.AddCommand(DrawCommand{VertexCount: math.MaxInt32 + 1}), ErrInvalidCommand)
	assert.ErrorIs(t, rp.AddCommand(DrawCommand{VertexCount: 3, InstanceCount: math.MaxInt32 + 1}), ErrInvalidCommand)
	fits := strings.Repeat("x", maxLabelLen)
	require.NoError(t, rp.AddCommand(DrawCommand{Label: fits, VertexCount: math.MaxInt32}))
	require.NoError(t, rp.EncodeCommands())
	//
	cp, _ := cb.CreateComputePass()
	assert.ErrorIs(t, cp.AddCommand(DispatchCommand{
		GridSize: [3]int{math.MaxInt32 + 1, 1, 1}, GroupSize: [3]int{1, 1, 1},
	}), ErrInvalidCommand)
	require.NoError(t, cp.EncodeCommands())
	//
	bp, _ := cb.CreateBlitPass()
	huge := &Buffer{Handle: 2, Size: math.MaxInt32 + 2}
	assert.ErrorIs(t, bp.AddCopy(huge, huge, Region{X: math.MaxInt32 + 1, Width: 1, Height: 1}, Point{}), ErrInvalidCommand)
	require.NoError(t, bp.EncodeCommands())
	//
	data, err := cb.EncodeCommands()
	require.NoError(t, err)
	passes, err := Inspect(data)
	require.NoError(t, err)
	require.Len(t, passes, 3)
	assert.Equal(t, 1, passes[0].Commands)
	assert.Equal(t, fits, passes[0].Labels[0], "labels are never cut")
	assert.Equal(t, 0, passes[1].Commands)
	assert.Equal(t, 0, passes[2].Commands)
}
