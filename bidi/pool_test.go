package bidi

import (
	"context"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverPool(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	r, err := BorrowResolver(context.TODO(), MaxRunLength(2))
	require.NoError(t, err)
	text := TextFromString("abcd")
	r.SetStatus(NewStatus(LTR, false))
	r.SetPosition(text.IteratorAt(0), 0)
	require.NoError(t, r.CreateBidiRunsForLine(text.IteratorAt(4), NoVisualOverride, false, true))
	assert.Equal(t, 2, r.Runs().RunCount())
	require.NoError(t, ReturnResolver(context.TODO(), r))
	assert.Equal(t, 0, r.Runs().RunCount())
	assert.Nil(t, r.Context())
}

func TestResolverPoolReportsResidualIsolates(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	r, err := BorrowResolver(nil)
	require.NoError(t, err)
	text := TextFromString("a⁦b⁩")
	r.SetStatus(NewStatus(LTR, false))
	r.SetPosition(text.IteratorAt(0), 0)
	require.NoError(t, r.CreateBidiRunsForLine(text.IteratorAt(4), NoVisualOverride, false, true))
	assert.ErrorIs(t, ReturnResolver(nil, r), ErrResidualIsolatedRuns)
}

func TestConcurrentResolvers(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	texts := []string{"hello world", "שלום עולם", "abc אבג 123", "١٢٣ abc"}
	var wg sync.WaitGroup
	errs := make([]error, len(texts))
	counts := make([]int, len(texts))
	for i, s := range texts {
		wg.Add(1)
		go func(i int, s string) {
			defer wg.Done()
			r, err := BorrowResolver(context.Background())
			if err != nil {
				errs[i] = err
				return
			}
			text := TextFromString(s)
			r.SetStatus(NewStatus(LTR, false))
			r.SetPosition(text.IteratorAt(0), 0)
			errs[i] = r.CreateBidiRunsForLine(text.IteratorAt(text.Len()), NoVisualOverride, false, true)
			counts[i] = r.Runs().RunCount()
			if err := ReturnResolver(context.Background(), r); err != nil && errs[i] == nil {
				errs[i] = err
			}
		}(i, s)
	}
	wg.Wait()
	for i := range texts {
		assert.NoError(t, errs[i], "text %d", i)
		assert.Greater(t, counts[i], 0, "text %d", i)
	}
}
