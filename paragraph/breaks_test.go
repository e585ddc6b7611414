package paragraph

import (
	"errors"
	"testing"

	"github.com/npillmayer/bidiline/bidi"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestIsBreakable(t *testing.T) {
	text := bidi.TextFromString("ab cd")
	it := text.IteratorAt(0)
	cache := &BreakCache{}
	assert.False(t, IsBreakable(it, 0, cache))
	assert.False(t, IsBreakable(it, 1, cache))
	assert.False(t, IsBreakable(it, 2, cache))
	assert.True(t, IsBreakable(it, 3, cache))
	assert.False(t, IsBreakable(it, 4, cache))
	assert.True(t, IsBreakable(it, 5, cache))
	assert.False(t, IsBreakable(bidi.Iterator{}, 3, cache))
	assert.False(t, IsMandatoryBreak(it, 5, cache), "end of text is not a forced break")
}

func TestBreakCacheFollowsText(t *testing.T) {
	cache := &BreakCache{}
	first := bidi.TextFromString("a b")
	second := bidi.TextFromString("ab c")
	assert.True(t, IsBreakable(first.IteratorAt(0), 2, cache))
	assert.False(t, IsBreakable(second.IteratorAt(0), 2, cache))
	assert.True(t, IsBreakable(second.IteratorAt(0), 3, cache))
}

func TestBreaksInUTF16(t *testing.T) {
	text := bidi.NewText(bidi.UTF16Source{0xd802, 0xdd00, ' ', 'a'})
	it := text.IteratorAt(0)
	assert.False(t, IsBreakable(it, 1, nil), "no break within surrogate pair")
	assert.True(t, IsBreakable(it, 3, nil))
}

func TestDirectionForLocale(t *testing.T) {
	for _, c := range []struct {
		locale string
		dir    bidi.Direction
	}{
		{"ar-EG", bidi.RTL},
		{"he", bidi.RTL},
		{"fa-IR", bidi.RTL},
		{"ur", bidi.RTL},
		{"en-US", bidi.LTR},
		{"de", bidi.LTR},
		{"zh-Hant", bidi.LTR},
		{"no such locale!", bidi.LTR},
	} {
		assert.Equal(t, c.dir, DirectionForLocale(c.locale), c.locale)
	}
}

func TestUserLocaleFallback(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	//
	assert.Equal(t, "he-IL", userLocale("he-IL", nil))
	assert.Equal(t, "en-US", userLocale("", errors.New("LANG=100%d invalid")))
	assert.Equal(t, bidi.LTR, DirectionForLocale(userLocale("", errors.New("%s%v"))))
}
