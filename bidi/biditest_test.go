package bidi

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/bidiline/internal/testdata"
	"github.com/npillmayer/bidiline/internal/ucdparse"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// One representative code-point per bidi class of BidiTest.txt.
var classRunes = map[string]rune{
	"L": 'a', "R": 0x05d0, "AL": 0x0627, "EN": '1', "ES": '+', "ET": '$',
	"AN": 0x0661, "CS": ',', "NSM": 0x0300, "BN": 0x00ad, "B": 0x2029,
	"S": '\t', "WS": ' ', "ON": '!',
	"LRE": 0x202a, "LRO": 0x202d, "RLE": 0x202b, "RLO": 0x202e, "PDF": 0x202c,
	"LRI": 0x2066, "RLI": 0x2067, "FSI": 0x2068, "PDI": 0x2069,
}

// Where a line resolver intentionally differs from the paragraph-based
// reference algorithm, test cases are skipped with a reason.
var knownDeviations = []struct {
	classes []string
	reason  string
}{
	{[]string{"LRE", "LRO", "RLE", "RLO", "PDF"},
		"explicit embeddings are committed lazily, e.g. [WS RLE R] puts WS on level 1"},
	{[]string{"LRI", "RLI", "FSI", "PDI"},
		"isolates are placeholders resolved by the paragraph driver"},
	{[]string{"B", "S"},
		"separators within a line are not reset to the paragraph level"},
	{[]string{"BN"},
		"boundary neutrals stay in their runs instead of being removed"},
}

func deviation(classes []string) string {
	for _, dev := range knownDeviations {
		for _, c := range classes {
			for _, d := range dev.classes {
				if c == d {
					return dev.reason
				}
			}
		}
	}
	return ""
}

func TestBidiTestFile(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	//
	in, err := testdata.UCDReader("BidiTest.txt")
	if errors.Is(err, fs.ErrNotExist) {
		t.Skip("BidiTest.txt not present, run 'go generate ./internal/testdata'")
	}
	if err != nil {
		t.Fatal(err)
	}
	tf := ucdparse.NewTestFile(in)
	defer tf.Close()
	var levels, order []int
	cases, failures := 0, 0
	skipped := map[string]int{}
	for tf.Scan() {
		line := tf.Text()
		switch {
		case strings.HasPrefix(line, "@Levels:"):
			levels = parseLevels(strings.TrimPrefix(line, "@Levels:"))
			continue
		case strings.HasPrefix(line, "@Reorder:"):
			if order, err = ucdparse.Ints(strings.TrimPrefix(line, "@Reorder:")); err != nil {
				t.Fatalf("line %d: %v", tf.Line(), err)
			}
			continue
		case strings.HasPrefix(line, "@"):
			continue
		}
		fields := tf.Fields()
		if len(fields) != 2 {
			t.Fatalf("line %d: expected 2 fields, have %d", tf.Line(), len(fields))
		}
		classes := strings.Fields(fields[0])
		if reason := deviation(classes); reason != "" {
			skipped[reason]++
			continue
		}
		bitset, err := strconv.Atoi(fields[1])
		if err != nil {
			t.Fatalf("line %d: %v", tf.Line(), err)
		}
		runes := make([]rune, len(classes))
		for i, c := range classes {
			r, ok := classRunes[c]
			if !ok {
				t.Fatalf("line %d: unknown bidi class %s", tf.Line(), c)
			}
			runes[i] = r
		}
		text := TextFromRunes(runes)
		for _, dir := range paragraphDirections(text, bitset) {
			cases++
			r := NewResolver()
			r.SetStatus(NewStatus(dir, false))
			r.SetPosition(text.IteratorAt(0), 0)
			if err := r.CreateBidiRunsForLine(text.IteratorAt(text.Len()), NoVisualOverride, false, true); err != nil {
				t.Errorf("line %d %v: %v", tf.Line(), classes, err)
				failures++
			} else if diff := cmp.Diff(levels, resolvedLevels(r.Runs(), text.Len())); diff != "" {
				t.Errorf("line %d %v %s: levels mismatch (-want +got):\n%s", tf.Line(), classes, dir, diff)
				failures++
			} else if diff := cmp.Diff(order, visualOrder(r.Runs())); diff != "" {
				t.Errorf("line %d %v %s: visual order mismatch (-want +got):\n%s", tf.Line(), classes, dir, diff)
				failures++
			}
			r.Runs().DeleteRuns()
			if failures >= 20 {
				t.Fatalf("too many failures, stopping after %d test cases", cases)
			}
		}
	}
	if err := tf.Err(); err != nil {
		t.Fatal(err)
	}
	t.Logf("%d test cases", cases)
	for reason, n := range skipped {
		t.Logf("skipped %d lines: %s", n, reason)
	}
}

// parseLevels parses a list of levels, where 'x' marks removed characters
// and is returned as -1.
func parseLevels(field string) []int {
	var levels []int
	for _, s := range strings.Fields(field) {
		n, err := strconv.Atoi(s)
		if err != nil {
			n = -1
		}
		levels = append(levels, n)
	}
	return levels
}

// paragraphDirections decodes the bitset of BidiTest.txt: 1 = auto,
// 2 = LTR, 4 = RTL.
func paragraphDirections(text *Text, bitset int) []Direction {
	var dirs []Direction
	if bitset&1 != 0 {
		scan := NewResolver()
		scan.SetPosition(text.IteratorAt(0), 0)
		dir, _ := scan.DetermineParagraphDirectionality()
		dirs = append(dirs, dir)
	}
	if bitset&2 != 0 {
		dirs = append(dirs, LTR)
	}
	if bitset&4 != 0 {
		dirs = append(dirs, RTL)
	}
	return dirs
}
