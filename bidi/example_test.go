package bidi_test

import (
	"fmt"

	"github.com/npillmayer/bidiline/bidi"
)

func ExampleResolver_CreateBidiRunsForLine() {
	text := bidi.TextFromString("car MEANS CAR.", bidi.Testing(true))
	r := bidi.NewResolver()
	r.SetStatus(bidi.NewStatus(bidi.LTR, false))
	r.SetPosition(text.IteratorAt(0), 0)
	if err := r.CreateBidiRunsForLine(text.IteratorAt(text.Len()), bidi.NoVisualOverride, false, true); err != nil {
		fmt.Println(err)
		return
	}
	for run := r.Runs().FirstRun(); run != nil; run = run.Next() {
		fmt.Printf("%d..%d level %d\n", run.Start, run.Stop, run.Level)
	}
	// Output:
	// 0..4 level 0
	// 4..13 level 1
	// 13..14 level 0
}
