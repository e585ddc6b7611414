/*
Package bidi implements a line-oriented variant of the Unicode UAX#9
Bidirectional Algorithm, modelled after the resolver found in browser engines.

A Resolver is seeded with a Status (paragraph direction and override flag) and
a start position within a Text. Clients then call CreateBidiRunsForLine once
per line, consume the resulting RunList, and reset it before resolving the
next line. Runs hold positions of characters, never the characters themselves.

Isolates (LRI, RLI, FSI … PDI) are not resolved in the same pass. Isolated
content is collected into placeholder runs, available from IsolatedRuns, and
clients resolve each of them with a separate resolver (see package paragraph).

Rules L1 (trailing whitespace) and L2 (reordering by levels) are applied per
line. Rules for mirroring (L4) and shaping are left to clients.

BSD License

Copyright (c) 2017–2022, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package bidi

import (
	"errors"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global core tracer
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// UnicodeVersion is the UAX#9 version this implementation follows.
const UnicodeVersion = "13.0.0"

// MaxLevel is the exclusive upper bound for explicit embedding levels.
// Attempts to push a context at or above MaxLevel are ignored.
const MaxLevel = 125

// Errors reported for violated resolver invariants.
var (
	ErrNoContext            = errors.New("bidi: status has no context")
	ErrResidualIsolatedRuns = errors.New("bidi: resolver released with unresolved isolated runs")
	ErrInconsistentState    = errors.New("bidi: resolver in inconsistent state")
	ErrMidpointParity       = errors.New("bidi: unbalanced midpoints")
	ErrNullIterator         = errors.New("bidi: null iterator")
)
