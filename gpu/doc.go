/*
Package gpu defines the contract between a renderer and a GPU command
encoding backend.

Clients get a CommandBuffer from a Context, create render, blit and compute
passes on it, add commands to the passes, encode the passes and finally
submit the buffer. Submission completes asynchronously: the callback given
to SubmitCommands is called from a different goroutine once the backend has
finished, with the final Status of the buffer.

Validation failures are reported as errors and traced. Commands recorded
before a failure stay recorded; there is no rollback.

This package contains a software backend, Recorder, which records and
serializes commands without any device. Native backends implement the
same interfaces.

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
package gpu

import (
	"errors"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global graphics tracer
func T() tracing.Trace {
	return gtrace.GraphicsTracer
}

// Validation errors
var (
	ErrInvalidSource      = errors.New("gpu: invalid source")
	ErrInvalidDestination = errors.New("gpu: invalid destination")
	ErrOutOfBounds        = errors.New("gpu: region out of bounds")
	ErrInvalidCommand     = errors.New("gpu: invalid command")
	ErrPassEncoded        = errors.New("gpu: pass has already been encoded")
	ErrPassNotEncoded     = errors.New("gpu: pass has not been encoded")
	ErrSubmitted          = errors.New("gpu: command buffer has already been submitted")
)
