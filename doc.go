/*
Package bidiline is about resolving bidirectional text for line layout.

Description

Text in scripts like Arabic or Hebrew runs from right to left, and it is
regularly mixed with left-to-right text and numbers. The Unicode
Bidirectional Algorithm (UAX#9) describes how to find the embedding level
of every character and how to reorder runs of characters for display.
Layout engines do not want to resolve a paragraph in one go: they break
paragraphs into lines first and then need the visual runs of each line,
with embeddings carried over from one line to the next.

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

Contents

Sub-package bidi holds the resolver. It works on a text through iterators,
resolves one line at a time and produces a list of runs, each of which
carries a resolved level. Isolates are left as placeholder runs which
clients resolve with nested resolvers.

Sub-package paragraph drives a resolver over a paragraph. It finds the base
direction, breaks lines at line break opportunities and resolves isolates.

Sub-package gpu defines the command buffer interfaces a renderer uses to
draw resolved runs, together with a software recorder.

Command bidicli is an interactive tool for experimenting with the resolver.
*/
package bidiline
