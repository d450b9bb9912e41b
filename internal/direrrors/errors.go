// Copyright 2024 The Cyclepath Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package direrrors is the per-file error taxonomy of a crawl: every
// file either reads and parses cleanly, or fails in one of exactly two
// ways. It is deliberately lighter than cue/errors — there is no
// position-tree formatting here, because a file error is keyed by path
// and every position inside it is already a byte-offset span, not a
// CUE-style multi-file token.Pos chain that needs an Interface to
// print.
package direrrors

import (
	"fmt"

	"github.com/branchseer/cyclepath/internal/span"
)

// FileError is the error a worker records for one file: either the
// file could not be read, or it read fine but had parse and/or resolve
// problems.
type FileError interface {
	error
	filePath() string
}

// FileReadError is returned when the file itself could not be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("%s: read failed: %s", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
func (e *FileReadError) filePath() string { return e.Path }

// ResolveFailure is one specifier that failed to resolve to a path.
type ResolveFailure struct {
	Specifier string
	Span      span.Span
	Err       error
}

// ParseOrResolveError aggregates every non-fatal problem found while
// discovering one file's dependencies: parse diagnostics, specifiers
// that failed to resolve, and dynamic import/require calls whose
// argument wasn't a string literal. The crawl never halts on this —
// it's attached to the file and surfaced alongside the graph.
type ParseOrResolveError struct {
	Path              string
	ParseErrors       bool // the parse tree had at least one syntax error
	ResolveErrors     []ResolveFailure
	NonLiteralImports []span.Span
}

func (e *ParseOrResolveError) Error() string {
	return fmt.Sprintf("%s: %d resolve error(s), %d non-literal import(s), parse errors: %t",
		e.Path, len(e.ResolveErrors), len(e.NonLiteralImports), e.ParseErrors)
}

func (e *ParseOrResolveError) filePath() string { return e.Path }

// Empty reports whether there is nothing to report: no parse errors,
// no resolve failures, no non-literal imports.
func (e *ParseOrResolveError) Empty() bool {
	return e == nil || (!e.ParseErrors && len(e.ResolveErrors) == 0 && len(e.NonLiteralImports) == 0)
}

var (
	_ FileError = (*FileReadError)(nil)
	_ FileError = (*ParseOrResolveError)(nil)
)
