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

// Package span defines the byte-offset source locations attached to
// discovered import specifiers.
package span

// Span is a pair of byte offsets into the source text of one file,
// identifying where an import specifier (or a non-literal import
// argument) appears.
type Span struct {
	Start int
	End   int
}

// Text returns the slice of src covered by s.
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// Set is a non-empty list of spans at which one dependency edge was
// discovered. One file may import the same target from multiple
// syntactic sites; every site is preserved.
type Set []Span

// Merge appends other's spans onto s, preserving discovery order.
func (s Set) Merge(other Set) Set {
	return append(s, other...)
}
