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

// Package snapshot renders a completed dependency graph's edges as the
// CLI's on-disk output: a sorted, UTF-8-valid, cwd-relative JSON array
// of [from, to] pairs. This is the only place absolute paths are
// converted to cwd-relative ones; everything upstream of it (xgraph,
// cycles, depgraph, crawl) works exclusively in absolute paths.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"
)

// Pair is one edge in the rendered snapshot: [from, to], both relative
// to the base directory the snapshot was built against. It marshals as
// a two-element JSON array, matching the spec's wire shape.
type Pair [2]string

// Edge is the minimal shape snapshot needs from a depgraph.Edge: the
// two absolute endpoint paths. Kept separate from depgraph.Edge so
// this package doesn't need to import it.
type Edge struct {
	From, To string
}

// Build converts edges (absolute paths) to Pairs relative to baseDir,
// sorted lexicographically by (from, to). It fails fatally — per the
// spec's error taxonomy — if any resulting path is not valid UTF-8,
// since the snapshot format has no way to represent that.
func Build(baseDir string, edges []Edge) ([]Pair, error) {
	pairs := make([]Pair, len(edges))
	for i, e := range edges {
		from, err := relativize(baseDir, e.From)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		to, err := relativize(baseDir, e.To)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		pairs[i] = Pair{from, to}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs, nil
}

func relativize(baseDir, absPath string) (string, error) {
	rel, err := filepath.Rel(baseDir, absPath)
	if err != nil {
		return "", fmt.Errorf("path %q is not relative to %q: %w", absPath, baseDir, err)
	}
	rel = filepath.ToSlash(rel)
	if !utf8.ValidString(rel) {
		return "", fmt.Errorf("path %q is not valid UTF-8", rel)
	}
	return rel, nil
}

// Write marshals pairs as indented JSON and writes them to path,
// creating or truncating the file. A write failure here is fatal, per
// the spec's error taxonomy: the crawl and cycle analysis succeeded,
// but the result could not be delivered.
func Write(path string, pairs []Pair) error {
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}
