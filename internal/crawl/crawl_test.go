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

package crawl

import (
	"errors"
	"sort"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/branchseer/cyclepath/internal/direrrors"
	"github.com/branchseer/cyclepath/internal/discover"
	"github.com/branchseer/cyclepath/internal/span"
)

// fakeDiscoverer reproduces the original implementation's
// collect_dependencies test fixture: a fixed map from path to its
// dependencies and an optional error, standing in for a real
// read/parse/resolve pass.
type fakeDiscoverer struct {
	deps map[string][]string
	errs map[string]string
}

func (f *fakeDiscoverer) Discover(path string) ([]discover.Target, direrrors.FileError) {
	var targets []discover.Target
	for _, dep := range f.deps[path] {
		targets = append(targets, discover.Target{Path: dep, Spans: span.Set{{Start: 0, End: 1}}})
	}
	var ferr direrrors.FileError
	if msg, ok := f.errs[path]; ok {
		ferr = &direrrors.ParseOrResolveError{
			Path: path,
			ResolveErrors: []direrrors.ResolveFailure{
				{Specifier: msg, Err: errors.New(msg)},
			},
		}
	}
	return targets, ferr
}

func TestCrawlEndToEnd(t *testing.T) {
	d := &fakeDiscoverer{
		deps: map[string][]string{
			"/x": {},
			"/a": {"/b"},
			"/b": {"/c", "/d"},
			"/c": {},
			"/d": {"/a", "/d"},
		},
		errs: map[string]string{
			"/a": "a error",
			"/c": "c error",
		},
	}

	result := Crawl([]string{"/x", "/a"}, d, Options{})

	qt.Assert(t, qt.IsNil(result.Graph.CheckConsistency()))

	paths := append([]string(nil), result.Graph.Paths()...)
	sort.Strings(paths)
	qt.Assert(t, qt.DeepEquals(paths, []string{"/a", "/b", "/c", "/d", "/x"}))

	var pairs [][2]string
	for _, e := range result.Graph.Edges() {
		pairs = append(pairs, [2]string{e.From, e.To})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	qt.Assert(t, qt.DeepEquals(pairs, [][2]string{
		{"/a", "/b"},
		{"/b", "/c"},
		{"/b", "/d"},
		{"/d", "/a"},
		{"/d", "/d"},
	}))

	qt.Assert(t, qt.HasLen(result.ErrorsByPath, 2))
	_, hasA := result.ErrorsByPath["/a"]
	_, hasC := result.ErrorsByPath["/c"]
	qt.Assert(t, qt.IsTrue(hasA))
	qt.Assert(t, qt.IsTrue(hasC))
}

func TestCrawlSingleEntryNoDependencies(t *testing.T) {
	d := &fakeDiscoverer{deps: map[string][]string{"/only": {}}}
	result := Crawl([]string{"/only"}, d, Options{Workers: 2})
	qt.Assert(t, qt.Equals(result.Graph.NodeCount(), 1))
	qt.Assert(t, qt.Equals(result.Graph.EdgeCount(), 0))
	qt.Assert(t, qt.HasLen(result.ErrorsByPath, 0))
}

func TestCrawlEntryReadFailureStillCreatesNode(t *testing.T) {
	d := &fakeDiscoverer{
		deps: map[string][]string{"/broken": {}},
		errs: map[string]string{"/broken": "read failed"},
	}
	result := Crawl([]string{"/broken"}, d, Options{})
	qt.Assert(t, qt.Equals(result.Graph.NodeCount(), 1))
	qt.Assert(t, qt.HasLen(result.ErrorsByPath, 1))
}
