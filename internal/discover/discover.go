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

// Package discover implements the per-file dependency discoverer
// (read, parse, extract, resolve, classify, dedup) that the crawl
// coordinator (package crawl) runs once per path.
package discover

import (
	"context"
	"path"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/branchseer/cyclepath/internal/direrrors"
	"github.com/branchseer/cyclepath/internal/jsimport"
	"github.com/branchseer/cyclepath/internal/span"
)

// acceptedTargetExtensions is the set of extensions a resolved
// dependency path must have to be kept; anything else (a resolved
// .json, .node, or unrecognized file) is dropped, even though it was a
// valid resolver target.
var acceptedTargetExtensions = map[string]bool{
	".js": true, ".ts": true, ".jsx": true, ".tsx": true,
}

// Target is one dependency discovered for a file: the resolved
// absolute path and every span of an import site that named it.
type Target struct {
	Path  string
	Spans span.Set
}

// Discoverer runs the per-file discovery algorithm: read, derive a
// SourceType from the extension, parse, extract imports (package
// jsimport), resolve each relative specifier, and classify/dedup the
// resulting targets.
type Discoverer struct {
	FS       FileSystem
	Resolver Resolver

	parsers parserPool
}

// NewDiscoverer returns a Discoverer backed by fs and resolver.
func NewDiscoverer(fs FileSystem, resolver Resolver) *Discoverer {
	return &Discoverer{FS: fs, Resolver: resolver}
}

// Discover reads and analyzes the file at absPath, returning its
// resolved dependencies (deduplicated by resolved path, spans merged)
// and, if anything went wrong short of a full read failure, an
// aggregate error describing it.
func (d *Discoverer) Discover(absPath string) ([]Target, direrrors.FileError) {
	source, err := d.FS.ReadToString(absPath)
	if err != nil {
		return nil, &direrrors.FileReadError{Path: absPath, Err: err}
	}

	srcType := deriveSourceType(absPath)
	root, parserErr := d.parsers.parse(srcType, []byte(source))

	imports, diag := jsimport.Extract(root, []byte(source))
	if parserErr {
		diag.HasErrors = true
	}

	byPath := make(map[string]span.Set)
	var order []string
	var resolveFailures []direrrors.ResolveFailure

	importerDir := path.Dir(absPath)
	for _, spec := range imports.Specifiers {
		if !isRelativeSpecifier(spec.Value) {
			continue
		}
		resolved, err := d.Resolver.Resolve(importerDir, spec.Value)
		if err != nil {
			resolveFailures = append(resolveFailures, direrrors.ResolveFailure{
				Specifier: spec.Value,
				Span:      spec.Span,
				Err:       err,
			})
			continue
		}
		if !acceptedTargetExtensions[strings.ToLower(path.Ext(resolved))] {
			continue
		}
		if _, ok := byPath[resolved]; !ok {
			order = append(order, resolved)
		}
		byPath[resolved] = append(byPath[resolved], spec.Span)
	}

	targets := make([]Target, len(order))
	for i, p := range order {
		targets[i] = Target{Path: p, Spans: byPath[p]}
	}

	fileErr := &direrrors.ParseOrResolveError{
		Path:              absPath,
		ParseErrors:       diag.HasErrors,
		ResolveErrors:     resolveFailures,
		NonLiteralImports: imports.NonLiteralImports,
	}
	if fileErr.Empty() {
		return targets, nil
	}
	return targets, fileErr
}

// isRelativeSpecifier reports whether specifier's first path component
// is "." or ".." — bare and absolute specifiers are out of scope for
// this resolver.
func isRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		specifier == "." || specifier == ".."
}

// deriveSourceType infers a jsimport.SourceType from a file's
// extension. Extensions it doesn't recognize fall back to
// module+JSX, matching the original implementation's default.
func deriveSourceType(filePath string) jsimport.SourceType {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".ts":
		return jsimport.SourceType{Module: true, TypeScript: true, AlwaysStrict: true}
	case ".tsx":
		return jsimport.SourceType{Module: true, TypeScript: true, JSX: true, AlwaysStrict: true}
	case ".js", ".cjs", ".mjs":
		return jsimport.SourceType{Module: true, AlwaysStrict: true}
	case ".jsx":
		return jsimport.SourceType{Module: true, JSX: true, AlwaysStrict: true}
	default:
		return jsimport.SourceType{Module: true, JSX: true}
	}
}

// parserPool hands out a reusable *sitter.Parser per dialect, the
// closest Go equivalent of the original's thread-local reusable AST
// arena: tree-sitter's Go bindings don't expose an arena allocator to
// reuse directly, but the Parser object itself carries reusable
// internal state, so pooling that amortizes the same allocation cost
// across files. There is one pool per dialect; SetLanguage is still
// called on every parse.
type parserPool struct {
	js, ts, tsx sync.Pool
}

func (p *parserPool) pool(st jsimport.SourceType) *sync.Pool {
	if !st.TypeScript {
		return &p.js
	}
	if st.JSX {
		return &p.tsx
	}
	return &p.ts
}

func (p *parserPool) language(st jsimport.SourceType) *sitter.Language {
	switch {
	case !st.TypeScript:
		return javascript.GetLanguage()
	case st.JSX:
		return tsx.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}

// parse acquires a parser for st, parses src, and returns the root
// node. The tree itself is intentionally leaked to the caller's GC
// rather than Closed here: jsimport.Extract reads from the node tree
// synchronously within the same Discover call, so the tree stays valid
// for as long as it is needed.
func (p *parserPool) parse(st jsimport.SourceType, src []byte) (*sitter.Node, bool) {
	pool := p.pool(st)
	parser, _ := pool.Get().(*sitter.Parser)
	if parser == nil {
		parser = sitter.NewParser()
	}
	parser.SetLanguage(p.language(st))

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	pool.Put(parser)
	if err != nil || tree == nil {
		return nil, true
	}
	return tree.RootNode(), false
}
