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

// Package jsimport walks a parsed JS/TS AST and extracts the set of
// module specifiers a file imports, distinguishing value imports from
// type-only ones and literal specifiers from dynamic ones.
//
// The walk is a plain recursive descent over the tree-sitter parse
// tree rather than a set of named visitor hooks: the grammar nests
// import-like constructs arbitrarily deeply inside conditionals,
// functions and blocks (a dynamic `import()` or `require()` call can
// appear anywhere an expression can), so every node must be visited.
package jsimport

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/branchseer/cyclepath/internal/span"
)

// SourceType selects which dialect of the grammar a file should be
// parsed and walked as. Module and AlwaysStrict mirror the flags the
// original implementation's parser took (oxc_span::SourceType) but
// don't affect extraction here: tree-sitter's JS/TS grammars don't
// distinguish script vs. module parsing or strict mode, only dialect
// (TypeScript) and JSX support matter for grammar selection.
type SourceType struct {
	Module       bool
	TypeScript   bool
	JSX          bool
	AlwaysStrict bool
}

// Specifier is one extracted module specifier and the span of the
// string literal it came from.
type Specifier struct {
	Value string
	Span  span.Span
}

// Imports is the result of walking one file's AST.
type Imports struct {
	Specifiers        []Specifier
	NonLiteralImports []span.Span
}

// Diagnostics reports whether the parse tree contains any syntax
// errors. It does not attempt to describe them individually — nothing
// downstream needs more than "this file had parse errors" (see
// DESIGN.md on why internal/direrrors stays this flat).
type Diagnostics struct {
	HasErrors bool
}

// Extract walks root (the root node of a tree-sitter parse of src) and
// returns every value-import specifier and every non-literal dynamic
// import/require found anywhere in the tree, plus whether the parse
// contained syntax errors.
//
// If root is nil (the parser panicked outright), Extract returns a
// zero Imports and Diagnostics{HasErrors: true}.
func Extract(root *sitter.Node, src []byte) (Imports, Diagnostics) {
	if root == nil {
		return Imports{}, Diagnostics{HasErrors: true}
	}
	w := &walker{src: src}
	w.walk(root)
	return w.imports, Diagnostics{HasErrors: root.HasError()}
}

type walker struct {
	src     []byte
	imports Imports
}

func (w *walker) walk(node *sitter.Node) {
	switch node.Type() {
	case "import_statement":
		w.visitImportStatement(node)
	case "import_alias":
		w.visitImportAlias(node)
	case "export_statement":
		w.visitExportStatement(node)
	case "call_expression":
		w.visitCallExpression(node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i))
	}
}

// visitImportStatement handles `import X from 'S'`, `import 'S'`,
// `import * as X from 'S'`, `import X = require('S')` (an
// import_require_clause child), and their `import type` variants. A bare
// `import 'S'` (side-effect import, no clause) is always a value
// import — there is no syntax for a type-only side-effect import.
func (w *walker) visitImportStatement(node *sitter.Node) {
	if hasLeadingTypeKeyword(node) {
		return
	}
	if str := findDirectChildByType(node, "string"); str != nil {
		w.addSpecifier(str)
		return
	}
	if req := findDirectChildByType(node, "import_require_clause"); req != nil {
		if str := findDirectChildByType(req, "string"); str != nil {
			w.addSpecifier(str)
		}
	}
}

// visitImportAlias handles `import X = require('S')` and its `import
// type X = require('S')` variant (ignored).
func (w *walker) visitImportAlias(node *sitter.Node) {
	if hasLeadingTypeKeyword(node) {
		return
	}
	req := findDescendantByType(node, "import_require_clause")
	if req == nil {
		return
	}
	if str := findDirectChildByType(req, "string"); str != nil {
		w.addSpecifier(str)
	}
}

// visitExportStatement handles `export * from 'S'` and `export {...}
// from 'S'`, non-type forms. A re-export with no `from` clause (e.g.
// `export { x }`) has no specifier to extract.
func (w *walker) visitExportStatement(node *sitter.Node) {
	if hasLeadingTypeKeyword(node) {
		return
	}
	if str := findDirectChildByType(node, "string"); str != nil {
		w.addSpecifier(str)
	}
}

// visitCallExpression handles `require('S')` and `import('S')`. Both
// are matched purely syntactically: a require call is any call whose
// callee is an identifier literally named "require"; a dynamic import
// is any call whose callee is the reserved `import` token. Neither
// does scope analysis, per spec.
func (w *walker) visitCallExpression(node *sitter.Node) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}

	switch {
	case fn.Type() == "import":
		w.visitDynamicCallArg(node)
	case fn.Type() == "identifier" && fn.Content(w.src) == "require":
		w.visitDynamicCallArg(node)
	}
}

// visitDynamicCallArg handles the shared shape of `require(...)` and
// `import(...)`: exactly one argument, which is either a string
// literal (a specifier) or anything else (a non-literal import span
// covering that argument).
func (w *walker) visitDynamicCallArg(node *sitter.Node) {
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return
	}
	var only *sitter.Node
	count := 0
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(i)
		if isPunctuation(c) {
			continue
		}
		count++
		only = c
	}
	if count != 1 {
		return
	}
	if only.Type() == "string" {
		w.addSpecifier(only)
		return
	}
	w.imports.NonLiteralImports = append(w.imports.NonLiteralImports, nodeSpan(only))
}

func (w *walker) addSpecifier(strNode *sitter.Node) {
	w.imports.Specifiers = append(w.imports.Specifiers, Specifier{
		Value: stripQuotes(strNode.Content(w.src)),
		Span:  nodeSpan(strNode),
	})
}

func nodeSpan(node *sitter.Node) span.Span {
	return span.Span{Start: int(node.StartByte()), End: int(node.EndByte())}
}

// hasLeadingTypeKeyword reports whether node (an import/export-family
// statement) carries a `type` modifier directly after its leading
// keyword, e.g. `import type X from 'S'` or `export type { X } from
// 'S'`. It stops scanning once it reaches the clause/string/from/*
// that always follows any `type` modifier, so it never matches a
// `type` appearing deeper in the statement.
func hasLeadingTypeKeyword(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "type":
			return true
		case "import_clause", "export_clause", "namespace_export",
			"string", "from", "*", "=":
			return false
		}
	}
	return false
}

func findDirectChildByType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func findDescendantByType(node *sitter.Node, typ string) *sitter.Node {
	if node.Type() == typ {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findDescendantByType(node.Child(i), typ); found != nil {
			return found
		}
	}
	return nil
}

func isPunctuation(node *sitter.Node) bool {
	switch node.Type() {
	case "(", ")", ",":
		return true
	}
	return !node.IsNamed()
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '\'', '"', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
