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

// Package fixture turns a txtar archive into an in-memory
// discover.FileSystem, the way internal/cuetxtar turns one into a set
// of loadable CUE instances. Each file entry in the archive becomes a
// file rooted under a fixed absolute base directory; directories are
// derived from the file paths themselves.
package fixture

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"

	"github.com/branchseer/cyclepath/internal/discover"
)

// DefaultRoot is the base directory fixture files are rooted under
// when no explicit root is given.
const DefaultRoot = "/fixture"

// FS is an in-memory discover.FileSystem backed by a parsed txtar
// archive. It imports package discover, so packages that discover
// itself depends on (e.g. jsimport) cannot use it in their tests.
type FS struct {
	root  string
	files map[string]string
	dirs  map[string]bool
}

// Load builds an FS from an already-parsed archive, rooting every file
// at root (DefaultRoot if empty).
func Load(a *txtar.Archive, root string) *FS {
	if root == "" {
		root = DefaultRoot
	}
	root = strings.TrimSuffix(root, "/")
	fs := &FS{root: root, files: map[string]string{}, dirs: map[string]bool{}}
	for _, f := range a.Files {
		abs := path.Join(root, f.Name)
		fs.files[abs] = string(f.Data)
		for dir := path.Dir(abs); dir != "/" && dir != "." && dir != root; dir = path.Dir(dir) {
			fs.dirs[dir] = true
		}
		fs.dirs[root] = true
	}
	return fs
}

// LoadString parses src as a txtar archive and builds an FS from it.
func LoadString(src string, root string) *FS {
	return Load(txtar.Parse([]byte(src)), root)
}

// LoadFile parses the txtar archive at path and builds an FS from it.
func LoadFile(path string, root string) (*FS, error) {
	a, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return Load(a, root), nil
}

// Root returns the absolute base directory every fixture path is
// rooted under.
func (fs *FS) Root() string { return fs.root }

// Path joins a fixture-relative name onto the archive's root,
// returning the absolute path discover.FileSystem operations expect.
func (fs *FS) Path(name string) string {
	return path.Join(fs.root, name)
}

// Paths returns every file's absolute path, sorted.
func (fs *FS) Paths() []string {
	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (fs *FS) ReadToString(p string) (string, error) {
	if content, ok := fs.files[p]; ok {
		return content, nil
	}
	return "", fmt.Errorf("fixture: %s: no such file", p)
}

func (fs *FS) Stat(p string) (discover.FileInfo, error) {
	if fs.dirs[p] {
		return discover.FileInfo{IsDir: true}, nil
	}
	if _, ok := fs.files[p]; ok {
		return discover.FileInfo{}, nil
	}
	return discover.FileInfo{}, fmt.Errorf("fixture: %s: no such file or directory", p)
}

func (fs *FS) LStat(p string) (discover.FileInfo, error) { return fs.Stat(p) }

func (fs *FS) Canonicalize(p string) (string, error) { return p, nil }

var _ discover.FileSystem = (*FS)(nil)
