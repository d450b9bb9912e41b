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

package discover

import (
	"fmt"
	"path/filepath"
)

// ResolveOptions configures the default resolver. DefaultExtensions
// matches the original implementation's oxc_resolver::ResolveOptions
// default exactly.
type ResolveOptions struct {
	Extensions []string
}

// DefaultExtensions is the extension try-list used when an importer
// writes a specifier with no extension, e.g. `./foo`.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".node", ".json"}

// DefaultResolveOptions returns the default configuration.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{Extensions: append([]string(nil), DefaultExtensions...)}
}

// Resolver is the specifier-to-path resolver capability consumed by
// this package. Implementations must be safe for concurrent use.
type Resolver interface {
	Resolve(fromDir, specifier string) (string, error)
}

// NodeResolver resolves relative specifiers the way Node's CommonJS
// and ESM loaders do for filesystem specifiers: try the exact path,
// then each configured extension appended, then the same two steps
// inside the path treated as a directory (an "index" file).
type NodeResolver struct {
	FS      FileSystem
	Options ResolveOptions
}

// NewNodeResolver returns a NodeResolver with the given filesystem and
// options.
func NewNodeResolver(fs FileSystem, options ResolveOptions) *NodeResolver {
	return &NodeResolver{FS: fs, Options: options}
}

// Resolve resolves specifier relative to fromDir to an absolute,
// canonical path.
func (r *NodeResolver) Resolve(fromDir, specifier string) (string, error) {
	target := filepath.Join(fromDir, specifier)

	if path, ok := r.tryFile(target); ok {
		return path, nil
	}
	if path, ok := r.tryDirectoryIndex(target); ok {
		return path, nil
	}
	return "", fmt.Errorf("could not resolve %q from %q", specifier, fromDir)
}

func (r *NodeResolver) tryFile(target string) (string, bool) {
	if info, err := r.FS.Stat(target); err == nil && !info.IsDir {
		return r.canonicalize(target)
	}
	for _, ext := range r.Options.Extensions {
		candidate := target + ext
		if info, err := r.FS.Stat(candidate); err == nil && !info.IsDir {
			return r.canonicalize(candidate)
		}
	}
	return "", false
}

func (r *NodeResolver) tryDirectoryIndex(target string) (string, bool) {
	info, err := r.FS.Stat(target)
	if err != nil || !info.IsDir {
		return "", false
	}
	return r.tryFile(filepath.Join(target, "index"))
}

func (r *NodeResolver) canonicalize(path string) (string, bool) {
	abs, err := r.FS.Canonicalize(path)
	if err != nil {
		return "", false
	}
	return abs, true
}

var _ Resolver = (*NodeResolver)(nil)
