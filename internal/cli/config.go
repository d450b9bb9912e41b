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

package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/branchseer/cyclepath/internal/discover"
)

// Config is the optional on-disk configuration for a crawl, loaded
// from a YAML file named by --config. Every field is optional; zero
// values fall back to the command's own flag defaults.
type Config struct {
	// Workers overrides the worker pool size (GOMAXPROCS if 0).
	Workers int `yaml:"workers"`

	// Extensions overrides the resolver's extension try-list.
	Extensions []string `yaml:"extensions"`

	// Out overrides the snapshot output path.
	Out string `yaml:"out"`

	// EdgesOnly switches the driver from full cycle enumeration (C3)
	// to the cheaper cycle-edge detector (C2).
	EdgesOnly bool `yaml:"edgesOnly"`
}

// loadConfig reads and parses the YAML config at path. An empty path
// (no --config given) is not an error: it simply yields the zero
// Config. A path naming a file that cannot be read is an error.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cli: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cli: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) resolveOptions() discover.ResolveOptions {
	if len(c.Extensions) == 0 {
		return discover.DefaultResolveOptions()
	}
	return discover.ResolveOptions{Extensions: c.Extensions}
}
