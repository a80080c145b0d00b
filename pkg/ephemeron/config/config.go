// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the presets/apps configuration file (C11), the
// one ambient concern spec.md #1 explicitly pushes out of the core's
// scope but which this repo still needs a concrete loader for.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

// DefaultPath is used when EPHEMERON_CONFIG is unset.
const DefaultPath = "./config.yaml"

// Config is the process-wide, read-only-after-startup configuration:
// named service presets and the app/key pairs the token issuer accepts.
type Config struct {
	Presets map[string]ephemeronv1alpha1.EphemeronServiceSpec `yaml:"presets"`
	Apps    map[string]string                                 `yaml:"apps"`
}

// Load reads and parses the YAML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return &cfg, nil
}

// Preset looks up a named preset. ok is false on a miss, which the API
// handler maps to 404.
func (c *Config) Preset(name string) (ephemeronv1alpha1.EphemeronServiceSpec, bool) {
	p, ok := c.Presets[name]
	return p, ok
}
