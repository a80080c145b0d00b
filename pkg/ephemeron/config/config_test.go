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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

func TestLoadParsesPresetsAndApps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
presets:
  small:
    image: example.com/small:latest
    port: 8080
apps:
  ci: secretkey
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	preset, ok := cfg.Preset("small")
	require.True(t, ok)
	require.Equal(t, "example.com/small:latest", preset.Image)
	require.Equal(t, int32(8080), preset.Port)

	require.Equal(t, "secretkey", cfg.Apps["ci"])
}

func TestPresetMiss(t *testing.T) {
	cfg := &Config{Presets: map[string]ephemeronv1alpha1.EphemeronServiceSpec{}}
	_, ok := cfg.Preset("nope")
	require.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
