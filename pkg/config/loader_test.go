// Copyright 2025 Notedown Authors
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaultsWhenNoFile(t *testing.T) {
	root := t.TempDir()
	settings, err := LoadSettings(root, Flags{})
	require.NoError(t, err)
	require.Equal(t, Default(), settings)
}

func TestLoadSettingsFromFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, settingsDir)
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("logLevel: debug\ncompletionLimit: 5\n"), 0644))

	settings, err := LoadSettings(root, Flags{})
	require.NoError(t, err)
	require.Equal(t, "debug", settings.LogLevel)
	require.Equal(t, 5, settings.CompletionLimit)
}

func TestLoadSettingsFlagOverridesFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, settingsDir)
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("logLevel: debug\n"), 0644))

	settings, err := LoadSettings(root, Flags{LogLevel: "error"})
	require.NoError(t, err)
	require.Equal(t, "error", settings.LogLevel)
}

func TestLoadSettingsRejectsBadPollInterval(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, settingsDir)
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("watchPollSeconds: 1\n"), 0644))

	_, err := LoadSettings(root, Flags{})
	require.Error(t, err)
}
