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
)

const settingsDir = ".bracketls"

// FindWorkspaceRoot searches for a .bracketls directory starting from the
// given path and walking up the directory tree. Returns the path containing
// it, or "" if none is found.
func FindWorkspaceRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentPath := absPath
	for {
		candidate := filepath.Join(currentPath, settingsDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return currentPath, nil
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			break
		}
		currentPath = parentPath
	}

	return "", nil
}

// FindConfigFile searches for settings.yaml or settings.json under the
// nearest .bracketls directory above startPath.
func FindConfigFile(startPath string) (string, error) {
	workspaceRoot, err := FindWorkspaceRoot(startPath)
	if err != nil {
		return "", err
	}
	if workspaceRoot == "" {
		return "", nil
	}

	dir := filepath.Join(workspaceRoot, settingsDir)

	yamlPath := filepath.Join(dir, "settings.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath, nil
	}

	jsonPath := filepath.Join(dir, "settings.json")
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}

	return "", nil
}

// HasWorkspaceConfig reports whether a settings file exists for startPath.
func HasWorkspaceConfig(startPath string) (bool, error) {
	configPath, err := FindConfigFile(startPath)
	if err != nil {
		return false, err
	}
	return configPath != "", nil
}
