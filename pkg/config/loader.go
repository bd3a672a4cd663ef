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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LoadSettings loads configuration from the workspace settings file found
// above startPath, then layers environment variables and cobra flags on top
// via viper (flags > env > file > defaults).
func LoadSettings(startPath string, flags Flags) (*Settings, error) {
	base, err := loadFile(startPath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("BRACKETLS")
	v.AutomaticEnv()
	v.SetDefault("logLevel", base.LogLevel)
	v.SetDefault("logFormat", base.LogFormat)
	v.SetDefault("logFile", base.LogFile)
	v.SetDefault("completionLimit", base.CompletionLimit)
	v.SetDefault("watchPollSeconds", base.WatchPollSeconds)

	flags.bind(v)

	settings := *base
	settings.LogLevel = v.GetString("logLevel")
	settings.LogFormat = v.GetString("logFormat")
	settings.LogFile = v.GetString("logFile")
	if v.IsSet("completionLimit") {
		settings.CompletionLimit = v.GetInt("completionLimit")
	}
	if v.IsSet("watchPollSeconds") {
		settings.WatchPollSeconds = v.GetInt("watchPollSeconds")
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &settings, nil
}

// Flags carries the values a cobra command parsed on its own flag set; empty
// strings/zero values mean "not set" and fall through to env/file/defaults.
type Flags struct {
	LogLevel         string
	LogFormat        string
	LogFile          string
	CompletionLimit  int
	WatchPollSeconds int
}

func (f Flags) bind(v *viper.Viper) {
	if f.LogLevel != "" {
		v.Set("logLevel", f.LogLevel)
	}
	if f.LogFormat != "" {
		v.Set("logFormat", f.LogFormat)
	}
	if f.LogFile != "" {
		v.Set("logFile", f.LogFile)
	}
	if f.CompletionLimit > 0 {
		v.Set("completionLimit", f.CompletionLimit)
	}
	if f.WatchPollSeconds > 0 {
		v.Set("watchPollSeconds", f.WatchPollSeconds)
	}
}

func loadFile(startPath string) (*Settings, error) {
	configPath, err := FindConfigFile(startPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	if configPath == "" {
		return Default(), nil
	}
	return loadFromFile(configPath)
}

func loadFromFile(configPath string) (*Settings, error) {
	data, err := os.ReadFile(configPath) // #nosec G304 - configPath comes from trusted workspace discovery
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	settings := Default()
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file %s: %w", configPath, err)
		}
	case ".json":
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file %s: %w", configPath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (expected .yaml, .yml, or .json)", ext)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return settings, nil
}
