// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/aconfigc/internal/errors"
)

const (
	defaultConfigFile = "aconfigc.yaml"
	configVersion     = "1"
)

// Config represents aconfigc.yaml: project-wide defaults a build
// falls back on when a flag isn't passed on the command line.
type Config struct {
	Version          string            `yaml:"version"`
	DefaultContainer string            `yaml:"default_container"`
	DefaultMode      string            `yaml:"default_mode"`
	OutputDirs       map[string]string `yaml:"output_dirs"` // language -> output directory
}

// DefaultConfig returns a config with sensible defaults for local
// development.
func DefaultConfig() *Config {
	return &Config{
		Version:          configVersion,
		DefaultContainer: "system",
		DefaultMode:      "production",
		OutputDirs: map[string]string{
			"cpp":  "gen/cpp",
			"java": "gen/java",
			"rust": "gen/rust",
		},
	}
}

// LoadConfig loads aconfigc.yaml from the given path, or searches the
// current directory and its parents if path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("ACONFIGC_CONFIG_PATH")
	}
	if path == "" {
		var err error
		path, err = findConfigFile()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user config or discovery
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", path),
			"Check file permissions and ensure the file exists, or pass flags directly instead of a config",
			err,
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration format",
			"YAML parsing failed — the config file contains syntax errors",
			fmt.Sprintf("Edit %s to fix syntax errors", path),
			err,
		)
	}

	if cfg.Version != "" && cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version '%s' is not supported (expected '%s')", cfg.Version, configVersion),
			"Regenerate aconfigc.yaml for the current version",
			nil,
		)
	}

	return &cfg, nil
}

func findConfigFile() (string, error) {
	if path := os.Getenv("ACONFIGC_CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", errors.NewConfigError(
			"Configuration file not found",
			fmt.Sprintf("ACONFIGC_CONFIG_PATH is set to '%s' but the file does not exist", path),
			"Fix the ACONFIGC_CONFIG_PATH environment variable or remove it to use flags directly",
			nil,
		)
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"Check system permissions and try again",
			err,
		)
	}

	for {
		candidate := filepath.Join(dir, defaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.NewConfigError(
		"Configuration file not found",
		fmt.Sprintf("No %s found in the current directory or any parent", defaultConfigFile),
		"Pass --config explicitly, or rely on command-line flags instead of a config file",
		nil,
	)
}
