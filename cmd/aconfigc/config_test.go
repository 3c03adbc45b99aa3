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
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultContainer != "system" {
		t.Fatalf("DefaultContainer = %q, want %q", cfg.DefaultContainer, "system")
	}
	if cfg.DefaultMode != "production" {
		t.Fatalf("DefaultMode = %q, want %q", cfg.DefaultMode, "production")
	}
	if cfg.OutputDirs["cpp"] == "" {
		t.Fatalf("expected a default cpp output dir")
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aconfigc.yaml")
	contents := "version: \"1\"\ndefault_container: com.example\ndefault_mode: test\noutput_dirs:\n  cpp: out/cpp\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultContainer != "com.example" {
		t.Fatalf("DefaultContainer = %q, want %q", cfg.DefaultContainer, "com.example")
	}
	if cfg.OutputDirs["cpp"] != "out/cpp" {
		t.Fatalf("OutputDirs[cpp] = %q, want %q", cfg.OutputDirs["cpp"], "out/cpp")
	}
}

func TestLoadConfig_RejectsUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aconfigc.yaml")
	if err := os.WriteFile(path, []byte("version: \"99\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatalf("expected an error for an unsupported config version")
	}
}

func TestFindConfigFile_SearchesParents(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "aconfigc.yaml"), []byte("version: \"1\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	if err := os.Chdir(nested); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Setenv("ACONFIGC_CONFIG_PATH", "")

	found, err := findConfigFile()
	if err != nil {
		t.Fatalf("findConfigFile() error = %v", err)
	}
	want := filepath.Join(root, "aconfigc.yaml")
	if found != want {
		t.Fatalf("findConfigFile() = %q, want %q", found, want)
	}
}
