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

	flag "github.com/spf13/pflag"
	"github.com/schollz/progressbar/v3"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
	"github.com/kraklabs/aconfigc/internal/ui"
	"github.com/kraklabs/aconfigc/pkg/ir"
	"github.com/kraklabs/aconfigc/pkg/reconcile"
)

func runCreateCache(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("create-cache", flag.ExitOnError)
	pkg := fs.String("package", "", "Java-style package all declarations/values in this cache belong to (required)")
	container := fs.String("container", "", "Container this cache's flags are compiled into (required)")
	declPaths := fs.StringArray("declarations", nil, "Path to a flag declarations file (repeatable)")
	valuePaths := fs.StringArray("values", nil, "Path to a value overlay file, applied in order (repeatable)")
	out := fs.String("out", "", "Output cache path (required)")
	defaultPermission := fs.String("default-permission", string(ir.PermissionReadOnly), "Default permission for declared flags before value overlays (READ_ONLY|READ_WRITE)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `aconfigc create-cache - reconcile declarations and values into a cache

Usage:
  aconfigc create-cache --package <pkg> --container <name> \
      --declarations <file> [--declarations <file> ...] \
      [--values <file> ...] --out <cache-file>

`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if *pkg == "" || *container == "" || *out == "" || len(*declPaths) == 0 {
		cerrors.FatalError(cerrors.NewInputError(
			"missing required flags",
			"create-cache requires --package, --container, --out, and at least one --declarations",
			"Run 'aconfigc create-cache --help' for usage",
			nil,
		), globals.JSON)
	}

	cfg, cfgErr := loadConfigOrDefault(configPath)
	if cfgErr != nil && configPath != "" {
		cerrors.FatalError(cfgErr, globals.JSON)
	}
	permission := ir.FlagPermission(*defaultPermission)
	if *defaultPermission == "" && cfg != nil {
		permission = ir.PermissionReadOnly
	}

	totalSteps := len(*declPaths) + len(*valuePaths)
	var bar *progressbar.ProgressBar
	if !globals.Quiet {
		bar = progressbar.Default(int64(totalSteps), "reconciling cache")
	}

	var declarations []reconcile.DeclarationInput
	for _, p := range *declPaths {
		data, err := os.ReadFile(p) //nolint:gosec // G304: path is an explicit CLI argument
		if err != nil {
			cerrors.FatalError(cerrors.NewFileReadFailError("cannot read declarations file", p, err), globals.JSON)
		}
		parsed, err := ir.ParseFlagDeclarations(string(data))
		if err != nil {
			cerrors.FatalError(cerrors.NewParseError("cannot parse declarations file", p, "Check the file's syntax against the aconfig declaration format", err), globals.JSON)
		}
		declarations = append(declarations, reconcile.DeclarationInput{Source: p, Declarations: parsed})
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	var values []reconcile.ValueInput
	for _, p := range *valuePaths {
		data, err := os.ReadFile(p) //nolint:gosec // G304: path is an explicit CLI argument
		if err != nil {
			cerrors.FatalError(cerrors.NewFileReadFailError("cannot read values file", p, err), globals.JSON)
		}
		parsed, err := ir.ParseFlagValues(string(data))
		if err != nil {
			cerrors.FatalError(cerrors.NewParseError("cannot parse values file", p, "Check the file's syntax against the aconfig value-overlay format", err), globals.JSON)
		}
		values = append(values, reconcile.ValueInput{Source: p, Values: parsed})
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	cache, err := reconcile.CreateCache(*pkg, *container, declarations, values, permission)
	if err != nil {
		cerrors.FatalError(err, globals.JSON)
	}

	parsed := ir.FromCache(cache)
	encoded, err := parsed.MarshalBinary()
	if err != nil {
		cerrors.FatalError(cerrors.NewInternalError("cannot encode cache", err.Error(), "This is a bug in aconfigc; please file an issue", err), globals.JSON)
	}

	if err := os.WriteFile(*out, encoded, 0o644); err != nil { //nolint:gosec // G306: cache files are not sensitive
		cerrors.FatalError(cerrors.NewStorageError("cannot write cache file", *out, "Check that the output directory exists and is writable", err), globals.JSON)
	}

	flagsReconciledTotal.WithLabelValues(*container).Add(float64(len(parsed.ParsedFlag)))

	if !globals.Quiet {
		ui.Successf("wrote %s (%s flags)", *out, ui.CountText(len(parsed.ParsedFlag)))
	}
}

// loadConfigOrDefault loads aconfigc.yaml if configPath is set or one
// can be discovered, returning DefaultConfig() when neither applies.
func loadConfigOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		if _, err := findConfigFile(); err != nil {
			return DefaultConfig(), nil
		}
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		if configPath == "" {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}
