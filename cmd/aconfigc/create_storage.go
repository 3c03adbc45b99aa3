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

	flag "github.com/spf13/pflag"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
	"github.com/kraklabs/aconfigc/internal/ui"
	"github.com/kraklabs/aconfigc/pkg/storage"
)

// runCreateStorage builds the on-device package table, flag table, and
// value array for one container and writes them as
// "{container}.package.map", "{container}.flag.map", and
// "{container}.val.map" under --out.
func runCreateStorage(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("create-storage", flag.ExitOnError)
	container := fs.String("container", "", "Container to build storage files for (required)")
	cachePath := fs.String("cache", "", "Path to a cache file produced by create-cache (required)")
	out := fs.String("out", "", "Output directory for the storage files (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `aconfigc create-storage - build the on-device package/flag/value store

Usage:
  aconfigc create-storage --container <name> --cache <cache-file> --out <dir>

`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	cfg, cfgErr := loadConfigOrDefault(configPath)
	if cfgErr != nil && configPath != "" {
		cerrors.FatalError(cfgErr, globals.JSON)
	}
	if *container == "" && cfg != nil {
		*container = cfg.DefaultContainer
	}

	if *container == "" || *cachePath == "" || *out == "" {
		cerrors.FatalError(cerrors.NewInputError(
			"missing required flags",
			"create-storage requires --container, --cache, and --out",
			"Run 'aconfigc create-storage --help' for usage",
			nil,
		), globals.JSON)
	}

	flags := readParsedFlags(*cachePath, globals)

	files, err := storage.Build(*container, flags)
	if err != nil {
		cerrors.FatalError(err, globals.JSON)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		cerrors.FatalError(cerrors.NewStorageError("cannot create output directory", *out, "Check permissions on the output path", err), globals.JSON)
	}

	writeTable := func(name string, marshal func() ([]byte, error)) {
		data, err := marshal()
		if err != nil {
			cerrors.FatalError(cerrors.NewInternalError("cannot encode storage table", name, "This is a bug in aconfigc; please file an issue", err), globals.JSON)
		}
		dest := filepath.Join(*out, name)
		if err := os.WriteFile(dest, data, 0o644); err != nil { //nolint:gosec // G306: storage tables carry no secrets
			cerrors.FatalError(cerrors.NewStorageError("cannot write storage file", dest, "Check permissions on the output path", err), globals.JSON)
		}
	}

	writeTable(*container+".package.map", files.PackageTable.MarshalBinary)
	writeTable(*container+".flag.map", files.FlagTable.MarshalBinary)
	writeTable(*container+".val.map", files.ValueArray.MarshalBinary)

	storageFilesWrittenTotal.WithLabelValues(*container).Add(3)

	if !globals.Quiet {
		ui.Successf("wrote storage files for container %s to %s", ui.Label(*container), *out)
	}
}
