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

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
	"github.com/kraklabs/aconfigc/internal/ui"
	"github.com/kraklabs/aconfigc/pkg/dump"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

// runExportFlags implements export-flags: merge several caches into
// one sorted ParsedFlags container, optionally deduping by fully
// qualified name.
func runExportFlags(args []string, _ string, globals GlobalFlags) {
	fs := flag.NewFlagSet("export-flags", flag.ExitOnError)
	cachePaths := fs.StringArray("cache", nil, "Path to a cache file to merge (repeatable, required)")
	dedup := fs.Bool("dedup", false, "Keep the first occurrence of a duplicate flag instead of erroring")
	out := fs.String("out", "", "Output cache path (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `aconfigc export-flags - merge caches into one, optionally deduping

Usage:
  aconfigc export-flags --cache <file> [--cache <file> ...] [--dedup] --out <file>

`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if len(*cachePaths) == 0 || *out == "" {
		cerrors.FatalError(cerrors.NewInputError(
			"missing required flags",
			"export-flags requires at least one --cache and --out",
			"Run 'aconfigc export-flags --help' for usage",
			nil,
		), globals.JSON)
	}

	containers := make([]ir.ParsedFlags, 0, len(*cachePaths))
	for _, p := range *cachePaths {
		containers = append(containers, readParsedFlags(p, globals))
	}

	merged, err := dump.ExportFlags(*dedup, containers...)
	if err != nil {
		cerrors.FatalError(err, globals.JSON)
	}

	encoded, err := merged.MarshalBinary()
	if err != nil {
		cerrors.FatalError(cerrors.NewInternalError("cannot encode merged cache", err.Error(), "This is a bug in aconfigc; please file an issue", err), globals.JSON)
	}
	if err := os.WriteFile(*out, encoded, 0o644); err != nil { //nolint:gosec // G306: cache files are not sensitive
		cerrors.FatalError(cerrors.NewStorageError("cannot write merged cache", *out, "Check permissions on the output path", err), globals.JSON)
	}

	if !globals.Quiet {
		ui.Successf("wrote %s merged flags to %s", ui.CountText(len(merged.ParsedFlag)), *out)
	}
}
