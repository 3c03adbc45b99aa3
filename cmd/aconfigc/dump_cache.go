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
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
	"github.com/kraklabs/aconfigc/pkg/dump"
)

// runDumpCache implements dump-cache: render a cache as plain text,
// verbose text (with full tracepoint history), a protobuf-equivalent
// encoding (this module's JSON wire form, see ir.MarshalBinary), a
// textproto-style rendering, or one of the device_config export
// formats.
func runDumpCache(args []string, _ string, globals GlobalFlags) {
	fs := flag.NewFlagSet("dump-cache", flag.ExitOnError)
	cachePath := fs.String("cache", "", "Path to a cache file produced by create-cache (required)")
	format := fs.String("format", "text", "Output format: text, verbose, protobuf, textproto, device-config-defaults, device-config-sysprops")
	out := fs.String("out", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `aconfigc dump-cache - dump a cache in a chosen format

Usage:
  aconfigc dump-cache --cache <cache-file> [--format text|verbose|protobuf|textproto|device-config-defaults|device-config-sysprops]

`)
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if *cachePath == "" {
		cerrors.FatalError(cerrors.NewInputError(
			"missing required flags",
			"dump-cache requires --cache",
			"Run 'aconfigc dump-cache --help' for usage",
			nil,
		), globals.JSON)
	}

	flags := readParsedFlags(*cachePath, globals)

	var rendered string
	switch *format {
	case "text":
		rendered = dump.Text(flags)
	case "verbose":
		rendered = dump.Verbose(flags)
	case "protobuf":
		data, err := flags.MarshalBinary()
		if err != nil {
			cerrors.FatalError(cerrors.NewInternalError("cannot encode cache", err.Error(), "This is a bug in aconfigc; please file an issue", err), globals.JSON)
		}
		rendered = string(data)
	case "textproto":
		indented, err := json.MarshalIndent(flags, "", "  ")
		if err != nil {
			cerrors.FatalError(cerrors.NewInternalError("cannot encode cache", err.Error(), "This is a bug in aconfigc; please file an issue", err), globals.JSON)
		}
		rendered = string(indented) + "\n"
	case "device-config-defaults":
		rendered = dump.DeviceConfigDefaults(flags)
	case "device-config-sysprops":
		rendered = dump.DeviceConfigSysprops(flags)
	default:
		cerrors.FatalError(cerrors.NewInputError(
			"unknown dump format",
			fmt.Sprintf("format %q is not one of text, verbose, protobuf, textproto, device-config-defaults, device-config-sysprops", *format),
			"Pass one of the supported --format values",
			nil,
		), globals.JSON)
	}

	if *out == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*out, []byte(rendered), 0o644); err != nil { //nolint:gosec // G306: dump output carries no secrets
		cerrors.FatalError(cerrors.NewStorageError("cannot write dump output", *out, "Check permissions on the output path", err), globals.JSON)
	}
}
