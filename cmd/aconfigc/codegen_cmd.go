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
	"github.com/kraklabs/aconfigc/pkg/codegen"
	"github.com/kraklabs/aconfigc/pkg/codegen/cpp"
	"github.com/kraklabs/aconfigc/pkg/codegen/java"
	"github.com/kraklabs/aconfigc/pkg/codegen/rust"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

// runCreateCodegenLib implements create-cpp-lib, create-java-lib, and
// create-rust-lib: read a cache, apply the mode transform, group by
// package, and hand the result to the requested language emitter.
func runCreateCodegenLib(args []string, configPath string, globals GlobalFlags, lang string) {
	fs := flag.NewFlagSet("create-"+lang+"-lib", flag.ExitOnError)
	cachePath := fs.String("cache", "", "Path to a cache file produced by create-cache (required)")
	mode := fs.String("mode", "", "Codegen mode: production, test, or exported (required)")
	out := fs.String("out", "", "Output directory for generated source files (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "aconfigc create-%s-lib - generate %s accessors from a cache\n\n", lang, lang)
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	cfg, cfgErr := loadConfigOrDefault(configPath)
	if cfgErr != nil && configPath != "" {
		cerrors.FatalError(cfgErr, globals.JSON)
	}
	if *mode == "" && cfg != nil {
		*mode = cfg.DefaultMode
	}
	if *out == "" && cfg != nil {
		if dir, ok := cfg.OutputDirs[lang]; ok {
			*out = dir
		}
	}

	if *cachePath == "" || *mode == "" || *out == "" {
		cerrors.FatalError(cerrors.NewInputError(
			"missing required flags",
			fmt.Sprintf("create-%s-lib requires --cache, --mode, and --out", lang),
			"Run the command with --help for usage, or set defaults in aconfigc.yaml",
			nil,
		), globals.JSON)
	}

	flags := readParsedFlags(*cachePath, globals)

	modified, err := codegen.ModifyCachedFlagsBasedOnMode(ir.Mode(*mode), flags)
	if err != nil {
		cerrors.FatalError(err, globals.JSON)
	}

	groups := codegen.GroupByPackage(modified)

	var files []fileLike
	switch lang {
	case "cpp":
		for _, g := range groups {
			genFiles, err := cpp.Generate(g, ir.Mode(*mode))
			if err != nil {
				cerrors.FatalError(err, globals.JSON)
			}
			for _, f := range genFiles {
				files = append(files, fileLike{Name: f.Name, Content: f.Content})
			}
		}
	case "java":
		for _, g := range groups {
			genFiles, err := java.Generate(g, ir.Mode(*mode))
			if err != nil {
				cerrors.FatalError(err, globals.JSON)
			}
			for _, f := range genFiles {
				files = append(files, fileLike{Name: f.Name, Content: f.Content})
			}
		}
	case "rust":
		genFiles, err := rust.Generate(groups, ir.Mode(*mode))
		if err != nil {
			cerrors.FatalError(err, globals.JSON)
		}
		for _, f := range genFiles {
			files = append(files, fileLike{Name: f.Name, Content: f.Content})
		}
	default:
		cerrors.FatalError(cerrors.NewInternalError("unknown codegen language", lang, "This is a bug in aconfigc; please file an issue", nil), globals.JSON)
	}

	for _, f := range files {
		dest := filepath.Join(*out, f.Name)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			cerrors.FatalError(cerrors.NewStorageError("cannot create output directory", filepath.Dir(dest), "Check permissions on the output path", err), globals.JSON)
		}
		if err := os.WriteFile(dest, []byte(f.Content), 0o644); err != nil { //nolint:gosec // G306: generated source is not sensitive
			cerrors.FatalError(cerrors.NewStorageError("cannot write generated file", dest, "Check permissions on the output path", err), globals.JSON)
		}
	}

	codegenFilesWrittenTotal.WithLabelValues(lang, *mode).Add(float64(len(files)))

	if !globals.Quiet {
		ui.Successf("wrote %s files to %s", ui.CountText(len(files)), *out)
	}
}

// fileLike is the common Name/Content shape every language emitter's
// File type shares, letting the write-out loop above stay generic.
type fileLike struct {
	Name    string
	Content string
}

// readParsedFlags reads and decodes a cache file produced by
// create-cache, used by every downstream command that consumes one.
func readParsedFlags(path string, globals GlobalFlags) ir.ParsedFlags {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is an explicit CLI argument
	if err != nil {
		cerrors.FatalError(cerrors.NewFileReadFailError("cannot read cache file", path, err), globals.JSON)
	}
	var flags ir.ParsedFlags
	if err := flags.UnmarshalBinary(data); err != nil {
		cerrors.FatalError(cerrors.NewParseError("cannot decode cache file", path, "Make sure this file was produced by 'aconfigc create-cache'", err), globals.JSON)
	}
	return flags
}
