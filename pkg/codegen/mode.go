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

// Package codegen dispatches a reconciled cache through one of three
// generation modes before handing it to a language emitter.
package codegen

import (
	"fmt"
	"sort"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

// ModifyCachedFlagsBasedOnMode applies mode-specific filtering and
// mutation to a ParsedFlags container, mirroring the original
// aconfig compiler's modify_cached_flags_based_on_mode:
//
//   - production and test: passed through unchanged. Only exported
//     mode mutates a flag's cached state.
//   - exported: only flags marked IsExported survive, each forced to
//     state=DISABLED, permission=READ_WRITE, is_fixed_read_only=false
//     (an exported accessor never ships a compiled-in default; it
//     always resolves through the live provider). An empty result
//     after filtering is always an error.
func ModifyCachedFlagsBasedOnMode(mode ir.Mode, flags ir.ParsedFlags) (ir.ParsedFlags, error) {
	switch mode {
	case ir.ModeProduction, ir.ModeTest:
		return flags, nil

	case ir.ModeExported:
		var out []ir.ParsedFlag
		for _, f := range flags.ParsedFlag {
			if !f.IsExported {
				continue
			}
			f.State = ir.StateDisabled
			f.Permission = ir.PermissionReadWrite
			f.IsFixedReadOnly = false
			out = append(out, f)
		}
		if len(out) == 0 {
			return ir.ParsedFlags{}, cerrors.NewEmptyLibraryError(
				"empty exported library",
				fmt.Sprintf("%s library contains no %s flags", mode, mode),
			)
		}
		return ir.ParsedFlags{ParsedFlag: out}, nil

	default:
		return ir.ParsedFlags{}, cerrors.NewInputError(
			"unknown codegen mode",
			fmt.Sprintf("mode %q is not one of production, test, exported", mode),
			"Pass --mode=production, --mode=test, or --mode=exported",
			nil,
		)
	}
}

// PackageGroup is one package's flags, grouped for emitters that
// produce one output unit (a C++ header/source pair, a Java class, a
// Rust module) per package.
type PackageGroup struct {
	Package string
	Flags   []ir.ParsedFlag
}

// GroupByPackage partitions a ParsedFlags container into per-package
// groups, preserving first-sighting package order and sorting flags
// within each group by name for deterministic output.
func GroupByPackage(flags ir.ParsedFlags) []PackageGroup {
	order := []string{}
	byPkg := map[string][]ir.ParsedFlag{}
	for _, f := range flags.ParsedFlag {
		if _, ok := byPkg[f.Package]; !ok {
			order = append(order, f.Package)
		}
		byPkg[f.Package] = append(byPkg[f.Package], f)
	}

	groups := make([]PackageGroup, 0, len(order))
	for _, pkg := range order {
		fs := byPkg[pkg]
		sort.SliceStable(fs, func(i, j int) bool { return fs[i].Name < fs[j].Name })
		groups = append(groups, PackageGroup{Package: pkg, Flags: fs})
	}
	return groups
}
