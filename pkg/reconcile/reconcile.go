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

// Package reconcile implements CreateCache: folding a package's flag
// declarations and an ordered list of value overlays into a single
// traced Cache.
package reconcile

import (
	"fmt"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

// DeclarationInput pairs a parsed declarations file with the name of
// the source it came from, for error messages and tracepoints.
type DeclarationInput struct {
	Source       string
	Declarations ir.FlagDeclarations
}

// ValueInput pairs a parsed value-overlay file with its source name.
type ValueInput struct {
	Source string
	Values ir.FlagValues
}

// CreateCache reconciles one package's declarations with an ordered
// list of value overlays into a traced Cache. declarations and values
// are applied in the order given; later value files win over earlier
// ones for the same flag. defaultPermission seeds the permission of
// every flag not marked fixed-read-only (those start READ_ONLY); value
// overlays may then change it.
//
// Mirrors the original aconfig compiler's create_cache: every
// declarations file must agree on package and container; every flag
// may be declared at most once; a value overlay may never change the
// permission of a flag marked fixed-read-only.
func CreateCache(pkg, container string, declarations []DeclarationInput, values []ValueInput, defaultPermission ir.FlagPermission) (ir.Cache, error) {
	cache := ir.Cache{Container: container}
	index := map[string]int{}

	for _, d := range declarations {
		if d.Declarations.Package != pkg {
			return ir.Cache{}, cerrors.NewPackageMismatchError(
				"package mismatch",
				fmt.Sprintf("failed to parse %s: expected package %s, got %s", d.Source, pkg, d.Declarations.Package),
			)
		}
		if d.Declarations.Container != "" && d.Declarations.Container != container {
			return ir.Cache{}, cerrors.NewContainerMismatchError(
				"container mismatch",
				fmt.Sprintf("failed to parse %s: expected container %s, got %s", d.Source, container, d.Declarations.Container),
			)
		}

		for _, decl := range d.Declarations.FlagDeclarations {
			if _, exists := index[decl.Name]; exists {
				return ir.Cache{}, cerrors.NewDuplicateFlagError(
					"duplicate flag",
					fmt.Sprintf("failed to declare flag %s from %s: flag already declared", decl.Name, d.Source),
				)
			}

			initialPermission := defaultPermission
			if decl.IsFixedReadOnly {
				initialPermission = ir.PermissionReadOnly
			}

			flag := ir.CachedFlag{
				Package:         pkg,
				Namespace:       decl.Namespace,
				Name:            decl.Name,
				Description:     decl.Description,
				Bugs:            decl.Bugs,
				State:           ir.StateDisabled,
				Permission:      initialPermission,
				IsFixedReadOnly: decl.IsFixedReadOnly,
				IsExported:      decl.IsExported,
				Purpose:         decl.Metadata.Purpose,
				Trace: []ir.Tracepoint{{
					Source:     d.Source,
					State:      ir.StateDisabled,
					Permission: initialPermission,
				}},
			}
			index[decl.Name] = len(cache.Flags)
			cache.Flags = append(cache.Flags, flag)
		}
	}

	for _, v := range values {
		if v.Values.Package != pkg {
			return ir.Cache{}, cerrors.NewPackageMismatchError(
				"package mismatch",
				fmt.Sprintf("failed to parse %s: expected package %s, got %s", v.Source, pkg, v.Values.Package),
			)
		}

		for _, val := range v.Values.Values {
			idx, ok := index[val.Name]
			if !ok {
				return ir.Cache{}, cerrors.NewInputError(
					"unknown flag in value overlay",
					fmt.Sprintf("failed to set value for flag %s from %s: flag not declared", val.Name, v.Source),
					"Make sure the flag is declared before a value overlay references it",
					nil,
				)
			}

			flag := &cache.Flags[idx]

			newPermission := flag.Permission
			if val.Permission != "" {
				newPermission = val.Permission
			}

			if flag.IsFixedReadOnly && newPermission != ir.PermissionReadOnly {
				return ir.Cache{}, cerrors.NewFixedReadOnlyError(
					"fixed read-only violation",
					fmt.Sprintf("failed to set permission of flag %s, since this flag is fixed read only flag", val.Name),
				)
			}

			newState := flag.State
			if val.State != "" {
				newState = val.State
			}

			flag.State = newState
			flag.Permission = newPermission
			flag.Trace = append(flag.Trace, ir.Tracepoint{
				Source:     v.Source,
				State:      newState,
				Permission: newPermission,
			})
		}
	}

	return cache, nil
}
