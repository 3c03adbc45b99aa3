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

// Package dump renders a reconciled ParsedFlags container as
// device_config text, merges/dedups multiple containers for
// export-flags, and produces human-readable cache dumps.
package dump

import (
	"fmt"
	"sort"
	"strings"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

// DeviceConfigDefaults renders one "namespace:package.name=enabled|disabled"
// line per flag, sorted by fully-qualified name for deterministic
// output.
func DeviceConfigDefaults(flags ir.ParsedFlags) string {
	var sb strings.Builder
	for _, f := range sortedByFQN(flags.ParsedFlag) {
		state := "disabled"
		if f.State == ir.StateEnabled {
			state = "enabled"
		}
		fmt.Fprintf(&sb, "%s:%s=%s\n", f.Namespace, f.FullyQualifiedName(), state)
	}
	return sb.String()
}

// DeviceConfigSysprops renders one "persist.device_config.package.name=true|false"
// line per flag.
func DeviceConfigSysprops(flags ir.ParsedFlags) string {
	var sb strings.Builder
	for _, f := range sortedByFQN(flags.ParsedFlag) {
		state := "false"
		if f.State == ir.StateEnabled {
			state = "true"
		}
		fmt.Fprintf(&sb, "persist.device_config.%s=%s\n", f.FullyQualifiedName(), state)
	}
	return sb.String()
}

// ExportFlags merges several ParsedFlags containers into one, sorted
// by fully-qualified name. When dedup is false, a flag appearing in
// more than one container is an error; when dedup is true, the first
// occurrence (in input order) wins and later duplicates are dropped.
func ExportFlags(dedup bool, containers ...ir.ParsedFlags) (ir.ParsedFlags, error) {
	seen := map[string]bool{}
	var out []ir.ParsedFlag

	for _, c := range containers {
		for _, f := range c.ParsedFlag {
			fqn := f.FullyQualifiedName()
			if seen[fqn] {
				if dedup {
					continue
				}
				return ir.ParsedFlags{}, cerrors.NewDuplicateFlagError(
					"duplicate flag in export",
					fmt.Sprintf("duplicate flag %s", fqn),
				)
			}
			seen[fqn] = true
			out = append(out, f)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].FullyQualifiedName() < out[j].FullyQualifiedName() })
	return ir.ParsedFlags{ParsedFlag: out}, nil
}

func sortedByFQN(flags []ir.ParsedFlag) []ir.ParsedFlag {
	out := make([]ir.ParsedFlag, len(flags))
	copy(out, flags)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullyQualifiedName() < out[j].FullyQualifiedName() })
	return out
}

// Text renders one line per flag: "package.name: STATE/PERMISSION".
func Text(flags ir.ParsedFlags) string {
	var sb strings.Builder
	for _, f := range sortedByFQN(flags.ParsedFlag) {
		fmt.Fprintf(&sb, "%s: %s/%s\n", f.FullyQualifiedName(), f.State, f.Permission)
	}
	return sb.String()
}

// Verbose renders the same per-flag line as Text plus the full
// tracepoint history and fixed-read-only/exported markers.
func Verbose(flags ir.ParsedFlags) string {
	var sb strings.Builder
	for _, f := range sortedByFQN(flags.ParsedFlag) {
		fmt.Fprintf(&sb, "%s: %s/%s\n", f.FullyQualifiedName(), f.State, f.Permission)
		fmt.Fprintf(&sb, "  namespace: %s\n", f.Namespace)
		fmt.Fprintf(&sb, "  description: %s\n", f.Description)
		if f.IsFixedReadOnly {
			sb.WriteString("  fixed_read_only: true\n")
		}
		if f.IsExported {
			sb.WriteString("  exported: true\n")
		}
		for _, t := range f.Trace {
			fmt.Fprintf(&sb, "  trace: %s -> %s/%s\n", t.Source, t.State, t.Permission)
		}
	}
	return sb.String()
}
