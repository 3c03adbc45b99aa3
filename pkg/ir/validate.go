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

package ir

import (
	"fmt"
	"sort"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
)

// VerifyFields validates a single FlagDeclaration against the
// identifier and non-empty-description rules. Error text mirrors the
// original aconfig compiler's bad-flag-declaration diagnostics.
func (f FlagDeclaration) VerifyFields() error {
	if !IsValidNameIdent(f.Name) {
		return cerrors.NewParseError("bad flag declaration: bad name", fmt.Sprintf("invalid flag name %q", f.Name), "Flag names must start with a lowercase letter and contain only lowercase letters, digits, and underscores, with no \"__\"", nil)
	}
	if f.Namespace == "" || !IsValidNameIdent(f.Namespace) {
		return cerrors.NewParseError("bad flag declaration: bad namespace", fmt.Sprintf("invalid namespace %q", f.Namespace), "Namespaces must be valid lowercase identifiers", nil)
	}
	if f.Description == "" {
		return cerrors.NewParseError("bad flag declaration: empty description", fmt.Sprintf("flag %q has no description", f.Name), "Add a description field to the declaration", nil)
	}
	return nil
}

// VerifyFields validates a FlagDeclarations file: its package
// identifier plus every declaration it carries.
func (d FlagDeclarations) VerifyFields() error {
	if !IsValidPackageIdent(d.Package) {
		return cerrors.NewParseError("bad flag declarations: bad package", fmt.Sprintf("invalid package %q", d.Package), "Package identifiers need at least two dot-separated segments, each starting with a lowercase letter", nil)
	}
	for _, decl := range d.FlagDeclarations {
		if err := decl.VerifyFields(); err != nil {
			return err
		}
	}
	return nil
}

// VerifyFields validates a single FlagValue record.
func (v FlagValue) VerifyFields() error {
	if !IsValidPackageIdent(v.Package) {
		return cerrors.NewParseError("bad flag value: bad package", fmt.Sprintf("invalid package %q", v.Package), "Package identifiers need at least two dot-separated segments", nil)
	}
	if !IsValidNameIdent(v.Name) {
		return cerrors.NewParseError("bad flag value: bad name", fmt.Sprintf("invalid flag name %q", v.Name), "Flag names must start with a lowercase letter and contain only lowercase letters, digits, and underscores", nil)
	}
	return nil
}

// VerifyFields validates a FlagValues file: its package plus every
// value record it carries.
func (v FlagValues) VerifyFields() error {
	if !IsValidPackageIdent(v.Package) {
		return cerrors.NewParseError("bad flag value: bad package", fmt.Sprintf("invalid package %q", v.Package), "Package identifiers need at least two dot-separated segments", nil)
	}
	for _, val := range v.Values {
		if err := val.VerifyFields(); err != nil {
			return err
		}
	}
	return nil
}

// VerifyFields validates a Tracepoint: its source must be non-empty.
func (t Tracepoint) VerifyFields() error {
	if t.Source == "" {
		return cerrors.NewParseError("bad tracepoint: empty source", "tracepoint has no source file", "Every tracepoint must record the file it came from", nil)
	}
	return nil
}

// VerifyFields validates a ParsedFlag against the same identifier and
// non-empty rules the original parsed_flag::verify_fields enforces.
func (p ParsedFlag) VerifyFields() error {
	if !IsValidPackageIdent(p.Package) {
		return cerrors.NewParseError("bad parsed flag: bad package", fmt.Sprintf("invalid package %q", p.Package), "Package identifiers need at least two dot-separated segments", nil)
	}
	if !IsValidNameIdent(p.Namespace) {
		return cerrors.NewParseError("bad parsed flag: bad namespace", fmt.Sprintf("invalid namespace %q", p.Namespace), "Namespaces must be valid lowercase identifiers", nil)
	}
	if p.Description == "" {
		return cerrors.NewParseError("bad parsed flag: empty description", fmt.Sprintf("flag %q has no description", p.FullyQualifiedName()), "Add a description to the originating declaration", nil)
	}
	if len(p.Trace) == 0 {
		return cerrors.NewParseError("bad parsed flag: empty trace", fmt.Sprintf("flag %q has no tracepoints", p.FullyQualifiedName()), "A reconciled flag must have at least one tracepoint recording its declaration", nil)
	}
	for _, tp := range p.Trace {
		if err := tp.VerifyFields(); err != nil {
			return err
		}
	}
	return nil
}

// Merge concatenates and sorts a set of ParsedFlags containers by
// fully-qualified name, mirroring parsed_flags::merge.
func Merge(containers ...ParsedFlags) ParsedFlags {
	var all []ParsedFlag
	for _, c := range containers {
		all = append(all, c.ParsedFlag...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].FullyQualifiedName() < all[j].FullyQualifiedName()
	})
	return ParsedFlags{ParsedFlag: all}
}
