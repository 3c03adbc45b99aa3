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

// Package ir holds the intermediate representation aconfigc's pipeline
// passes flow through: flag declarations and value overlays go in,
// a traced Cache comes out, and a ParsedFlags container is the
// portable wire form of that Cache.
package ir

// FlagState is whether a flag is enabled or disabled.
type FlagState string

const (
	StateDisabled FlagState = "DISABLED"
	StateEnabled  FlagState = "ENABLED"
)

// FlagPermission controls whether a flag's state can be overridden at
// runtime.
type FlagPermission string

const (
	PermissionReadOnly  FlagPermission = "READ_ONLY"
	PermissionReadWrite FlagPermission = "READ_WRITE"
)

// FlagPurpose marks a flag as an ordinary feature flag or as one whose
// purpose is purely cohort bucketing/experiment enrollment.
type FlagPurpose string

const (
	PurposeFeature FlagPurpose = "PURPOSE_FEATURE"
	PurposeBucket  FlagPurpose = "PURPOSE_BUCKETING"
)

// Mode selects which codegen pass a cache is rendered under.
type Mode string

const (
	ModeProduction Mode = "production"
	ModeTest       Mode = "test"
	ModeExported   Mode = "exported"
)

// FlagDeclaration is a single flag's static declaration: its name,
// namespace, description, optional bug references, and whether it is
// fixed read-only (immutable permission, can never be overridden).
type FlagDeclaration struct {
	Name          string
	Namespace     string
	Description   string
	Bugs          []string
	IsFixedReadOnly bool
	IsExported    bool
	Metadata      FlagMetadata
}

// FlagMetadata carries the purpose classification spec.md's data model
// assigns every flag declaration.
type FlagMetadata struct {
	Purpose FlagPurpose
}

// FlagDeclarations is a package's full set of declarations plus the
// package identifier they were declared under.
type FlagDeclarations struct {
	Package     string
	Container   string
	FlagDeclarations []FlagDeclaration
}

// FlagValue is a single value-overlay record: a flag within a package
// assigned a state and/or permission.
type FlagValue struct {
	Package    string
	Name       string
	State      FlagState
	Permission FlagPermission
}

// FlagValues is a value overlay file's full contents.
type FlagValues struct {
	Package string
	Values  []FlagValue
}

// Tracepoint records one point in the reconciliation history where a
// flag's value was set or changed: which file did it, and what state
// and permission resulted.
type Tracepoint struct {
	Source     string
	State      FlagState
	Permission FlagPermission
}

// CachedFlag is a single flag as it exists after reconciliation: its
// declaration plus its final state/permission and the full trace of
// how it got there.
type CachedFlag struct {
	Package         string
	Namespace       string
	Name            string
	Description     string
	Bugs            []string
	State           FlagState
	Permission      FlagPermission
	Trace           []Tracepoint
	IsFixedReadOnly bool
	IsExported      bool
	Purpose         FlagPurpose
}

// FullyQualifiedName returns "package.name".
func (c CachedFlag) FullyQualifiedName() string {
	return FullyQualifiedName(c.Package, c.Name)
}

// Cache is the traced output of reconciliation for one package: every
// flag it declares, fully resolved, plus the container that package
// belongs to.
type Cache struct {
	Container string
	Flags     []CachedFlag
}

// ParsedFlag is the portable, package-agnostic wire shape of a
// CachedFlag: the form codegen, storage, and dump all consume.
type ParsedFlag struct {
	Package         string
	Namespace       string
	Name            string
	Description     string
	Bugs            []string
	State           FlagState
	Permission      FlagPermission
	Trace           []Tracepoint
	IsFixedReadOnly bool
	IsExported      bool
	Purpose         FlagPurpose
	Container       string
}

func (p ParsedFlag) FullyQualifiedName() string {
	return FullyQualifiedName(p.Package, p.Name)
}

// ParsedFlags is the container message exchanged between pipeline
// stages: create-cache emits it, create-storage/codegen/dump consume
// it, export-flags merges several of them.
type ParsedFlags struct {
	ParsedFlag []ParsedFlag
}

// FromCache converts a reconciled Cache into the portable ParsedFlags
// wire shape.
func FromCache(c Cache) ParsedFlags {
	out := make([]ParsedFlag, 0, len(c.Flags))
	for _, f := range c.Flags {
		out = append(out, ParsedFlag{
			Package:         f.Package,
			Namespace:       f.Namespace,
			Name:            f.Name,
			Description:     f.Description,
			Bugs:            f.Bugs,
			State:           f.State,
			Permission:      f.Permission,
			Trace:           f.Trace,
			IsFixedReadOnly: f.IsFixedReadOnly,
			IsExported:      f.IsExported,
			Purpose:         f.Purpose,
			Container:       c.Container,
		})
	}
	return ParsedFlags{ParsedFlag: out}
}
