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

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/aconfigc/pkg/ir"
)

func declarations(pkg, container string, decls ...ir.FlagDeclaration) ir.FlagDeclarations {
	return ir.FlagDeclarations{Package: pkg, Container: container, FlagDeclarations: decls}
}

func TestCreateCacheBasic(t *testing.T) {
	decls := declarations("com.android.aconfig.test", "system",
		ir.FlagDeclaration{Name: "enabled_ro", Namespace: "aconfig_test", Description: "d1"},
		ir.FlagDeclaration{Name: "disabled_rw", Namespace: "aconfig_test", Description: "d2"},
	)

	values := ir.FlagValues{Package: "com.android.aconfig.test", Values: []ir.FlagValue{
		{Package: "com.android.aconfig.test", Name: "enabled_ro", State: ir.StateEnabled, Permission: ir.PermissionReadOnly},
	}}

	cache, err := CreateCache(
		"com.android.aconfig.test", "system",
		[]DeclarationInput{{Source: "decl.aconfig", Declarations: decls}},
		[]ValueInput{{Source: "values.textproto", Values: values}},
		ir.PermissionReadWrite,
	)
	require.NoError(t, err)
	require.Len(t, cache.Flags, 2)

	require.Equal(t, "enabled_ro", cache.Flags[0].Name)
	require.Equal(t, ir.StateEnabled, cache.Flags[0].State)
	require.Equal(t, ir.PermissionReadOnly, cache.Flags[0].Permission)
	require.Len(t, cache.Flags[0].Trace, 2)

	require.Equal(t, "disabled_rw", cache.Flags[1].Name)
	require.Equal(t, ir.StateDisabled, cache.Flags[1].State)
	require.Equal(t, ir.PermissionReadWrite, cache.Flags[1].Permission)
	require.Len(t, cache.Flags[1].Trace, 1)
}

func TestCreateCacheDuplicateFlag(t *testing.T) {
	decls := declarations("com.example.app", "system",
		ir.FlagDeclaration{Name: "my_flag", Namespace: "ns", Description: "d1"},
		ir.FlagDeclaration{Name: "my_flag", Namespace: "ns", Description: "d2"},
	)
	_, err := CreateCache("com.example.app", "system",
		[]DeclarationInput{{Source: "a.aconfig", Declarations: decls}}, nil, ir.PermissionReadWrite)
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag already declared")
}

func TestCreateCachePackageMismatch(t *testing.T) {
	decls := declarations("com.example.other", "system",
		ir.FlagDeclaration{Name: "my_flag", Namespace: "ns", Description: "d1"})
	_, err := CreateCache("com.example.app", "system",
		[]DeclarationInput{{Source: "a.aconfig", Declarations: decls}}, nil, ir.PermissionReadWrite)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected package com.example.app, got com.example.other")
}

func TestCreateCacheFixedReadOnlyViolation(t *testing.T) {
	decls := declarations("com.example.app", "system",
		ir.FlagDeclaration{Name: "enabled_fixed_ro", Namespace: "ns", Description: "d1", IsFixedReadOnly: true})

	values := ir.FlagValues{Package: "com.example.app", Values: []ir.FlagValue{
		{Package: "com.example.app", Name: "enabled_fixed_ro", Permission: ir.PermissionReadWrite},
	}}

	_, err := CreateCache("com.example.app", "system",
		[]DeclarationInput{{Source: "a.aconfig", Declarations: decls}},
		[]ValueInput{{Source: "v.textproto", Values: values}},
		ir.PermissionReadOnly,
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fixed read only flag")
}

func TestCreateCacheFixedReadOnlySeededReadOnlyRegardlessOfDefault(t *testing.T) {
	decls := declarations("com.example.app", "system",
		ir.FlagDeclaration{Name: "fixed_ro", Namespace: "ns", Description: "d1", IsFixedReadOnly: true},
		ir.FlagDeclaration{Name: "not_fixed", Namespace: "ns", Description: "d2"},
	)

	cache, err := CreateCache("com.example.app", "system",
		[]DeclarationInput{{Source: "a.aconfig", Declarations: decls}}, nil, ir.PermissionReadWrite)
	require.NoError(t, err)

	require.Equal(t, "fixed_ro", cache.Flags[0].Name)
	require.Equal(t, ir.PermissionReadOnly, cache.Flags[0].Permission)
	require.Equal(t, ir.PermissionReadOnly, cache.Flags[0].Trace[0].Permission)

	require.Equal(t, "not_fixed", cache.Flags[1].Name)
	require.Equal(t, ir.PermissionReadWrite, cache.Flags[1].Permission)
}

func TestCreateCacheUnknownFlagInValues(t *testing.T) {
	decls := declarations("com.example.app", "system",
		ir.FlagDeclaration{Name: "known", Namespace: "ns", Description: "d1"})

	values := ir.FlagValues{Package: "com.example.app", Values: []ir.FlagValue{
		{Package: "com.example.app", Name: "unknown", State: ir.StateEnabled},
	}}

	_, err := CreateCache("com.example.app", "system",
		[]DeclarationInput{{Source: "a.aconfig", Declarations: decls}},
		[]ValueInput{{Source: "v.textproto", Values: values}},
		ir.PermissionReadWrite,
	)
	require.Error(t, err)
}
