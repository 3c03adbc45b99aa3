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

package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/aconfigc/pkg/ir"
)

func sampleFlags() ir.ParsedFlags {
	return ir.ParsedFlags{ParsedFlag: []ir.ParsedFlag{
		{Package: "com.example.app", Name: "enabled_ro", Permission: ir.PermissionReadOnly, IsExported: false, IsFixedReadOnly: true},
		{Package: "com.example.app", Name: "enabled_rw_exported", Permission: ir.PermissionReadWrite, IsExported: true},
	}}
}

func TestModeProductionPassthrough(t *testing.T) {
	out, err := ModifyCachedFlagsBasedOnMode(ir.ModeProduction, sampleFlags())
	require.NoError(t, err)
	require.Len(t, out.ParsedFlag, 2)
}

func TestModeTestPassthrough(t *testing.T) {
	in := sampleFlags()
	out, err := ModifyCachedFlagsBasedOnMode(ir.ModeTest, in)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestModeExportedFiltersAndForcesFields(t *testing.T) {
	out, err := ModifyCachedFlagsBasedOnMode(ir.ModeExported, sampleFlags())
	require.NoError(t, err)
	require.Len(t, out.ParsedFlag, 1)
	require.Equal(t, "enabled_rw_exported", out.ParsedFlag[0].Name)
	require.Equal(t, ir.StateDisabled, out.ParsedFlag[0].State)
	require.Equal(t, ir.PermissionReadWrite, out.ParsedFlag[0].Permission)
	require.False(t, out.ParsedFlag[0].IsFixedReadOnly)
}

func TestModeExportedEmptyIsError(t *testing.T) {
	flags := ir.ParsedFlags{ParsedFlag: []ir.ParsedFlag{
		{Package: "com.example.app", Name: "not_exported", IsExported: false},
	}}
	_, err := ModifyCachedFlagsBasedOnMode(ir.ModeExported, flags)
	require.Error(t, err)
	require.Contains(t, err.Error(), "contains no exported flags")
}

func TestGroupByPackage(t *testing.T) {
	flags := ir.ParsedFlags{ParsedFlag: []ir.ParsedFlag{
		{Package: "b.pkg", Name: "z"},
		{Package: "a.pkg", Name: "m"},
		{Package: "b.pkg", Name: "a"},
	}}
	groups := GroupByPackage(flags)
	require.Len(t, groups, 2)
	require.Equal(t, "b.pkg", groups[0].Package)
	require.Equal(t, []string{"a", "z"}, []string{groups[0].Flags[0].Name, groups[0].Flags[1].Name})
	require.Equal(t, "a.pkg", groups[1].Package)
}
