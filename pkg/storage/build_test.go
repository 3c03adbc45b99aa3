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

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/aconfigc/pkg/ir"
)

func TestBuildStorageFiles(t *testing.T) {
	flags := ir.ParsedFlags{ParsedFlag: []ir.ParsedFlag{
		{Package: "com.android.aconfig.test", Name: "enabled_ro", State: ir.StateEnabled, Permission: ir.PermissionReadOnly},
		{Package: "com.android.aconfig.test", Name: "disabled_rw", State: ir.StateDisabled, Permission: ir.PermissionReadWrite},
		{Package: "com.android.other", Name: "only_flag", State: ir.StateEnabled, Permission: ir.PermissionReadWrite},
	}}

	files, err := Build("system", flags)
	require.NoError(t, err)
	require.Equal(t, uint32(2), files.PackageTable.Header.NumPackages)
	require.Equal(t, uint32(3), files.FlagTable.Header.NumFlags)
	require.Equal(t, uint32(3), files.ValueArray.Header.NumValues)

	node, ok := files.FlagTable.Lookup(0, "enabled_ro")
	require.True(t, ok)
	require.Equal(t, uint8(0), node.Permission)
	require.Equal(t, byte(1), files.ValueArray.Values[node.ValueIndex])

	node2, ok := files.FlagTable.Lookup(0, "disabled_rw")
	require.True(t, ok)
	require.Equal(t, uint8(1), node2.Permission)
	require.Equal(t, byte(0), files.ValueArray.Values[node2.ValueIndex])

	pkgNode, ok := files.PackageTable.Lookup("com.android.other")
	require.True(t, ok)
	require.Equal(t, uint32(4), pkgNode.BooleanOffset)
}
