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

package rust

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/aconfigc/pkg/codegen"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

func TestGenerateNestsSharedRoot(t *testing.T) {
	groups := []codegen.PackageGroup{
		{Package: "com.android.one", Flags: []ir.ParsedFlag{
			{Package: "com.android.one", Name: "flag_a", State: ir.StateEnabled, Permission: ir.PermissionReadOnly},
		}},
		{Package: "com.android.two", Flags: []ir.ParsedFlag{
			{Package: "com.android.two", Name: "flag_b", State: ir.StateDisabled, Permission: ir.PermissionReadWrite},
		}},
	}
	files, err := Generate(groups, ir.ModeProduction)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "com.rs", files[0].Name)
	require.Contains(t, files[0].Content, "pub mod android {")
	require.Contains(t, files[0].Content, "pub mod one {")
	require.Contains(t, files[0].Content, "pub mod two {")
	require.Contains(t, files[0].Content, "pub const fn flag_a()")
	require.Contains(t, files[0].Content, "pub fn flag_b()")
}

func TestRustIdentEscapesKeywords(t *testing.T) {
	require.Equal(t, "r#match", rustIdent("match"))
	require.Equal(t, "normal_flag", rustIdent("normal_flag"))
}
