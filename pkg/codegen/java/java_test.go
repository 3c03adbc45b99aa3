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

package java

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/aconfigc/pkg/codegen"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

func TestGenerateOneClassPerPackage(t *testing.T) {
	group := codegen.PackageGroup{
		Package: "com.example.app",
		Flags: []ir.ParsedFlag{
			{Package: "com.example.app", Name: "my_cool_flag", State: ir.StateEnabled, Permission: ir.PermissionReadWrite},
		},
	}
	files, err := Generate(group, ir.ModeProduction)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "com/example/app/FeatureFlags.java", files[0].Name)
	require.Contains(t, files[0].Content, "public static boolean myCoolFlag()")
	require.Contains(t, files[0].Content, "DeviceConfig.getBoolean")
}
