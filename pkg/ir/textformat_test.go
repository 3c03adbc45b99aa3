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
	"testing"

	"github.com/stretchr/testify/require"
)

const testDeclarations = `
package: "com.android.aconfig.test"
container: "system"

flag {
  name: "enabled_ro"
  namespace: "aconfig_test"
  description: "This flag is enabled by default"
  bug: "12345"
}

flag {
  name: "disabled_rw"
  namespace: "aconfig_test"
  description: "This flag is disabled by default"
  is_fixed_read_only: false
}
`

func TestParseFlagDeclarations(t *testing.T) {
	decls, err := ParseFlagDeclarations(testDeclarations)
	require.NoError(t, err)
	require.Equal(t, "com.android.aconfig.test", decls.Package)
	require.Equal(t, "system", decls.Container)
	require.Len(t, decls.FlagDeclarations, 2)
	require.Equal(t, "enabled_ro", decls.FlagDeclarations[0].Name)
	require.Equal(t, "aconfig_test", decls.FlagDeclarations[0].Namespace)
	require.Equal(t, []string{"12345"}, decls.FlagDeclarations[0].Bugs)
	require.False(t, decls.FlagDeclarations[1].IsFixedReadOnly)
}

const testValues = `
package: "com.android.aconfig.test"

flag_value {
  name: "enabled_ro"
  state: DISABLED
  permission: READ_ONLY
}
`

func TestParseFlagValues(t *testing.T) {
	vals, err := ParseFlagValues(testValues)
	require.NoError(t, err)
	require.Equal(t, "com.android.aconfig.test", vals.Package)
	require.Len(t, vals.Values, 1)
	require.Equal(t, "com.android.aconfig.test", vals.Values[0].Package)
	require.Equal(t, StateDisabled, vals.Values[0].State)
	require.Equal(t, PermissionReadOnly, vals.Values[0].Permission)
}

func TestParseFlagDeclarationsRejectsBadName(t *testing.T) {
	_, err := ParseFlagDeclarations(`
package: "com.android.aconfig.test"
container: "system"
flag {
  name: "Bad__Name"
  namespace: "aconfig_test"
  description: "x"
}
`)
	require.Error(t, err)
}
