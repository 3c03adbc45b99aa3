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

package dump

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/aconfigc/pkg/ir"
)

func sample() ir.ParsedFlags {
	return ir.ParsedFlags{ParsedFlag: []ir.ParsedFlag{
		{Package: "com.example", Namespace: "aconfig_test", Name: "enabled_ro", State: ir.StateEnabled, Permission: ir.PermissionReadOnly},
		{Package: "com.example", Namespace: "aconfig_test", Name: "disabled_rw", State: ir.StateDisabled, Permission: ir.PermissionReadWrite},
	}}
}

func TestDeviceConfigDefaults(t *testing.T) {
	out := DeviceConfigDefaults(sample())
	require.Equal(t, "aconfig_test:com.example.disabled_rw=disabled\naconfig_test:com.example.enabled_ro=enabled\n", out)
}

func TestDeviceConfigSysprops(t *testing.T) {
	out := DeviceConfigSysprops(sample())
	require.Equal(t, "persist.device_config.com.example.disabled_rw=false\npersist.device_config.com.example.enabled_ro=true\n", out)
}

func TestExportFlagsRejectsDuplicatesWithoutDedup(t *testing.T) {
	_, err := ExportFlags(false, sample(), sample())
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate flag")
}

func TestExportFlagsDedup(t *testing.T) {
	merged, err := ExportFlags(true, sample(), sample())
	require.NoError(t, err)
	require.Len(t, merged.ParsedFlag, 2)
}

func TestTextAndVerbose(t *testing.T) {
	text := Text(sample())
	require.Contains(t, text, "com.example.disabled_rw: DISABLED/READ_WRITE")

	verbose := Verbose(sample())
	require.Contains(t, verbose, "namespace: aconfig_test")
}
