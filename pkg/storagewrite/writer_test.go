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

package storagewrite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/aconfigc/internal/errors"
)

func TestMapWriteUnmap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.val.map")
	require.NoError(t, os.WriteFile(path, make([]byte, 4), 0o644))

	reg := NewRegistry()
	require.NoError(t, reg.Map("system", path))

	require.NoError(t, reg.WriteBooleanFlag("system", 2, true))
	require.NoError(t, reg.Unmap("system"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, byte(1), data[2])
}

func TestMapRejectsSecondWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.val.map")
	require.NoError(t, os.WriteFile(path, make([]byte, 4), 0o644))

	reg := NewRegistry()
	require.NoError(t, reg.Map("system", path))
	defer func() { _ = reg.Unmap("system") }()

	err := reg.Map("system", path)
	require.Error(t, err)
}

func TestWriteBooleanFlagRequiresMapping(t *testing.T) {
	reg := NewRegistry()
	err := reg.WriteBooleanFlag("system", 0, true)
	require.Error(t, err)
}

func TestMapRejectsReadOnlyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.val.map")
	require.NoError(t, os.WriteFile(path, make([]byte, 4), 0o444))

	reg := NewRegistry()
	err := reg.Map("system", path)
	require.Error(t, err)

	var cliErr *errors.CLIError
	require.ErrorAs(t, err, &cliErr)
	require.Equal(t, errors.KindMapFileFail, cliErr.Kind)
}

func TestSetBooleanFlagValueResolvesFromRecords(t *testing.T) {
	dir := t.TempDir()
	valPath := filepath.Join(dir, "system.val.map")
	require.NoError(t, os.WriteFile(valPath, make([]byte, 4), 0o644))

	records := Records{Files: []ContainerRecord{
		{Version: 1, Container: "system", FlagVal: valPath},
	}}
	recordsData, err := json.Marshal(records)
	require.NoError(t, err)
	recordsPath := filepath.Join(dir, "storage_records.json")
	require.NoError(t, os.WriteFile(recordsPath, recordsData, 0o644))

	reg := NewRegistry()
	require.NoError(t, reg.SetBooleanFlagValue(recordsPath, "system", 2, true))
	require.NoError(t, reg.Unmap("system"))

	data, err := os.ReadFile(valPath)
	require.NoError(t, err)
	require.Equal(t, byte(1), data[2])
}

func TestSetBooleanFlagValueMissingContainerRecord(t *testing.T) {
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "storage_records.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(`{"files":[]}`), 0o644))

	reg := NewRegistry()
	err := reg.SetBooleanFlagValue(recordsPath, "system", 0, true)
	require.Error(t, err)

	var cliErr *errors.CLIError
	require.ErrorAs(t, err, &cliErr)
	require.Equal(t, errors.KindStorageFileMissing, cliErr.Kind)
}
