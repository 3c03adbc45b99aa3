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
	"fmt"
	"os"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
)

// ContainerRecord is one container's entry in the storage-locations
// records file: the on-device paths create-storage wrote its package
// table, flag table, and value array to, plus the format version and
// the time they were written. Mirrors aconfig_storage_write_api's
// storage_record_pb message; the real toolchain persists this as a
// serialized protobuf, an opaque external framework per SPEC_FULL.md,
// so this module's JSON encoding stands in for it the same way
// pkg/ir's ParsedFlags codec does.
type ContainerRecord struct {
	Version     uint32 `json:"version"`
	Container   string `json:"container"`
	PackageMap  string `json:"package_map"`
	FlagMap     string `json:"flag_map"`
	FlagVal     string `json:"flag_val"`
	TimestampNs uint64 `json:"timestamp"`
}

// Records is the parsed contents of a storage-locations records file:
// one ContainerRecord per container create-storage has run for.
type Records struct {
	Files []ContainerRecord `json:"files"`
}

// ReadRecords reads and decodes the records file at path.
func ReadRecords(path string) (Records, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is an explicit caller-provided records file
	if err != nil {
		return Records{}, cerrors.NewFileReadFailError("cannot read storage records file", path, err)
	}
	var r Records
	if err := json.Unmarshal(data, &r); err != nil {
		return Records{}, cerrors.NewParseError("cannot decode storage records file", path, "Make sure this file was produced by 'aconfigc create-storage'", err)
	}
	return r, nil
}

// FindContainerFlagValueLocation looks up container's flag_val path
// among records, the same lookup
// find_container_persist_flag_value_location performs against the
// on-device records file before a writer maps a container's value
// array. Returns a StorageFileMissing error if container has no
// entry.
func (r Records) FindContainerFlagValueLocation(container string) (string, error) {
	for _, rec := range r.Files {
		if rec.Container == container {
			return rec.FlagVal, nil
		}
	}
	return "", cerrors.NewStorageFileMissingError(
		"no storage record for container",
		fmt.Sprintf("persistent flag value file does not exist for container %q", container),
	)
}
