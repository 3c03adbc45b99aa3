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
	"bytes"
	"encoding/binary"
)

// ValueArrayHeader precedes the flat array of per-flag boolean bytes.
type ValueArrayHeader struct {
	Version   uint32
	Container string
	FileSize  uint32
	NumValues uint32
}

// ValueArray is the flat byte array of flag booleans: two bytes per
// flag (a current-value byte followed by a default-or-sticky byte),
// addressed by the boolean_offset a package table node (and the
// value_index a flag table node) points at. This is the table the
// runtime Write API mutates in place.
type ValueArray struct {
	Header ValueArrayHeader
	Values []byte
}

// BuildValueArray lays out a value array with two bytes per flag (the
// current value, then the default-or-sticky value, both seeded from
// the flag's initial state), in the same order flags were assigned
// boolean offsets during reconciliation/storage building.
func BuildValueArray(container string, booleans []bool) *ValueArray {
	values := make([]byte, len(booleans)*2)
	for i, b := range booleans {
		var v byte
		if b {
			v = 1
		}
		values[2*i] = v
		values[2*i+1] = v
	}
	headerSize := valueArrayHeaderSize(container)
	return &ValueArray{
		Header: ValueArrayHeader{
			Version:   FileVersion,
			Container: container,
			FileSize:  headerSize + uint32(len(values)),
			NumValues: uint32(len(booleans)),
		},
		Values: values,
	}
}

func valueArrayHeaderSize(container string) uint32 {
	return 4 + 4 + uint32(len(container)) + 4 + 4
}

// MarshalBinary writes the value array as version, container,
// file_size, num_values, then the raw value bytes.
func (v *ValueArray) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, v.Header.Version); err != nil {
		return nil, err
	}
	if err := writeLenPrefixedString(&buf, v.Header.Container); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, v.Header.FileSize); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, v.Header.NumValues); err != nil {
		return nil, err
	}
	buf.Write(v.Values)
	return buf.Bytes(), nil
}

// ValueOffset returns the absolute byte offset of value index idx
// within the file MarshalBinary produces — the offset the runtime
// Write API seeks to before flipping a single byte.
func (v *ValueArray) ValueOffset(idx uint32) uint32 {
	return valueArrayHeaderSize(v.Header.Container) + idx
}
