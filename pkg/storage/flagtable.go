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
	"fmt"
	"sort"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
)

// FlagTableHeader mirrors PackageTableHeader's shape for the flag
// table: version, owning container, file size, flag count, and the
// offsets of the bucket and node arrays.
type FlagTableHeader struct {
	Version      uint32
	Container    string
	FileSize     uint32
	NumFlags     uint32
	BucketOffset uint32
	NodeOffset   uint32
}

// FlagTableNode is one flag's entry: its package id (to disambiguate
// same-named flags across packages), name, absolute value-array
// index, permission, and bucket chain pointer.
type FlagTableNode struct {
	PackageID  uint32
	FlagName   string
	ValueIndex uint32
	Permission uint8
	NextOffset uint32
	bucketIndex uint32
}

type FlagTable struct {
	Header  FlagTableHeader
	Buckets []uint32
	Nodes   []FlagTableNode
}

// FlagInput is one flag destined for the flag table.
type FlagInput struct {
	PackageID  uint32
	Name       string
	ValueIndex uint32
	ReadWrite  bool
}

// BuildFlagTable lays out a flag table using the same algorithm as
// BuildPackageTable (prime bucket sizing, stable sort by bucket,
// chained collision resolution), keyed by "package_id:name" so that
// identically named flags in different packages hash independently.
func BuildFlagTable(container string, flags []FlagInput) (*FlagTable, error) {
	numBuckets, ok := TableSize(len(flags))
	if !ok {
		return nil, cerrors.NewInternalError(
			"too many flags",
			fmt.Sprintf("%d flags exceeds the largest supported hash table size", len(flags)),
			"Split the build into multiple containers",
			nil,
		)
	}

	nodes := make([]FlagTableNode, len(flags))
	for i, f := range flags {
		perm := uint8(0)
		if f.ReadWrite {
			perm = 1
		}
		nodes[i] = FlagTableNode{
			PackageID:  f.PackageID,
			FlagName:   f.Name,
			ValueIndex: f.ValueIndex,
			Permission: perm,
			bucketIndex: BucketIndex(flagTableKey(f.PackageID, f.Name), numBuckets),
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].bucketIndex < nodes[j].bucketIndex })

	buckets := make([]uint32, numBuckets)
	headerSize := flagTableHeaderSize(container)
	bucketOffset := headerSize
	nodeOffset := bucketOffset + 4*numBuckets

	offsets := make([]uint32, len(nodes))
	cursor := nodeOffset
	for i, n := range nodes {
		offsets[i] = cursor
		cursor += flagTableNodeSize(n)
	}

	for i := range nodes {
		if i+1 < len(nodes) && nodes[i+1].bucketIndex == nodes[i].bucketIndex {
			nodes[i].NextOffset = offsets[i+1]
		}
		if buckets[nodes[i].bucketIndex] == 0 {
			buckets[nodes[i].bucketIndex] = offsets[i]
		}
	}

	return &FlagTable{
		Header: FlagTableHeader{
			Version: FileVersion, Container: container, FileSize: cursor,
			NumFlags: uint32(len(flags)), BucketOffset: bucketOffset, NodeOffset: nodeOffset,
		},
		Buckets: buckets,
		Nodes:   nodes,
	}, nil
}

func flagTableKey(packageID uint32, name string) string {
	return fmt.Sprintf("%d:%s", packageID, name)
}

func flagTableHeaderSize(container string) uint32 {
	return 4 + 4 + uint32(len(container)) + 4 + 4 + 4 + 4
}

func flagTableNodeSize(n FlagTableNode) uint32 {
	// package_id(4) + name length-prefix(4) + name bytes + value_index(4) + permission(1) + next_offset(4)
	return 4 + 4 + uint32(len(n.FlagName)) + 4 + 1 + 4
}

// MarshalBinary writes the flag table in the same big-endian,
// length-prefixed layout as the package table.
func (t *FlagTable) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, t.Header.Version); err != nil {
		return nil, err
	}
	if err := writeLenPrefixedString(&buf, t.Header.Container); err != nil {
		return nil, err
	}
	for _, v := range []uint32{t.Header.FileSize, t.Header.NumFlags, t.Header.BucketOffset, t.Header.NodeOffset} {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	for _, b := range t.Buckets {
		if err := binary.Write(&buf, binary.BigEndian, b); err != nil {
			return nil, err
		}
	}
	for _, n := range t.Nodes {
		if err := binary.Write(&buf, binary.BigEndian, n.PackageID); err != nil {
			return nil, err
		}
		if err := writeLenPrefixedString(&buf, n.FlagName); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.BigEndian, n.ValueIndex); err != nil {
			return nil, err
		}
		if err := buf.WriteByte(n.Permission); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.BigEndian, n.NextOffset); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Lookup finds a flag's node by package id and name via its bucket
// chain.
func (t *FlagTable) Lookup(packageID uint32, name string) (*FlagTableNode, bool) {
	numBuckets := uint32(len(t.Buckets))
	if numBuckets == 0 {
		return nil, false
	}
	idx := BucketIndex(flagTableKey(packageID, name), numBuckets)
	offset := t.Buckets[idx]
	if offset == 0 {
		return nil, false
	}

	byOffset := map[uint32]*FlagTableNode{}
	cursor := t.Header.NodeOffset
	for i := range t.Nodes {
		byOffset[cursor] = &t.Nodes[i]
		cursor += flagTableNodeSize(t.Nodes[i])
	}

	for offset != 0 {
		node, ok := byOffset[offset]
		if !ok {
			return nil, false
		}
		if node.PackageID == packageID && node.FlagName == name {
			return node, true
		}
		offset = node.NextOffset
	}
	return nil, false
}
