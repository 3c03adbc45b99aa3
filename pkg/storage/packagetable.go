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

// PackageTableHeader is the fixed-size preamble of a package table
// file: format version, owning container, total file size, package
// count, and the byte offsets where the bucket array and node array
// begin.
type PackageTableHeader struct {
	Version      uint32
	Container    string
	FileSize     uint32
	NumPackages  uint32
	BucketOffset uint32
	NodeOffset   uint32
}

// PackageTableNode is one package's entry: its name, dense package
// id, the offset of its first boolean value in the value array, and
// the offset of the next node chained into the same bucket (0 if
// this is the last node in its chain).
type PackageTableNode struct {
	PackageName   string
	PackageID     uint32
	BooleanOffset uint32
	NextOffset    uint32
	bucketIndex   uint32
}

// PackageTable is the fully built package table: header, the bucket
// array (one node-offset-or-zero per bucket), and the node array in
// final on-disk order.
type PackageTable struct {
	Header  PackageTableHeader
	Buckets []uint32
	Nodes   []PackageTableNode
}

// PackageInput is one package destined for the table: its name and
// how many boolean flags it owns (used to compute the cumulative
// boolean_offset across packages).
type PackageInput struct {
	Name         string
	BooleanCount int
}

// BuildPackageTable lays out a package table exactly the way the
// original aconfig compiler's PackageTable::new does: size the bucket
// array to the next prime at least 2x the package count, assign dense
// package ids and cumulative boolean offsets in first-sighting order,
// stable-sort the nodes by bucket index so same-bucket entries stay
// contiguous, then chain next_offset across each contiguous run.
func BuildPackageTable(container string, packages []PackageInput) (*PackageTable, error) {
	numBuckets, ok := TableSize(len(packages))
	if !ok {
		return nil, cerrors.NewInternalError(
			"too many packages",
			fmt.Sprintf("%d packages exceeds the largest supported hash table size", len(packages)),
			"Split the build into multiple containers",
			nil,
		)
	}

	nodes := make([]PackageTableNode, len(packages))
	var cumulative uint32
	for i, p := range packages {
		nodes[i] = PackageTableNode{
			PackageName:   p.Name,
			PackageID:     uint32(i),
			BooleanOffset: cumulative,
			bucketIndex:   BucketIndex(p.Name, numBuckets),
		}
		// Each boolean flag occupies two bytes in the value array: a
		// current-value byte and a default-or-sticky byte.
		cumulative += 2 * uint32(p.BooleanCount)
	}

	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].bucketIndex < nodes[j].bucketIndex })

	buckets := make([]uint32, numBuckets)
	headerSize := packageTableHeaderSize(container)
	bucketOffset := headerSize
	nodeOffset := bucketOffset + 4*numBuckets

	offsets := make([]uint32, len(nodes))
	cursor := nodeOffset
	for i, n := range nodes {
		offsets[i] = cursor
		cursor += packageTableNodeSize(n)
	}

	for i := range nodes {
		if i+1 < len(nodes) && nodes[i+1].bucketIndex == nodes[i].bucketIndex {
			nodes[i].NextOffset = offsets[i+1]
		} else {
			nodes[i].NextOffset = 0
		}
		if buckets[nodes[i].bucketIndex] == 0 {
			buckets[nodes[i].bucketIndex] = offsets[i]
		}
	}

	return &PackageTable{
		Header: PackageTableHeader{
			Version:      FileVersion,
			Container:    container,
			FileSize:     cursor,
			NumPackages:  uint32(len(packages)),
			BucketOffset: bucketOffset,
			NodeOffset:   nodeOffset,
		},
		Buckets: buckets,
		Nodes:   nodes,
	}, nil
}

func packageTableHeaderSize(container string) uint32 {
	// version(4) + container length-prefix(4) + container bytes +
	// file_size(4) + num_packages(4) + bucket_offset(4) + node_offset(4)
	return 4 + 4 + uint32(len(container)) + 4 + 4 + 4 + 4
}

func packageTableNodeSize(n PackageTableNode) uint32 {
	// name length-prefix(4) + name bytes + package_id(4) +
	// boolean_offset(4) + next_offset(4)
	return 4 + uint32(len(n.PackageName)) + 4 + 4 + 4
}

// MarshalBinary writes the package table in the big-endian, length-
// prefixed layout described by the on-device storage format.
func (t *PackageTable) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.BigEndian, t.Header.Version); err != nil {
		return nil, err
	}
	if err := writeLenPrefixedString(&buf, t.Header.Container); err != nil {
		return nil, err
	}
	for _, v := range []uint32{t.Header.FileSize, t.Header.NumPackages, t.Header.BucketOffset, t.Header.NodeOffset} {
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
		if err := writeLenPrefixedString(&buf, n.PackageName); err != nil {
			return nil, err
		}
		for _, v := range []uint32{n.PackageID, n.BooleanOffset, n.NextOffset} {
			if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func writeLenPrefixedString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

// UnmarshalPackageTable reads back a package table previously written
// by MarshalBinary, for round-trip tests and the runtime lookup path.
func UnmarshalPackageTable(data []byte) (*PackageTable, error) {
	r := bytes.NewReader(data)

	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, cerrors.NewFileReadFailError("cannot read package table header", "truncated or corrupt file", err)
	}
	container, err := readLenPrefixedString(r)
	if err != nil {
		return nil, err
	}
	var fileSize, numPackages, bucketOffset, nodeOffset uint32
	for _, v := range []*uint32{&fileSize, &numPackages, &bucketOffset, &nodeOffset} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, cerrors.NewFileReadFailError("cannot read package table header", "truncated or corrupt file", err)
		}
	}

	numBuckets := (nodeOffset - bucketOffset) / 4
	buckets := make([]uint32, numBuckets)
	for i := range buckets {
		if err := binary.Read(r, binary.BigEndian, &buckets[i]); err != nil {
			return nil, cerrors.NewFileReadFailError("cannot read package table buckets", "truncated or corrupt file", err)
		}
	}

	nodes := make([]PackageTableNode, 0, numPackages)
	for uint32(len(nodes)) < numPackages {
		name, err := readLenPrefixedString(r)
		if err != nil {
			return nil, err
		}
		var id, boolOffset, next uint32
		for _, v := range []*uint32{&id, &boolOffset, &next} {
			if err := binary.Read(r, binary.BigEndian, v); err != nil {
				return nil, cerrors.NewFileReadFailError("cannot read package table node", "truncated or corrupt file", err)
			}
		}
		node := PackageTableNode{PackageName: name, PackageID: id, BooleanOffset: boolOffset, NextOffset: next}
		if numBuckets > 0 {
			node.bucketIndex = BucketIndex(name, numBuckets)
		}
		nodes = append(nodes, node)
	}

	return &PackageTable{
		Header: PackageTableHeader{
			Version: version, Container: container, FileSize: fileSize,
			NumPackages: numPackages, BucketOffset: bucketOffset, NodeOffset: nodeOffset,
		},
		Buckets: buckets,
		Nodes:   nodes,
	}, nil
}

func readLenPrefixedString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", cerrors.NewFileReadFailError("cannot read string length prefix", "truncated or corrupt file", err)
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", cerrors.NewFileReadFailError("cannot read string payload", "truncated or corrupt file", err)
	}
	return string(b), nil
}

// Lookup finds a package's node by name by walking its bucket chain,
// the same lookup path used at runtime on a memory-mapped file.
func (t *PackageTable) Lookup(name string) (*PackageTableNode, bool) {
	numBuckets := uint32(len(t.Buckets))
	if numBuckets == 0 {
		return nil, false
	}
	idx := BucketIndex(name, numBuckets)
	offset := t.Buckets[idx]
	if offset == 0 {
		return nil, false
	}

	byOffset := map[uint32]*PackageTableNode{}
	cursor := t.Header.NodeOffset
	for i := range t.Nodes {
		byOffset[cursor] = &t.Nodes[i]
		cursor += packageTableNodeSize(t.Nodes[i])
	}

	for offset != 0 {
		node, ok := byOffset[offset]
		if !ok {
			return nil, false
		}
		if node.PackageName == name {
			return node, true
		}
		offset = node.NextOffset
	}
	return nil, false
}
