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

// Package storage builds aconfigc's on-device binary store: a
// versioned, big-endian, memory-mappable package table, flag table,
// and value array with a prime-sized hash index whose buckets chain
// colliding entries through next_offset.
package storage

import "hash/fnv"

// FileVersion is the on-disk format version every storage file
// declares in its header.
const FileVersion uint32 = 1

// HashPrimes is the fixed ladder of bucket-count candidates, the same
// list the original aconfig compiler's create_storage module uses so
// that table sizing is deterministic across builds.
var HashPrimes = [...]uint32{
	7, 13, 29, 53, 97, 193, 389, 769, 1543, 3079, 6151, 12289, 24593,
	49157, 98317, 196613, 393241, 786433, 1572869, 3145739, 6291469,
	12582917, 25165843, 50331653, 100663319, 201326611, 402653189,
	805306457, 1610612741,
}

// TableSize returns the smallest prime in HashPrimes that is at least
// 2*entries, so the hash table never runs denser than 50% load. It
// returns false if entries is too large for any prime in the ladder.
func TableSize(entries int) (uint32, bool) {
	need := uint32(2 * entries)
	for _, p := range HashPrimes {
		if p >= need {
			return p, true
		}
	}
	return 0, false
}

// BucketIndex hashes name into [0, numBuckets), matching the role the
// original compiler's get_bucket_index plays (DefaultHasher there,
// FNV-1a here — both are simple non-cryptographic string hashes used
// only for deterministic bucket placement, not as a security
// boundary).
func BucketIndex(name string, numBuckets uint32) uint32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return uint32(h.Sum64() % uint64(numBuckets))
}
