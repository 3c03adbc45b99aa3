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

// Package storagewrite implements aconfigc's runtime Write API: a
// process-wide registry of memory-mapped container value-array files,
// guarded by a single mutex, that lets exactly one writer per
// container flip a flag's boolean byte in place and flush it to disk.
package storagewrite

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
)

// mapping is one container's open, memory-mapped value-array file.
type mapping struct {
	file *os.File
	data []byte
}

// Registry is the process-wide container-to-mapping table. The zero
// value is ready to use; callers typically share a single *Registry
// across goroutines via a package-level instance (see Default).
type Registry struct {
	mu       sync.Mutex
	mappings map[string]*mapping
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{mappings: map[string]*mapping{}}
}

// Default is the process-wide registry every top-level Map / Unmap /
// WriteBooleanFlag / SetBooleanFlagValue call in this package operates
// on.
var Default = NewRegistry()

// Map opens and memory-maps path as the writable value array for
// container. It fails if container is already mapped by this
// registry — the runtime Write API gives each container exactly one
// concurrent writer.
func (r *Registry) Map(container, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mapLocked(container, path)
}

// mapLocked performs the Map work; callers must hold r.mu.
func (r *Registry) mapLocked(container, path string) error {
	if _, exists := r.mappings[container]; exists {
		return cerrors.NewObtainMappedFileError(
			"container already mapped",
			fmt.Sprintf("container %q is already mapped for writing in this process", container),
		)
	}

	// Check write permission before attempting to open, the same
	// order verify_read_write_and_map checks fs::metadata ahead of
	// opening the file, so a read-only target surfaces as a distinct
	// MapFileFail rather than a generic open failure.
	info, err := os.Stat(path)
	if err != nil {
		return cerrors.NewFileReadFailError("cannot stat storage file", path, err)
	}
	if info.Mode().Perm()&0o222 == 0 {
		return cerrors.NewMapFileFailError(
			"storage file is not read-write",
			fmt.Sprintf("%s is not writable, cannot map it for container %q", path, container),
			nil,
		)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return cerrors.NewFileReadFailError(
			"cannot open storage file",
			fmt.Sprintf("failed to open %s for container %q", path, container),
			err,
		)
	}

	size := int(info.Size())
	if size == 0 {
		_ = f.Close()
		return cerrors.NewMapFileFailError("cannot map empty storage file", path, nil)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return cerrors.NewMapFileFailError("mmap failed", path, err)
	}

	if r.mappings == nil {
		r.mappings = map[string]*mapping{}
	}
	r.mappings[container] = &mapping{file: f, data: data}
	return nil
}

// SetBooleanFlagValue is the runtime Write API's high-level entry
// point: it resolves container's value-array path by looking it up
// in the records file at recordsPath, maps it if this registry
// doesn't already have it mapped, then flips the boolean at offset.
// Mirrors the original's get_mapped_file (lazily map on first use) +
// set_boolean_flag_value.
func (r *Registry) SetBooleanFlagValue(recordsPath, container string, offset uint32, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, mapped := r.mappings[container]; !mapped {
		records, err := ReadRecords(recordsPath)
		if err != nil {
			return err
		}
		path, err := records.FindContainerFlagValueLocation(container)
		if err != nil {
			return err
		}
		if err := r.mapLocked(container, path); err != nil {
			return err
		}
	}

	return r.writeBooleanFlagLocked(container, offset, value)
}

// Unmap releases a container's mapping, flushing and closing it.
func (r *Registry) Unmap(container string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.mappings[container]
	if !ok {
		return cerrors.NewNotMappedError("container not mapped", fmt.Sprintf("container %q has no active mapping", container))
	}
	delete(r.mappings, container)

	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return cerrors.NewMapFlushFailError("flush on unmap failed", container, err)
	}
	if err := unix.Munmap(m.data); err != nil {
		return cerrors.NewMapFileFailError("munmap failed", container, err)
	}
	return m.file.Close()
}

// WriteBooleanFlag flips the single byte at offset within container's
// mapped value array to value (1 or 0) and flushes the page to disk.
// offset is the absolute byte offset ValueArray.ValueOffset computed
// at build time.
func (r *Registry) WriteBooleanFlag(container string, offset uint32, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeBooleanFlagLocked(container, offset, value)
}

// writeBooleanFlagLocked performs the WriteBooleanFlag work; callers
// must hold r.mu and container must already be mapped.
func (r *Registry) writeBooleanFlagLocked(container string, offset uint32, value bool) error {
	m, ok := r.mappings[container]
	if !ok {
		return cerrors.NewNotMappedError("container not mapped", fmt.Sprintf("container %q must be mapped before writing", container))
	}
	if int(offset) >= len(m.data) {
		return cerrors.NewInternalError(
			"flag offset out of range",
			fmt.Sprintf("offset %d is outside the mapped file for container %q", offset, container),
			"Rebuild the storage file; the flag table may be stale",
			nil,
		)
	}

	if value {
		m.data[offset] = 1
	} else {
		m.data[offset] = 0
	}

	// msync requires a page-aligned address, so the whole mapping is
	// flushed rather than just the written byte.
	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return cerrors.NewMapFlushFailError("flush failed", container, err)
	}
	return nil
}

// Map, Unmap, WriteBooleanFlag, and SetBooleanFlagValue on the
// Default registry.
func Map(container, path string) error { return Default.Map(container, path) }
func Unmap(container string) error     { return Default.Unmap(container) }
func WriteBooleanFlag(container string, offset uint32, value bool) error {
	return Default.WriteBooleanFlag(container, offset, value)
}
func SetBooleanFlagValue(recordsPath, container string, offset uint32, value bool) error {
	return Default.SetBooleanFlagValue(recordsPath, container, offset, value)
}
