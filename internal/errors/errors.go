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

// Package errors provides aconfigc's CLI error taxonomy: typed,
// user-facing errors that carry a title, a detail, and an actionable
// suggestion, plus a FatalError helper that prints and exits.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind distinguishes error categories for --json output and for
// callers that need to branch on error class (e.g. the runtime write
// API's MapFileFail vs FileReadFail).
type Kind string

const (
	KindConfig             Kind = "config"
	KindInput              Kind = "input"
	KindInternal           Kind = "internal"
	KindPermission         Kind = "permission"
	KindNetwork            Kind = "network"
	KindStorage            Kind = "storage"
	KindParse              Kind = "parse"
	KindPackageMismatch    Kind = "package_mismatch"
	KindContainerMismatch  Kind = "container_mismatch"
	KindFixedReadOnly      Kind = "fixed_read_only_violation"
	KindDuplicateFlag      Kind = "duplicate_flag"
	KindEmptyLibrary       Kind = "empty_library"
	KindStorageFileMissing Kind = "storage_file_not_found"
	KindMapFileFail        Kind = "map_file_fail"
	KindObtainMappedFile   Kind = "obtain_mapped_file_fail"
	KindFileReadFail       Kind = "file_read_fail"
	KindMapFlushFail       Kind = "map_flush_fail"
	KindNotMapped          Kind = "not_mapped"
)

// CLIError is the error type produced by every New*Error constructor.
// Title is a short one-line summary, Detail explains what went wrong,
// Suggestion is an actionable next step, and Cause (optional) is the
// underlying error that triggered it.
type CLIError struct {
	Kind       Kind
	Title      string
	Detail     string
	Suggestion string
	Cause      error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *CLIError) Unwrap() error { return e.Cause }

func newErr(kind Kind, title, detail, suggestion string, cause error) error {
	return &CLIError{Kind: kind, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

func NewConfigError(title, detail, suggestion string, cause error) error {
	return newErr(KindConfig, title, detail, suggestion, cause)
}

func NewInputError(title, detail, suggestion string, cause error) error {
	return newErr(KindInput, title, detail, suggestion, cause)
}

func NewInternalError(title, detail, suggestion string, cause error) error {
	return newErr(KindInternal, title, detail, suggestion, cause)
}

func NewPermissionError(title, detail, suggestion string, cause error) error {
	return newErr(KindPermission, title, detail, suggestion, cause)
}

func NewNetworkError(title, detail, suggestion string, cause error) error {
	return newErr(KindNetwork, title, detail, suggestion, cause)
}

// NewStorageError reports failures opening, reading, or mapping an
// aconfigc storage file. It plays the role the teacher's
// NewDatabaseError played for its embedded database.
func NewStorageError(title, detail, suggestion string, cause error) error {
	return newErr(KindStorage, title, detail, suggestion, cause)
}

func NewParseError(title, detail, suggestion string, cause error) error {
	return newErr(KindParse, title, detail, suggestion, cause)
}

func NewPackageMismatchError(title, detail string) error {
	return newErr(KindPackageMismatch, title, detail, "Make sure every value file declares the same package as its flag declarations file", nil)
}

func NewContainerMismatchError(title, detail string) error {
	return newErr(KindContainerMismatch, title, detail, "Make sure every declaration file in this cache uses the same container", nil)
}

func NewFixedReadOnlyError(title, detail string) error {
	return newErr(KindFixedReadOnly, title, detail, "Remove the permission override for this flag or change its declared permission", nil)
}

func NewDuplicateFlagError(title, detail string) error {
	return newErr(KindDuplicateFlag, title, detail, "Remove the duplicate declaration, or pass --dedup to export-flags", nil)
}

func NewEmptyLibraryError(title, detail string) error {
	return newErr(KindEmptyLibrary, title, detail, "Check the --mode flag and the input cache for flags matching that mode", nil)
}

// NewStorageFileMissingError reports that a container has no entry in
// the storage-locations records file that maps containers to their
// on-device package/flag/value file paths.
func NewStorageFileMissingError(title, detail string) error {
	return newErr(KindStorageFileMissing, title, detail, "Run create-storage for this container, or check the records file path", nil)
}

// NewNotMappedError reports that a caller tried to unmap or write a
// container that this registry has no active mapping for.
func NewNotMappedError(title, detail string) error {
	return newErr(KindNotMapped, title, detail, "Map the container before writing or unmapping it", nil)
}

func NewMapFileFailError(title, detail string, cause error) error {
	return newErr(KindMapFileFail, title, detail, "Check file permissions and that the path points at a valid storage file", cause)
}

func NewObtainMappedFileError(title, detail string) error {
	return newErr(KindObtainMappedFile, title, detail, "The container may already be mapped by another writer in this process", nil)
}

func NewFileReadFailError(title, detail string, cause error) error {
	return newErr(KindFileReadFail, title, detail, "Check that the file exists and is readable", cause)
}

func NewMapFlushFailError(title, detail string, cause error) error {
	return newErr(KindMapFlushFail, title, detail, "Check available disk space and that the underlying device is writable", cause)
}

// New wraps a plain message under the given kind, for call sites that
// don't need the full title/detail/suggestion shape.
func New(kind Kind, message string) error {
	return &CLIError{Kind: kind, Title: message, Detail: message}
}

type jsonError struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Detail     string `json:"detail,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Cause      string `json:"cause,omitempty"`
}

// FatalError prints err (as JSON if asJSON is true, otherwise as
// colored/plain text to stderr) and exits the process with status 1.
func FatalError(err error, asJSON bool) {
	var cliErr *CLIError
	if ce, ok := err.(*CLIError); ok {
		cliErr = ce
	} else {
		cliErr = &CLIError{Kind: KindInternal, Title: "Unexpected error", Detail: err.Error()}
	}

	if asJSON {
		je := jsonError{Kind: cliErr.Kind, Title: cliErr.Title, Detail: cliErr.Detail, Suggestion: cliErr.Suggestion}
		if cliErr.Cause != nil {
			je.Cause = cliErr.Cause.Error()
		}
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(je)
	} else {
		fmt.Fprintf(os.Stderr, "error: %s\n", cliErr.Title)
		if cliErr.Detail != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", cliErr.Detail)
		}
		if cliErr.Cause != nil {
			fmt.Fprintf(os.Stderr, "  caused by: %v\n", cliErr.Cause)
		}
		if cliErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  suggestion: %s\n", cliErr.Suggestion)
		}
	}
	os.Exit(1)
}
