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

import "strings"

// IsValidNameIdent reports whether s is a valid flag/package-segment
// identifier: starts with a lowercase letter, followed by lowercase
// letters, digits, or underscores, and never contains a double
// underscore.
func IsValidNameIdent(s string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(s, "__") {
		return false
	}
	first := s[0]
	if first < 'a' || first > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}

// IsValidPackageIdent reports whether s is a valid package identifier:
// at least two dot-separated valid name segments.
func IsValidPackageIdent(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if !IsValidNameIdent(p) {
			return false
		}
	}
	return true
}

// IsValidContainerIdent reports whether s is a valid container
// identifier: either a single valid name, or dot-separated valid
// names (no minimum segment count, unlike packages).
func IsValidContainerIdent(s string) bool {
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if !IsValidNameIdent(p) {
			return false
		}
	}
	return true
}

// FullyQualifiedName returns "package.name", the canonical identity of
// a flag used for sorting, device_config, and cache-key purposes.
func FullyQualifiedName(pkg, name string) string {
	return pkg + "." + name
}

// DeviceConfigIdent mirrors the original create_device_config_ident:
// "package.flag" is device_config's own flat namespace key.
func DeviceConfigIdent(pkg, name string) string {
	return pkg + "." + name
}
