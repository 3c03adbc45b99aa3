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

import "testing"

func TestIsValidNameIdent(t *testing.T) {
	valid := []string{"a", "flag", "my_flag", "flag2", "a_b_c"}
	for _, v := range valid {
		if !IsValidNameIdent(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}

	invalid := []string{"", "Flag", "1flag", "my__flag", "my-flag", "_flag"}
	for _, v := range invalid {
		if IsValidNameIdent(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestIsValidPackageIdent(t *testing.T) {
	if !IsValidPackageIdent("com.android.aconfig.test") {
		t.Error("expected valid package")
	}
	if IsValidPackageIdent("single") {
		t.Error("single segment package should be invalid")
	}
	if IsValidPackageIdent("com.Android") {
		t.Error("uppercase segment should be invalid")
	}
}

func TestIsValidContainerIdent(t *testing.T) {
	if !IsValidContainerIdent("system") {
		t.Error("single segment container should be valid")
	}
	if !IsValidContainerIdent("com.android.aconfig") {
		t.Error("multi segment container should be valid")
	}
	if IsValidContainerIdent("Com") {
		t.Error("uppercase container should be invalid")
	}
}
