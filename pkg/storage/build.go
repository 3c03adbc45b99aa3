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
	"github.com/kraklabs/aconfigc/pkg/ir"
)

// Files is the on-device storage triple aconfigc's create-storage
// command writes for one container: the package table, the flag
// table, and the flat value array the runtime Write API mutates.
// Three separate memory-mappable files, matching spec.md's on-device
// paths: "{container}.package.map", "{container}.flag.map",
// "{container}.val.map".
type Files struct {
	PackageTable *PackageTable
	FlagTable    *FlagTable
	ValueArray   *ValueArray
}

// Build groups flags by package (preserving first-sighting order, the
// same "sort_flags" grouping the original create_storage module
// performs) and constructs the package table, flag table, and value
// array for one container.
func Build(container string, flags ir.ParsedFlags) (*Files, error) {
	var packageOrder []string
	byPackage := map[string][]ir.ParsedFlag{}
	for _, f := range flags.ParsedFlag {
		if _, ok := byPackage[f.Package]; !ok {
			packageOrder = append(packageOrder, f.Package)
		}
		byPackage[f.Package] = append(byPackage[f.Package], f)
	}

	var packageInputs []PackageInput
	var flagInputs []FlagInput
	var booleans []bool

	for pkgID, pkg := range packageOrder {
		pkgFlags := byPackage[pkg]
		packageInputs = append(packageInputs, PackageInput{Name: pkg, BooleanCount: len(pkgFlags)})
		for _, f := range pkgFlags {
			// Each boolean occupies two bytes in the value array
			// (current value + default-or-sticky), so its slot's
			// byte offset is twice its ordinal position.
			valueIndex := uint32(len(booleans)) * 2
			booleans = append(booleans, f.State == ir.StateEnabled)
			flagInputs = append(flagInputs, FlagInput{
				PackageID:  uint32(pkgID),
				Name:       f.Name,
				ValueIndex: valueIndex,
				ReadWrite:  f.Permission == ir.PermissionReadWrite,
			})
		}
	}

	pkgTable, err := BuildPackageTable(container, packageInputs)
	if err != nil {
		return nil, err
	}
	flagTable, err := BuildFlagTable(container, flagInputs)
	if err != nil {
		return nil, err
	}
	valueArray := BuildValueArray(container, booleans)

	return &Files{PackageTable: pkgTable, FlagTable: flagTable, ValueArray: valueArray}, nil
}
