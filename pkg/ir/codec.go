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

import "encoding/json"

// parsedFlagsWire is the JSON-serializable mirror of ParsedFlags. The
// real aconfig toolchain exchanges this container as a serialized
// protobuf message; that framework is an opaque external collaborator
// per SPEC_FULL.md, so this module's own binary wire format for the
// same message shape is this compact JSON encoding.
type parsedFlagsWire struct {
	ParsedFlag []parsedFlagWire `json:"parsed_flag"`
}

type parsedFlagWire struct {
	Package         string            `json:"package"`
	Namespace       string            `json:"namespace"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Bugs            []string          `json:"bugs,omitempty"`
	State           FlagState         `json:"state"`
	Permission      FlagPermission    `json:"permission"`
	Trace           []tracepointWire  `json:"trace"`
	IsFixedReadOnly bool              `json:"is_fixed_read_only"`
	IsExported      bool              `json:"is_exported"`
	Purpose         FlagPurpose       `json:"purpose,omitempty"`
	Container       string            `json:"container"`
}

type tracepointWire struct {
	Source     string         `json:"source"`
	State      FlagState      `json:"state"`
	Permission FlagPermission `json:"permission"`
}

// MarshalBinary encodes a ParsedFlags container for storage or
// transmission between pipeline stages.
func (p ParsedFlags) MarshalBinary() ([]byte, error) {
	w := parsedFlagsWire{ParsedFlag: make([]parsedFlagWire, 0, len(p.ParsedFlag))}
	for _, f := range p.ParsedFlag {
		trace := make([]tracepointWire, 0, len(f.Trace))
		for _, t := range f.Trace {
			trace = append(trace, tracepointWire{Source: t.Source, State: t.State, Permission: t.Permission})
		}
		w.ParsedFlag = append(w.ParsedFlag, parsedFlagWire{
			Package: f.Package, Namespace: f.Namespace, Name: f.Name,
			Description: f.Description, Bugs: f.Bugs, State: f.State,
			Permission: f.Permission, Trace: trace,
			IsFixedReadOnly: f.IsFixedReadOnly, IsExported: f.IsExported,
			Purpose: f.Purpose, Container: f.Container,
		})
	}
	return json.Marshal(w)
}

// UnmarshalBinary decodes a ParsedFlags container previously produced
// by MarshalBinary.
func (p *ParsedFlags) UnmarshalBinary(data []byte) error {
	var w parsedFlagsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	flags := make([]ParsedFlag, 0, len(w.ParsedFlag))
	for _, f := range w.ParsedFlag {
		trace := make([]Tracepoint, 0, len(f.Trace))
		for _, t := range f.Trace {
			trace = append(trace, Tracepoint{Source: t.Source, State: t.State, Permission: t.Permission})
		}
		flags = append(flags, ParsedFlag{
			Package: f.Package, Namespace: f.Namespace, Name: f.Name,
			Description: f.Description, Bugs: f.Bugs, State: f.State,
			Permission: f.Permission, Trace: trace,
			IsFixedReadOnly: f.IsFixedReadOnly, IsExported: f.IsExported,
			Purpose: f.Purpose, Container: f.Container,
		})
	}
	p.ParsedFlag = flags
	return nil
}
