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

import (
	"fmt"
	"strconv"
	"strings"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
)

// textBlock is one parsed curly-brace group of "key: value" pairs and
// nested blocks, the minimal structure the .aconfig/.values input
// files need. It is not a general protobuf text-format parser — the
// real protobuf framework this format stands in for is explicitly
// treated as an opaque external collaborator (see SPEC_FULL.md); this
// is just enough of a recursive-descent reader to pull flag
// declaration/value records out of a human-authored file.
type textBlock struct {
	scalars map[string][]string
	blocks  map[string][]*textBlock
}

func newTextBlock() *textBlock {
	return &textBlock{scalars: map[string][]string{}, blocks: map[string][]*textBlock{}}
}

// parseTextBlock parses src (already positioned after an opening '{'
// for nested calls, or the whole file for the top-level call) up to a
// matching '}' or end of input. It returns the block and the
// remaining unparsed suffix.
func parseTextBlock(src string) (*textBlock, string, error) {
	b := newTextBlock()
	for {
		src = skipTextSpace(src)
		if src == "" || src[0] == '}' {
			if src != "" {
				src = src[1:]
			}
			return b, src, nil
		}

		key, rest, err := readIdent(src)
		if err != nil {
			return nil, "", err
		}
		rest = skipTextSpace(rest)
		if rest == "" {
			return nil, "", cerrors.NewParseError("bad text format", fmt.Sprintf("unexpected end of input after key %q", key), "Check the file for a missing value or closing brace", nil)
		}

		switch rest[0] {
		case ':':
			rest = skipTextSpace(rest[1:])
			val, after, err := readTextValue(rest)
			if err != nil {
				return nil, "", err
			}
			b.scalars[key] = append(b.scalars[key], val)
			src = after
		case '{':
			child, after, err := parseTextBlock(rest[1:])
			if err != nil {
				return nil, "", err
			}
			b.blocks[key] = append(b.blocks[key], child)
			src = after
		default:
			return nil, "", cerrors.NewParseError("bad text format", fmt.Sprintf("expected ':' or '{' after key %q", key), "Fields need a ':' before their value or a '{' to open a nested block", nil)
		}
	}
}

func readIdent(s string) (string, string, error) {
	i := 0
	for i < len(s) && (isAlnum(s[i]) || s[i] == '_') {
		i++
	}
	if i == 0 {
		return "", "", cerrors.NewParseError("bad text format", "expected an identifier", "Check for stray characters before a field name", nil)
	}
	return s[:i], s[i:], nil
}

func readTextValue(s string) (string, string, error) {
	if s == "" {
		return "", "", cerrors.NewParseError("bad text format", "expected a value", "Provide a quoted string, true/false, or a number after ':'", nil)
	}
	if s[0] == '"' {
		var sb strings.Builder
		i := 1
		for i < len(s) && s[i] != '"' {
			if s[i] == '\\' && i+1 < len(s) {
				i++
			}
			sb.WriteByte(s[i])
			i++
		}
		if i >= len(s) {
			return "", "", cerrors.NewParseError("bad text format", "unterminated string literal", "Close the quoted string", nil)
		}
		return sb.String(), s[i+1:], nil
	}
	i := 0
	for i < len(s) && !isTextSpace(s[i]) && s[i] != '}' {
		i++
	}
	return s[:i], s[i:], nil
}

func skipTextSpace(s string) string {
	i := 0
	for i < len(s) {
		if isTextSpace(s[i]) {
			i++
			continue
		}
		if s[i] == '#' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			continue
		}
		break
	}
	return s[i:]
}

func isTextSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (b *textBlock) scalar(key string) string {
	if v := b.scalars[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (b *textBlock) scalarList(key string) []string {
	return b.scalars[key]
}

func (b *textBlock) boolScalar(key string) bool {
	v, _ := strconv.ParseBool(b.scalar(key))
	return v
}

// ParseFlagDeclarations parses a ".aconfig" declarations file.
func ParseFlagDeclarations(src string) (FlagDeclarations, error) {
	top, _, err := parseTextBlock(src)
	if err != nil {
		return FlagDeclarations{}, err
	}
	out := FlagDeclarations{
		Package:   top.scalar("package"),
		Container: top.scalar("container"),
	}
	for _, fb := range top.blocks["flag"] {
		decl := FlagDeclaration{
			Name:            fb.scalar("name"),
			Namespace:       fb.scalar("namespace"),
			Description:     fb.scalar("description"),
			Bugs:            fb.scalarList("bug"),
			IsFixedReadOnly: fb.boolScalar("is_fixed_read_only"),
			IsExported:      fb.boolScalar("is_exported"),
		}
		if p := fb.scalar("purpose"); p != "" {
			decl.Metadata.Purpose = FlagPurpose(p)
		} else {
			decl.Metadata.Purpose = PurposeFeature
		}
		out.FlagDeclarations = append(out.FlagDeclarations, decl)
	}
	return out, out.VerifyFields()
}

// ParseFlagValues parses a ".values" overlay file.
func ParseFlagValues(src string) (FlagValues, error) {
	top, _, err := parseTextBlock(src)
	if err != nil {
		return FlagValues{}, err
	}
	out := FlagValues{Package: top.scalar("package")}
	for _, fb := range top.blocks["flag_value"] {
		pkg := fb.scalar("package")
		if pkg == "" {
			pkg = out.Package
		}
		val := FlagValue{
			Package: pkg,
			Name:    fb.scalar("name"),
			State:   FlagState(fb.scalar("state")),
		}
		if perm := fb.scalar("permission"); perm != "" {
			val.Permission = FlagPermission(perm)
		}
		out.Values = append(out.Values, val)
	}
	return out, out.VerifyFields()
}
