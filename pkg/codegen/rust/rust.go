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

// Package rust emits a single Rust module tree: one nested pub mod
// per package path segment, and a const fn (read-only) or fn
// (read-write) per flag, with raw-identifier escaping for flag names
// that collide with Rust keywords.
package rust

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/kraklabs/aconfigc/pkg/codegen"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

type File struct {
	Name    string
	Content string
}

// rustKeywords is the set of reserved words that require a raw
// identifier (r#name) when used as a flag's generated function name.
var rustKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "crate": true,
	"else": true, "enum": true, "extern": true, "false": true, "fn": true,
	"for": true, "if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "async": true, "await": true, "dyn": true,
}

func rustIdent(name string) string {
	if rustKeywords[name] {
		return "r#" + name
	}
	return name
}

type flagView struct {
	Ident      string
	FqName     string
	Const      bool
	DefaultVal bool
}

type moduleView struct {
	Mode  ir.Mode
	Flags []flagView
}

var moduleTmpl = template.Must(template.New("rust").Parse(`// Generated aconfigc accessors ({{.Mode}} mode).

{{range .Flags}}
{{- if .Const}}
pub const fn {{.Ident}}() -> bool {
    {{.DefaultVal}}
}
{{else}}
pub fn {{.Ident}}() -> bool {
    flags_rust::GetServerConfigurableFlag("{{.FqName}}", if {{.DefaultVal}} { "true" } else { "false" }) == "true"
}
{{end}}
{{- end}}
`))

// moduleNode is one segment of the package-path trie built across all
// package groups sharing a top-level root, so two packages under the
// same root (e.g. "com.android.a" and "com.android.b") nest in the one
// file "com.rs" under a single shared "pub mod android { ... }" instead
// of redeclaring the same module twice. The root segment names the
// file and gets no "pub mod" line of its own.
type moduleNode struct {
	children map[string]*moduleNode
	order    []string
	group    *codegen.PackageGroup
}

func newModuleNode() *moduleNode {
	return &moduleNode{children: map[string]*moduleNode{}}
}

func (n *moduleNode) insert(segments []string, group codegen.PackageGroup) {
	if len(segments) == 0 {
		n.group = &group
		return
	}
	head := segments[0]
	child, ok := n.children[head]
	if !ok {
		child = newModuleNode()
		n.children[head] = child
		n.order = append(n.order, head)
	}
	child.insert(segments[1:], group)
}

// Generate emits the nested pub mod tree for all packages in flags,
// returning a single Rust source file per top-level package root.
func Generate(groups []codegen.PackageGroup, mode ir.Mode) ([]File, error) {
	roots := map[string]*moduleNode{}
	var order []string
	for _, g := range groups {
		segments := strings.Split(g.Package, ".")
		root := segments[0]
		node, ok := roots[root]
		if !ok {
			node = newModuleNode()
			roots[root] = node
			order = append(order, root)
		}
		node.insert(segments[1:], g)
	}

	var files []File
	for _, root := range order {
		var buf bytes.Buffer
		buf.WriteString("// Generated aconfigc accessors (" + string(mode) + " mode).\n\n")
		if err := writeModuleNode(&buf, roots[root], mode); err != nil {
			return nil, err
		}
		files = append(files, File{Name: root + ".rs", Content: buf.String()})
	}
	return files, nil
}

func writeModuleNode(buf *bytes.Buffer, node *moduleNode, mode ir.Mode) error {
	if node.group != nil {
		v := moduleView{Mode: mode}
		for _, f := range node.group.Flags {
			v.Flags = append(v.Flags, flagView{
				Ident:      rustIdent(f.Name),
				FqName:     f.FullyQualifiedName(),
				Const:      f.Permission == ir.PermissionReadOnly,
				DefaultVal: f.State == ir.StateEnabled,
			})
		}
		if err := moduleTmpl.Execute(buf, v); err != nil {
			return err
		}
	}
	for _, seg := range node.order {
		buf.WriteString("pub mod " + rustIdent(seg) + " {\n")
		if err := writeModuleNode(buf, node.children[seg], mode); err != nil {
			return err
		}
		buf.WriteString("}\n")
	}
	return nil
}
