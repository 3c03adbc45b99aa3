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

// Package java emits one Java class per package, with one static
// accessor method per flag. This groups by package rather than the
// older per-flag-per-class shape the original compiler's codegen_java
// module used, the way codegen_context.rs accumulates a per-package
// Context before rendering.
package java

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

type flagView struct {
	Method     string
	FqName     string
	ReadWrite  bool
	DefaultVal bool
}

type classView struct {
	Package   string
	ClassName string
	Mode      ir.Mode
	Flags     []flagView
}

func toCamel(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}

func toView(group codegen.PackageGroup, mode ir.Mode) classView {
	v := classView{Package: group.Package, ClassName: "FeatureFlags", Mode: mode}
	for _, f := range group.Flags {
		v.Flags = append(v.Flags, flagView{
			Method:     toCamel(f.Name),
			FqName:     f.FullyQualifiedName(),
			ReadWrite:  f.Permission == ir.PermissionReadWrite,
			DefaultVal: f.State == ir.StateEnabled,
		})
	}
	return v
}

var classTmpl = template.Must(template.New("java").Parse(`package {{.Package}};

/** Generated aconfigc accessors for package {{.Package}} ({{.Mode}} mode). */
public final class {{.ClassName}} {

    private {{.ClassName}}() {}

{{- range .Flags}}

    public static boolean {{.Method}}() {
{{- if .ReadWrite}}
        return DeviceConfig.getBoolean("{{.FqName}}", {{.DefaultVal}});
{{- else}}
        return {{.DefaultVal}};
{{- end}}
    }
{{- end}}
}
`))

// Generate emits the single Java class file for one package group.
func Generate(group codegen.PackageGroup, mode ir.Mode) ([]File, error) {
	v := toView(group, mode)
	var buf bytes.Buffer
	if err := classTmpl.Execute(&buf, v); err != nil {
		return nil, err
	}
	path := strings.ReplaceAll(group.Package, ".", "/") + "/" + v.ClassName + ".java"
	return []File{{Name: path, Content: buf.String()}}, nil
}
