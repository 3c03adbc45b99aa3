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

// Package cpp emits a C++ accessor library for one package's flags:
// an abstract provider interface, a facade class with one static
// accessor per flag, and production/test provider implementations.
package cpp

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/kraklabs/aconfigc/pkg/codegen"
	"github.com/kraklabs/aconfigc/pkg/ir"
)

// File is one emitted source file: its relative path and contents.
type File struct {
	Name    string
	Content string
}

type flagView struct {
	Const      string
	FqName     string
	Method     string
	ReadWrite  bool
	DefaultStr string
}

type pkgView struct {
	Namespace string
	ClassName string
	Mode      ir.Mode
	Flags     []flagView
}

func toView(group codegen.PackageGroup, mode ir.Mode) pkgView {
	v := pkgView{
		Namespace: strings.ReplaceAll(group.Package, ".", "::"),
		ClassName: "aconfig_flags",
		Mode:      mode,
	}
	for _, f := range group.Flags {
		def := "false"
		if f.State == ir.StateEnabled {
			def = "true"
		}
		v.Flags = append(v.Flags, flagView{
			Const:      strings.ToUpper(f.Name),
			FqName:     f.FullyQualifiedName(),
			Method:     f.Name,
			ReadWrite:  f.Permission == ir.PermissionReadWrite,
			DefaultStr: def,
		})
	}
	return v
}

var headerTmpl = template.Must(template.New("header").Parse(`#pragma once

#include <memory>
#include <string>

namespace {{.Namespace}} {

class flag_provider_interface {
public:
    virtual ~flag_provider_interface() = default;
{{- range .Flags}}
    virtual bool {{.Method}}() = 0;
{{- end}}
};

class {{.ClassName}} {
public:
{{- range .Flags}}
    static const char* {{.Const}} = "{{.FqName}}";
{{- end}}

{{- range .Flags}}
    static bool {{.Method}}();
{{- end}}

private:
    static std::unique_ptr<flag_provider_interface> provider_;
};

} // namespace {{.Namespace}}
`))

var prodProviderTmpl = template.Must(template.New("prod").Parse(`#pragma once

#include "aconfig_flags.h"

namespace {{.Namespace}} {

// Calls into the container's server-configurable-flag provider for
// every read-write flag, and returns the compiled-in default for
// read-only flags.
class flag_provider : public flag_provider_interface {
public:
{{- range .Flags}}
    bool {{.Method}}() override {
{{- if .ReadWrite}}
        return server_configurable_flag("{{.FqName}}", "{{.DefaultStr}}") == "true";
{{- else}}
        return {{.DefaultStr}};
{{- end}}
    }
{{- end}}
};

} // namespace {{.Namespace}}
`))

var testProviderTmpl = template.Must(template.New("test").Parse(`#pragma once

#include <cassert>
#include <map>
#include <string>

#include "aconfig_flags.h"

namespace {{.Namespace}} {

class flag_provider : public flag_provider_interface {
public:
{{- range .Flags}}
    bool {{.Method}}() override {
        auto it = overrides_.find("{{.FqName}}");
        if (it != overrides_.end()) {
            return it->second;
        }
        return {{.DefaultStr}};
    }
{{- end}}

    void override_flag(const std::string& name, bool value) {
        overrides_[name] = value;
    }

    void reset_overrides() {
        overrides_.clear();
    }

private:
    std::map<std::string, bool> overrides_;
};

} // namespace {{.Namespace}}
`))

// Generate emits the C++ files for one package group: the
// interface+facade header and the production provider always, plus
// the test provider in test mode only. Production and exported mode
// therefore yield two files; no .cc source file is emitted.
func Generate(group codegen.PackageGroup, mode ir.Mode) ([]File, error) {
	v := toView(group, mode)

	var header, prod, test bytes.Buffer
	if err := headerTmpl.Execute(&header, v); err != nil {
		return nil, err
	}
	if err := prodProviderTmpl.Execute(&prod, v); err != nil {
		return nil, err
	}
	if err := testProviderTmpl.Execute(&test, v); err != nil {
		return nil, err
	}

	files := []File{
		{Name: "aconfig_flags.h", Content: header.String()},
		{Name: "aconfig_flags_prod.h", Content: prod.String()},
	}
	if mode == ir.ModeTest {
		files = append(files, File{Name: "aconfig_flags_test.h", Content: test.String()})
	}
	return files, nil
}
