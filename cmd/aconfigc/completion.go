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

package main

import (
	"fmt"

	cerrors "github.com/kraklabs/aconfigc/internal/errors"
)

const bashCompletion = `_aconfigc_completions() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    commands="create-cache create-cpp-lib create-java-lib create-rust-lib create-storage dump-cache export-flags completion"

    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -- "${cur}") )
}
complete -F _aconfigc_completions aconfigc
`

const zshCompletion = `#compdef aconfigc

_aconfigc() {
    local -a commands
    commands=(
        'create-cache:Reconcile declarations + values into a cache'
        'create-cpp-lib:Generate C++ accessors from a cache'
        'create-java-lib:Generate Java accessors from a cache'
        'create-rust-lib:Generate Rust accessors from a cache'
        'create-storage:Build the on-device package/flag/value store'
        'dump-cache:Dump a cache as text, verbose, or protobuf'
        'export-flags:Merge caches into one, optionally deduping'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    _files
}
_aconfigc
`

// runCompletion implements the completion subcommand: emit a shell
// completion script for bash or zsh to stdout.
func runCompletion(args []string, globals GlobalFlags) {
	if len(args) == 0 {
		cerrors.FatalError(cerrors.NewInputError(
			"missing shell argument",
			"completion requires a shell name",
			"Run 'aconfigc completion bash' or 'aconfigc completion zsh'",
			nil,
		), globals.JSON)
	}

	switch args[0] {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	default:
		cerrors.FatalError(cerrors.NewInputError(
			"unsupported shell",
			fmt.Sprintf("completion for %q is not supported", args[0]),
			"Use 'bash' or 'zsh'",
			nil,
		), globals.JSON)
	}
}
