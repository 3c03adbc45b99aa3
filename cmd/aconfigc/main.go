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

// Package main implements the aconfigc CLI: a build-time flag
// compiler that reconciles flag declarations and value overlays into
// a traced cache, then emits a memory-mappable binary store and
// generated accessor code from it.
//
// Usage:
//
//	aconfigc create-cache         Reconcile declarations + values into a cache
//	aconfigc create-cpp-lib       Generate C++ accessors from a cache
//	aconfigc create-java-lib      Generate Java accessors from a cache
//	aconfigc create-rust-lib      Generate Rust accessors from a cache
//	aconfigc create-storage       Build the on-device binary store
//	aconfigc dump-cache           Dump a cache as text/verbose/protobuf
//	aconfigc export-flags         Merge caches into one, optionally deduping
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/aconfigc/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the global CLI flags that apply to all commands.
type GlobalFlags struct {
	JSON        bool
	NoColor     bool
	Verbose     int
	Quiet       bool
	MetricsAddr string
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to aconfigc.yaml (default: search cwd and parents)")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output (progress, info messages)")
		metricsAddr = flag.String("metrics-addr", "", "Expose build counters on this address as a /metrics endpoint")
	)

	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `aconfigc - build-time feature flag compiler

aconfigc reconciles per-package flag declarations and value overlays
into a traced cache, then renders that cache as a memory-mappable
on-device binary store and as generated C++/Java/Rust accessor code.

Usage:
  aconfigc <command> [options]

Commands:
  create-cache       Reconcile declarations + values into a cache
  create-cpp-lib     Generate C++ accessors from a cache
  create-java-lib    Generate Java accessors from a cache
  create-rust-lib    Generate Rust accessors from a cache
  create-storage     Build the on-device package/flag/value store
  dump-cache         Dump a cache as text, verbose, or protobuf
  export-flags       Merge caches into one, optionally deduping
  completion         Generate shell completion script (bash|zsh)

Global Options:
  --json             Output in JSON format (for applicable commands)
  --no-color         Disable color output (respects NO_COLOR env var)
  -v, --verbose      Increase verbosity (-v for info, -vv for debug)
  -q, --quiet        Suppress non-essential output
  -c, --config       Path to aconfigc.yaml
  -V, --version      Show version and exit
  --metrics-addr     Expose /metrics for build counters (e.g. :9090)

Examples:
  aconfigc create-cache --package com.example.app --container system \
      --declarations flags.aconfig --out cache.pb
  aconfigc create-storage --container system --cache cache.pb --out storage/
  aconfigc create-cpp-lib --cache cache.pb --mode production --out gen/cpp
  aconfigc dump-cache --cache cache.pb --format verbose

For detailed command help: aconfigc <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("aconfigc version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}

	if *quiet && *verbose > 0 {
		fmt.Fprintf(os.Stderr, "Error: cannot use --quiet and --verbose together\n")
		os.Exit(1)
	}
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{
		JSON:        *jsonOutput,
		NoColor:     *noColor,
		Verbose:     *verbose,
		Quiet:       *quiet,
		MetricsAddr: *metricsAddr,
	}

	ui.InitColors(globals.NoColor)

	logLevel := slog.LevelWarn
	switch {
	case globals.Verbose >= 2:
		logLevel = slog.LevelDebug
	case globals.Verbose == 1:
		logLevel = slog.LevelInfo
	}
	logOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler = slog.NewTextHandler(os.Stderr, logOpts)
	if globals.JSON {
		logHandler = slog.NewJSONHandler(os.Stderr, logOpts)
	}
	slog.SetDefault(slog.New(logHandler))

	startMetricsServer(globals.MetricsAddr)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "create-cache":
		runCreateCache(cmdArgs, *configPath, globals)
	case "create-cpp-lib":
		runCreateCodegenLib(cmdArgs, *configPath, globals, "cpp")
	case "create-java-lib":
		runCreateCodegenLib(cmdArgs, *configPath, globals, "java")
	case "create-rust-lib":
		runCreateCodegenLib(cmdArgs, *configPath, globals, "rust")
	case "create-storage":
		runCreateStorage(cmdArgs, *configPath, globals)
	case "dump-cache":
		runDumpCache(cmdArgs, *configPath, globals)
	case "export-flags":
		runExportFlags(cmdArgs, *configPath, globals)
	case "completion":
		runCompletion(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
