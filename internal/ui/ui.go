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

// Package ui provides colored terminal output helpers shared by every
// aconfigc subcommand.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	subHeadColor = color.New(color.FgCyan)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
	infoColor    = color.New(color.FgBlue)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	countColor   = color.New(color.FgMagenta, color.Bold)
)

// InitColors enables or disables color output. It should be called
// once at startup after parsing --no-color and checking NO_COLOR.
func InitColors(noColor bool) {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

func Header(text string) {
	fmt.Println(headerColor.Sprint(text))
	fmt.Println(dimColor.Sprint(repeat("=", len(text))))
}

func SubHeader(text string) {
	fmt.Println(subHeadColor.Sprint(text))
}

func Label(text string) string {
	return labelColor.Sprint(text)
}

func DimText(text string) string {
	return dimColor.Sprint(text)
}

func CountText(n int) string {
	return countColor.Sprintf("%d", n)
}

func Info(text string)                    { fmt.Println(infoColor.Sprint(text)) }
func Infof(format string, args ...any)     { fmt.Println(infoColor.Sprintf(format, args...)) }
func Warning(text string)                  { fmt.Println(warnColor.Sprint(text)) }
func Warningf(format string, args ...any)  { fmt.Println(warnColor.Sprintf(format, args...)) }
func Success(text string)                  { fmt.Println(successColor.Sprint(text)) }
func Successf(format string, args ...any)  { fmt.Println(successColor.Sprintf(format, args...)) }

func Cyan(text string) string  { return color.CyanString("%s", text) }
func Green(text string) string { return color.GreenString("%s", text) }
func Yellow(text string) string { return color.YellowString("%s", text) }
func Dim(text string) string   { return dimColor.Sprint(text) }

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		b = append(b, s...)
	}
	return string(b)
}
