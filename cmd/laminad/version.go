/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
	hcversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"

	libver "github.com/nabbar/golib/version"
)

const (
	appName        = "laminad"
	appDescription = "Lamina S3-compatible object storage gateway"
	appRelease     = "0.1.0"
	appAuthor      = "Lamina"
	appPrefix      = "lamina"

	// minGoVersion repeats go.mod's own `go 1.22` directive as a
	// runtime check, so a binary built with a too-old toolchain prints
	// a warning at startup (startup still continues).
	minGoVersion = "1.22"
)

var (
	buildTime = "unknown"
	buildHash = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(appVersion().GetHeader())
			return nil
		},
	}
}

func appVersion() libver.Version {
	return libver.NewVersion(
		libver.License_MIT,
		appName,
		appDescription,
		buildTime,
		buildHash,
		appRelease,
		appAuthor,
		appPrefix,
		struct{}{},
		0,
	)
}

// printBanner writes a colored startup banner and warns (without
// failing startup) when the running Go toolchain is older than
// minGoVersion.
func printBanner() {
	color.New(color.FgCyan, color.Bold).Println(appVersion().GetHeader())

	if err := checkGoVersion(); err != nil {
		color.New(color.FgYellow).Println(err)
	}
}

func checkGoVersion() error {
	required, err := hcversion.NewVersion(minGoVersion)
	if err != nil {
		return err
	}

	running, err := hcversion.NewVersion(strings.TrimPrefix(runtime.Version(), "go"))
	if err != nil {
		// a non-semantic toolchain string (e.g. "devel") has nothing to
		// compare against; not a reason to fail startup.
		return nil
	}

	if running.LessThan(required) {
		return fmt.Errorf("laminad requires Go %s or newer, running under %s", minGoVersion, runtime.Version())
	}
	return nil
}
