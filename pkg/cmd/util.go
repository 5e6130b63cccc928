// Copyright Tessera Systems Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tesseralang/go-tessera/pkg/binfile"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/ir/text"
	"github.com/tesseralang/go-tessera/pkg/util/source"
)

// GetFlag gets an expected boolean flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected uint flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Configure the logger according to the persistent verbosity flag.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// Read a module using a parser based on the extension of the filename:
// textual modules carry a ".tir" extension, compiled bundles ".tbin".
func readModuleFile(filename string) *ir.Module {
	ext := path.Ext(filename)
	//
	switch ext {
	case ".tir":
		srcfile, err := source.ReadFile(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		module, serr := text.ParseModule(srcfile)
		if serr != nil {
			printSyntaxError(serr)
			os.Exit(4)
		}
		//
		return module
	case ".tbin":
		return &readBundleFile(filename).Module
	default:
		fmt.Printf("unknown module file format: %s\n", ext)
		os.Exit(2)
		// unreachable
		return nil
	}
}

// Read a compiled bundle from disk.
func readBundleFile(filename string) *binfile.Bundle {
	var bundle binfile.Bundle
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	if !binfile.IsBundleFile(bytes) {
		fmt.Printf("%s is not a bundle file\n", filename)
		os.Exit(2)
	}
	//
	if err := bundle.UnmarshalBinary(bytes); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return &bundle
}

// Read the device table named by the persistent --targets flag, defaulting to
// an empty table (which rejects every constrained scope of a known kind)
// when none is given.
func readDeviceTable(cmd *cobra.Command) *device.Table {
	filename := GetString(cmd, "targets")
	if filename == "" {
		return nil
	}
	//
	table, err := device.LoadTable(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debug(fmt.Sprintf("loaded device table %s (%d target(s))", filename, len(table.Targets)))
	//
	return table
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
