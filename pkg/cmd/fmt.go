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

	"github.com/spf13/cobra"
	"github.com/tesseralang/go-tessera/pkg/ir/text"
	"github.com/tesseralang/go-tessera/pkg/util/termio"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] module_file",
	Short: "reformat a module in the canonical textual layout.",
	Long: `Parse a module and print it back in the canonical layout, fitting
	the terminal width where possible.  Nested placement annotations are
	merged in the process, since the reader normalises them.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		width := GetUint(cmd, "textwidth")
		if width == 0 {
			width = termio.Width()
		}
		//
		module := readModuleFile(args[0])
		//
		fmt.Println(text.FormatModule(module, width))
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().Uint("textwidth", 0, "Width to use when formatting output (0 = terminal width)")
}
