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
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/placement"
	"github.com/tesseralang/go-tessera/pkg/util/termio"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] module_file",
	Short: "report the placement of every definition in a module.",
	Long: `Print a table summarising, for each definition, the placement of
	its parameters and result along with the number of placement
	annotations in its body.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		module := readModuleFile(args[0])
		//
		printPlacementSummary(module)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func printPlacementSummary(module *ir.Module) {
	table := termio.NewTablePrinter(4, uint(len(module.Defs))+1)
	table.AnsiEscapes(termio.IsTerminal())
	table.SetRow(0, "function", "parameters", "result", "annotations")
	//
	for i, def := range module.Defs {
		var (
			row    = uint(i) + 1
			fn     = def.Function
			params = make([]string, fn.Arity())
			result = placement.ResultScope(fn)
		)
		//
		for j := range params {
			params[j] = placement.ParamScope(fn, uint(j)).String()
		}
		//
		table.SetRow(row, "@"+def.Name, strings.Join(params, " "),
			result.String(), strconv.Itoa(countAnnotations(fn.Body)))
		// Highlight constrained results
		if !result.IsFullyUnconstrained() {
			table.SetEscape(2, row, termio.NewAnsiEscape().FgColour(termio.TERM_GREEN))
		}
	}
	//
	table.SetMaxWidths(termio.Width() / 4)
	table.Print(os.Stdout)
}

func countAnnotations(expr ir.Expr) int {
	count := 0
	//
	ir.Walk(expr, func(e ir.Expr) bool {
		if _, ok := e.(*ir.Annotation); ok {
			count++
		}
		//
		return true
	})
	//
	return count
}
