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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/ops"
	"github.com/tesseralang/go-tessera/pkg/placement"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] module_file",
	Short: "type check a module and validate its placements.",
	Long: `Type check every definition of a module, then validate all device
	scopes arising (in placement annotations, placement records and
	device_copy attributes) against the given device table.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		module := readModuleFile(args[0])
		table := readDeviceTable(cmd)
		// Type check first, placements second.
		if err := ir.CheckModule(module); err != nil {
			fmt.Println(err)
			os.Exit(4)
		}
		//
		errors := checkModulePlacements(module, table)
		//
		for _, err := range errors {
			fmt.Println(err)
		}
		//
		if len(errors) != 0 {
			os.Exit(4)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// Validate every device scope arising in a module against a device table (a
// nil table skips scope validation, leaving only structural checks).
func checkModulePlacements(module *ir.Module, table *device.Table) []error {
	var errors []error
	//
	for _, def := range module.Defs {
		count := 0
		// Check the function's placement record, if any.
		if p := def.Function.Placement; p != nil {
			for i := range p.Params {
				errors = appendScopeError(errors, def.Name, table, placement.ParamScope(def.Function, uint(i)))
			}
			//
			errors = appendScopeError(errors, def.Name, table, placement.ResultScope(def.Function))
			count += len(p.Params) + 1
		}
		// Check every scope mentioned in the body.
		ir.Walk(def.Function.Body, func(expr ir.Expr) bool {
			switch e := expr.(type) {
			case *ir.Annotation:
				errors = appendScopeError(errors, def.Name, table, e.Scope)
				count++
				// The reader merges nested annotations, so any nesting left
				// here indicates an unnormalized module (e.g. a corrupt
				// bundle).
				if _, ok := e.Body.(*ir.Annotation); ok {
					errors = append(errors, fmt.Errorf("@%s: nested placement annotations are not normalized", def.Name))
				}
			case *ir.Call:
				if attrs, ok := e.Attrs.(*ops.DeviceCopyAttrs); ok {
					errors = appendScopeError(errors, def.Name, table, attrs.SrcScope)
					errors = appendScopeError(errors, def.Name, table, attrs.DstScope)
					count += 2
				}
			}
			//
			return true
		})
		//
		log.Debug(fmt.Sprintf("checked %d scope(s) in @%s", count, def.Name))
	}
	//
	return errors
}

func appendScopeError(errors []error, def string, table *device.Table, scope *device.Scope) []error {
	if table == nil {
		return errors
	}
	//
	if err := table.Check(scope); err != nil {
		errors = append(errors, fmt.Errorf("@%s: %s", def, err))
	}
	//
	return errors
}
