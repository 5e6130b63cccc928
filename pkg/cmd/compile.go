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
	"github.com/tesseralang/go-tessera/pkg/binfile"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] module_file",
	Short: "compile a textual module into a binary bundle.",
	Long: `Parse and check a textual module, then write it (together with the
	device table it was checked against) as a binary bundle.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		output := GetString(cmd, "output")
		module := readModuleFile(args[0])
		table := readDeviceTable(cmd)
		// Check before writing anything.
		if err := ir.CheckModule(module); err != nil {
			fmt.Println(err)
			os.Exit(4)
		}
		//
		if errors := checkModulePlacements(module, table); len(errors) != 0 {
			for _, err := range errors {
				fmt.Println(err)
			}
			//
			os.Exit(4)
		}
		// A bundle always records the table it was checked against.
		if table == nil {
			table = &device.Table{}
		}
		//
		bundle := binfile.NewBundle(nil, module, table)
		//
		data, err := bundle.MarshalBinary()
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if err := os.WriteFile(output, data, 0644); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		log.Debug(fmt.Sprintf("wrote %d byte(s) to %s", len(data), output))
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "a.tbin", "Output file for the compiled bundle")
}
