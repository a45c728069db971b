/*
Copyright © 2026 iyotee <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyotee/Elektros/lib"
)

// associateCmd represents the associate command
var associateCmd = &cobra.Command{
	Use:   "associate <value> <mpn>",
	Short: "Associate a BOM value with a library part.",
	Long: `Associate a BOM value with a library part, so later analysis
		runs resolve the value to the part without a part number in
		the BOM.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		library, err := lib.NewLibrary(workspace())
		if err != nil {
			fmt.Printf("failed to open or create library: %s\n", err)
			return
		}
		defer library.Close()

		value, mpn := args[0], args[1]
		if part := library.Exact(mpn); part == nil {
			fmt.Printf("warning: %s is not in the library\n", mpn)
		}

		if err := library.Associate(value, mpn); err != nil {
			fmt.Printf("failed to associate: %s\n", err)
			return
		}

		fmt.Printf("%s -> %s\n", value, mpn)
	},
}

func init() {
	rootCmd.AddCommand(associateCmd)
}
