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
	"strings"

	"github.com/spf13/cobra"

	"github.com/iyotee/Elektros/lib"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search the part library.",
	Long:  `Search the imported part library by description or part number.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		library, err := lib.NewLibrary(workspace())
		if err != nil {
			fmt.Printf("failed to open or create library: %s\n", err)
			return
		}
		defer library.Close()

		parts := library.Find(strings.Join(args, " "))
		if len(parts) == 0 {
			fmt.Println("no parts found")
			return
		}

		for _, part := range parts {
			fmt.Printf("%-20s %-16s %-10s %s\n",
				part.MPN, part.Manufacturer, part.Package, part.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
