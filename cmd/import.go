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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iyotee/Elektros/lib"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <src>",
	Short: "Import part catalogs or datasheet bundles.",
	Long: `Import part catalogs or datasheet bundles into the workspace.

		- A parts catalog, in the xlsx format.
		- A directory of versioned catalog snapshots; the newest is used.
		- A datasheet bundle, in an archive format.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := lib.Normalize(args[0])
		if err != nil {
			fmt.Printf("failed to normalize path: %s\n", args[0])
			return
		}

		if !lib.Exists(src) {
			fmt.Printf("failed to stat file: %s\n", src)
			return
		}

		if info, err := os.Stat(src); err == nil && info.IsDir() {
			snapshot, err := lib.LatestSnapshot(src)
			if err != nil {
				fmt.Printf("failed to pick snapshot: %s\n", err)
				return
			}

			matches, _ := filepath.Glob(filepath.Join(snapshot, "*.xlsx"))
			if len(matches) == 0 {
				fmt.Printf("no catalog found in snapshot: %s\n", snapshot)
				return
			}

			src = matches[0]
		}

		if strings.HasSuffix(src, ".xlsx") {
			library, err := lib.NewLibrary(workspace())
			if err != nil {
				fmt.Printf("failed to open or create library: %s\n", err)
				return
			}
			defer library.Close()

			if err := library.Import(src); err != nil {
				fmt.Printf("failed to import catalog: %s\n", err)
				return
			}

			fmt.Printf("catalog imported from %s\n", src)
			return
		}

		dir := lib.DatasheetDir(workspace())
		if err := lib.ImportDatasheets(src, dir); err != nil {
			fmt.Printf("failed to unpack datasheets: %s\n", err)
			return
		}

		fmt.Printf("datasheets unpacked into %s\n", dir)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// importCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// importCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
