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
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/iyotee/Elektros/lib"
)

var exportID string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export an analysis run in the xlsx format.",
	Long: `Export an analysis run in the xlsx format, one row per
		compliance check. Without --id the latest run is exported.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dst := args[0]
		if !strings.HasSuffix(dst, "xlsx") && !strings.HasSuffix(dst, "xls") {
			fmt.Printf("export file name must be an excel file\n")
			return
		}

		var analysis *lib.Analysis
		var err error

		if exportID != "" {
			analysis, err = lib.LoadAnalysis(workspace(), exportID)
		} else {
			analysis, err = lib.LatestAnalysis(workspace())
		}
		if err != nil {
			fmt.Printf("failed to load analysis: %s\n", err)
			return
		}

		f := excelize.NewFile()
		f.NewSheet("compliance")
		f.DeleteSheet("Sheet1")

		f.SetSheetRow("compliance", "A1", &[]interface{}{
			"Ref", "MPN", "Parameter", "Measured", "Limit", "Unit", "Verdict", "Note",
		})

		i := 2
		for _, ca := range analysis.Components {
			for _, result := range ca.Results {
				f.SetSheetRow("compliance", "A"+strconv.Itoa(i), &[]interface{}{
					ca.Component.Ref, ca.Component.MPN, result.Parameter,
					result.Measured, result.Limit, result.Unit,
					result.Verdict.String(), result.Note,
				})
				i++
			}
		}

		if err := f.SaveAs(dst); err != nil {
			fmt.Printf("failed to save export: %s\n", err)
			return
		}

		fmt.Printf("%d rows written to %s\n", i-2, dst)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportID, "id", "", "analysis run to export")
}
