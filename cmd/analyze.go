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
	"github.com/spf13/viper"

	"github.com/iyotee/Elektros/lib"
)

var (
	analyzeNetlist   string
	analyzeOperating string
	analyzeSpice     string
	analyzeInNode    string
	analyzeOutNode   string
	analyzeReport    string
	analyzeProject   string
	analyzeWorkers   int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <bom>",
	Short: "Check a BOM against safe operating areas.",
	Long: `Check every component of a BOM against its safe operating area.

		Limits come from cached extractions, from datasheets found in the
		workspace, or from conservative estimates by reference prefix.
		With a spice netlist, a frequency sweep and stability report are
		added. The run is saved in the workspace for the chat command.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := lib.Normalize(args[0])
		if err != nil {
			fmt.Printf("failed to normalize path: %s\n", args[0])
			return
		}

		bom, err := lib.ReadBOM(src)
		if err != nil {
			fmt.Printf("failed to read bom: %s\n", err)
			return
		}

		var netlist *lib.Netlist
		if analyzeNetlist != "" {
			netlist, err = lib.ReadNetlist(analyzeNetlist)
			if err != nil {
				fmt.Printf("failed to read netlist: %s\n", err)
				return
			}
		}

		conditions, err := lib.LoadOperatingConditions(analyzeOperating)
		if err != nil {
			fmt.Printf("failed to load operating conditions: %s\n", err)
			return
		}

		library, err := lib.NewLibrary(workspace())
		if err != nil {
			fmt.Printf("failed to open or create library: %s\n", err)
			return
		}
		defer library.Close()

		project := analyzeProject
		if project == "" {
			project = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		}

		analysis := lib.AnalyzeBOM(project, bom, netlist, conditions, &lib.AnalysisOptions{
			SafetyMargin: viper.GetFloat64("margin"),
			DatasheetDir: lib.DatasheetDir(workspace()),
			Workers:      analyzeWorkers,
			Library:      library,
		})

		if analyzeSpice != "" {
			bode, err := lib.RunBode(analyzeSpice, analyzeInNode, analyzeOutNode)
			if err != nil {
				fmt.Printf("failed to run bode sweep: %s\n", err)
			} else {
				analysis.Bode = bode
			}
		}

		if err := analysis.Save(workspace()); err != nil {
			fmt.Printf("failed to save analysis: %s\n", err)
		}

		report := lib.MakeReport(analysis)
		if analyzeReport == "" {
			fmt.Println(report)
			return
		}

		if err := os.WriteFile(analyzeReport, []byte(report), 0777); err != nil {
			fmt.Printf("failed to write report: %s\n", err)
			return
		}

		fmt.Printf("report written to %s\n", analyzeReport)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeNetlist, "netlist", "", "KiCad xml netlist")
	analyzeCmd.Flags().StringVar(&analyzeOperating, "operating", "", "yaml file of operating conditions by reference")
	analyzeCmd.Flags().StringVar(&analyzeSpice, "spice", "", "spice netlist for the frequency sweep")
	analyzeCmd.Flags().StringVar(&analyzeInNode, "in", "in", "input node for the frequency sweep")
	analyzeCmd.Flags().StringVar(&analyzeOutNode, "out", "out", "output node for the frequency sweep")
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "write the markdown report to this file")
	analyzeCmd.Flags().StringVar(&analyzeProject, "project", "", "project name for the report")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "parallel datasheet workers")
}
