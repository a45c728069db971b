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

var (
	bodeInNode  string
	bodeOutNode string
	bodePoints  int
)

// bodeCmd represents the bode command
var bodeCmd = &cobra.Command{
	Use:   "bode <netlist>",
	Short: "Sweep a spice netlist and report loop stability.",
	Long: `Run a small-signal frequency sweep over a spice netlist and
		report the gain crossover, phase margin, bandwidth and stability
		grade of the response between two nodes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := lib.Normalize(args[0])
		if err != nil {
			fmt.Printf("failed to normalize path: %s\n", args[0])
			return
		}

		result, err := lib.RunBode(src, bodeInNode, bodeOutNode)
		if err != nil {
			fmt.Printf("failed to run sweep: %s\n", err)
			return
		}

		fmt.Println(result.Note)
		if !result.Available || result.Stability == nil {
			return
		}

		s := result.Stability
		fmt.Printf("crossover:    %s\n", formatOpt(s.CrossoverFreq, "%.2f Hz"))
		fmt.Printf("phase margin: %s\n", formatOpt(s.PhaseMargin, "%.1f deg"))
		fmt.Printf("bandwidth:    %s\n", formatOpt(s.Bandwidth, "%.2f Hz"))
		fmt.Printf("grade:        %s\n", s.Grade)
		fmt.Printf("stable:       %t\n", s.Stable)

		if len(s.Poles) > 0 {
			fmt.Printf("poles near:   %v\n", s.Poles)
		}
		if len(s.Zeros) > 0 {
			fmt.Printf("zeros near:   %v\n", s.Zeros)
		}

		sample := result.Points
		if bodePoints > 0 && len(sample) > bodePoints {
			sample = sample[:bodePoints]
		}
		for _, p := range sample {
			fmt.Printf("%12.2f Hz %10.2f dB %8.1f deg\n", p.Freq, p.GainDB, p.PhaseDeg)
		}
	},
}

func formatOpt(v *float64, format string) string {
	if v == nil {
		return "not found"
	}
	return fmt.Sprintf(format, *v)
}

func init() {
	rootCmd.AddCommand(bodeCmd)

	bodeCmd.Flags().StringVar(&bodeInNode, "in", "in", "input node name")
	bodeCmd.Flags().StringVar(&bodeOutNode, "out", "out", "output node name")
	bodeCmd.Flags().IntVar(&bodePoints, "points", 10, "sample rows to print, 0 for all")
}
