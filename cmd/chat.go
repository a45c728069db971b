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

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/iyotee/Elektros/lib"
)

var chatID string

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about an analysis run.",
	Long: `Ask questions about an analysis run. Without --id the latest
		run in the workspace is loaded. Questions about power, soa,
		stability, improvements and the circuit itself get dedicated
		answers.`,
	Run: func(cmd *cobra.Command, args []string) {
		var analysis *lib.Analysis
		var err error

		if chatID != "" {
			analysis, err = lib.LoadAnalysis(workspace(), chatID)
		} else {
			analysis, err = lib.LatestAnalysis(workspace())
		}
		if err != nil {
			fmt.Printf("failed to load analysis: %s\n", err)
			return
		}

		fmt.Printf("loaded run %s (%s)\n", analysis.ID, analysis.Project)
		fmt.Println("ask about power, soa, stability, improvements, or type exit")

		for {
			text := strings.TrimSpace(prompt.Input("> ", chatCompleter))
			if text == "" {
				continue
			}
			if text == "exit" || text == "quit" {
				return
			}

			fmt.Println(lib.Respond(text, analysis))
			fmt.Println()
		}
	},
}

func chatCompleter(d prompt.Document) []prompt.Suggest {
	suggestions := []prompt.Suggest{
		{Text: "power", Description: "power supply components"},
		{Text: "soa", Description: "safety analysis summary"},
		{Text: "stability", Description: "loop stability report"},
		{Text: "improve", Description: "design improvement suggestions"},
		{Text: "explain", Description: "circuit explanation"},
		{Text: "exit", Description: "leave the chat"},
	}

	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatID, "id", "", "analysis run to load")
}
