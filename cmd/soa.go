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
	"github.com/spf13/viper"

	"github.com/iyotee/Elektros/lib"
)

var (
	soaMPN       string
	soaOperating string
	soaRef       string
)

// soaCmd represents the soa command
var soaCmd = &cobra.Command{
	Use:   "soa <datasheet>",
	Short: "Extract safe operating area limits from a datasheet.",
	Long: `Extract safe operating area limits from a pdf or plain-text
		datasheet and print them. With --mpn the limits are cached in
		the workspace library for later analysis runs. With --operating
		and --ref the limits are checked against that component's
		operating conditions.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := lib.Normalize(args[0])
		if err != nil {
			fmt.Printf("failed to normalize path: %s\n", args[0])
			return
		}

		pages, err := lib.ReadDatasheetPages(src)
		if err != nil {
			fmt.Printf("failed to read datasheet: %s\n", err)
			return
		}

		extractor := lib.NewSOAExtractor()
		limits := extractor.Extract(pages)
		if limits.Empty() {
			fmt.Println("no limits found")
			return
		}

		for _, pattern := range lib.SOAPatterns {
			if value, ok := limits.Values[pattern.Name]; ok {
				fmt.Printf("%s = %g %s\n", pattern.Name, value, pattern.Unit)
			}
		}

		for _, advisory := range lib.ValidateSOA(limits) {
			fmt.Printf("advisory: %s\n", advisory)
		}

		if soaOperating != "" {
			conditions, err := lib.LoadOperatingConditions(soaOperating)
			if err != nil {
				fmt.Printf("failed to load operating conditions: %s\n", err)
				return
			}

			checker := lib.NewSOAChecker(viper.GetFloat64("margin"))
			for _, result := range checker.Check(limits, conditions[soaRef]) {
				fmt.Println(result.String())
			}
		}

		if soaMPN == "" {
			return
		}

		library, err := lib.NewLibrary(workspace())
		if err != nil {
			fmt.Printf("failed to open or create library: %s\n", err)
			return
		}
		defer library.Close()

		if err := library.CacheSOA(soaMPN, limits); err != nil {
			fmt.Printf("failed to cache limits: %s\n", err)
			return
		}

		fmt.Printf("limits cached for %s\n", soaMPN)
	},
}

func init() {
	rootCmd.AddCommand(soaCmd)

	soaCmd.Flags().StringVar(&soaMPN, "mpn", "", "cache the limits under this part number")
	soaCmd.Flags().StringVar(&soaOperating, "operating", "", "yaml file of operating conditions by reference")
	soaCmd.Flags().StringVar(&soaRef, "ref", "", "reference to check from the operating conditions file")
}
