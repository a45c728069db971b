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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iyotee/Elektros/lib"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "elektros",
	Short: "Safe operating area and stability analysis for electronics projects.",
	Long: `Elektros checks a project BOM against component safe operating
areas, extracts limits from datasheets, and runs a small-signal
frequency sweep over an exported spice netlist to judge loop
stability.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.elektros.yaml)")
	rootCmd.PersistentFlags().String("workspace", "", "workspace directory for the library, datasheets and analyses")
	rootCmd.PersistentFlags().Float64("margin", lib.DefaultSafetyMargin, "safety margin applied to SOA limits")

	viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	viper.BindPFlag("margin", rootCmd.PersistentFlags().Lookup("margin"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".elektros" (without extension).
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".elektros")
		}
	}

	viper.SetEnvPrefix("elektros")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

/*
	workspace resolves the configured workspace directory, falling back
	to the per-user default.
*/
func workspace() string {
	if ws := viper.GetString("workspace"); ws != "" {
		os.MkdirAll(ws, 0777)
		return ws
	}

	ws, err := lib.DefaultWorkspace()
	if err != nil {
		return "."
	}

	return ws
}
