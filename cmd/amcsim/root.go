package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "amcsim",
	Short: "Replay SINR traces through the adaptive modulation and coding core",
	Long: "amcsim loads a link-adaptation scenario (an explicit SINR trace or a " +
		"TLE-driven satellite pass), replays it tick by tick through the AMC " +
		"core, and reports the selected CQI/MCS sequence.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
