package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley is a guided trainer for difficult workplace conversations",
	Long: `Parley walks a user through fixed conversational scenarios, scores the
answers (locally for multiple choice, via a dialogue model for free form),
and branches into generated remediation content on failure.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML content pack (default: built-in Module 1)")
}
