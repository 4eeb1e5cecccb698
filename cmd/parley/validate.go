package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parley-labs/parley/pkg/catalog"
)

// validateCmd checks a YAML content pack without starting anything.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a module content pack",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := catalog.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Invalid content pack: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: %q with %d steps\n", c.Topic(), len(c.Steps()))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
