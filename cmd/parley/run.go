package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parley-labs/parley"
	"github.com/parley-labs/parley/internal/cli"
	"github.com/parley-labs/parley/internal/config"
	"github.com/parley-labs/parley/internal/llm"
	"github.com/parley-labs/parley/internal/logging"
)

// runCmd plays the module interactively in the terminal.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play the training module in the terminal",
	Long:  `Starts an interactive terminal session of the training module using the same engine the server runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalogPath, _ := cmd.Flags().GetString("catalog")

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Configuration warning: %v\n", err)
			fmt.Println("Free-form scoring and remediation need a working dialogue model.")
		}

		model := llm.New(cfg.BaseURL, cfg.APIKey, llm.WithModel(cfg.Model))

		opts := []parley.Option{
			parley.WithDialogueModel(model),
			parley.WithLogger(logging.NewNop()),
		}
		if catalogPath != "" {
			opts = append(opts, parley.WithCatalogFile(catalogPath))
		}
		trainer, err := parley.New(opts...)
		if err != nil {
			fmt.Printf("Error initializing trainer: %v\n", err)
			os.Exit(1)
		}

		if err := cli.RunSession(context.Background(), trainer.Engine, os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
