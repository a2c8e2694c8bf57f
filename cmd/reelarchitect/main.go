// Command reelarchitect serves the Viral Reel Architect UI and API.
//
// @title Reel Architect API
// @version 1.0
// @description Generates short-form video scripts and keeps a per-user history.
// @BasePath /api/v1
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile string
	rootCmd = &cobra.Command{
		Use:           "reelarchitect",
		Short:         "Viral reel script generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment")
	rootCmd.AddCommand(newServeCmd(), newGenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
