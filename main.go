package main

import (
	"fmt"
	"os"

	"redox_tutor/src"
	"redox_tutor/src/logger"

	"github.com/spf13/cobra"
)

var config *src.Config

var rootCmd = &cobra.Command{
	Use:   "redox_tutor",
	Short: "Step-by-step tutor for balancing redox equations",
	Long: `redox_tutor walks a student through balancing a redox equation in four
steps: oxidation states and agents, half-reactions, electron multipliers and
final coefficients. An LLM analyzes the equation once; every answer is then
checked locally against that analysis.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = src.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.InitLogger(config.LogConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
