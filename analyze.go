package main

import (
	"fmt"
	"strings"

	"redox_tutor/src/llm/oracle"
	"redox_tutor/src/tutor"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [equation]",
	Short: "Print the oracle's analysis of one equation",
	Long: `Sends a single equation to the configured provider and prints the parsed
analysis as JSON, followed by the balanced equation. Useful for checking a
provider or prompt change without the web app.

Example:
  redox_tutor analyze "Fe + H2SO4 -> Fe2(SO4)3 + SO2 + H2O"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	equation := strings.Join(args, " ")
	ctx := cmd.Context()

	analyzer, err := oracle.New(ctx, config.OracleConfig, nil)
	if err != nil {
		return fmt.Errorf("failed to create oracle: %w", err)
	}
	analysis, err := analyzer.Analyze(ctx, equation)
	if err != nil {
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	fmt.Fprintln(cmd.OutOrStdout(), tutor.BalancedEquation(analysis))
	return nil
}
