package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quant/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate job files",
	Long: `Manage job files for panel builds.

Subcommands:
  init     - Generate a default job file
  validate - Validate an existing job file

Examples:
  quant config init -o job.yaml
  quant config validate -f job.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default job file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a job file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "job.yaml", "output job file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to job file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default job file: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  quant panel build -c %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Job file valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Source: %s\n", cfg.Source.Type)
	fmt.Fprintf(out, "  Fields: %v\n", cfg.Request.Fields)
	fmt.Fprintf(out, "  Panel: %s (%s, %s)\n", cfg.Panel.Field, cfg.Panel.Frequency, cfg.Panel.Align)
	fmt.Fprintf(out, "  Output: %s\n", cfg.Output.Format)
	return nil
}
