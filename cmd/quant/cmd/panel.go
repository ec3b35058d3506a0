package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quant/config"
	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/panel"
	"github.com/rustyeddy/quant/panelio"
	"github.com/rustyeddy/quant/returns"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Build market panels and returns",
	Long: `Build market panels from a job file, or convert a price table to returns.

Subcommands:
  build    - Fetch history and build the panel described by a job file
  returns  - Convert a price CSV into returns

Examples:
  quant panel build -c job.yaml
  quant panel returns --in prices.csv --method simple --out returns.csv`,
}

var panelBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a market panel from a job file",
	Args:  cobra.NoArgs,
	RunE:  runPanelBuild,
}

var panelReturnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "Convert a price CSV into returns",
	Args:  cobra.NoArgs,
	RunE:  runPanelReturns,
}

var (
	panelConfigPath string

	returnsIn     string
	returnsOut    string
	returnsMethod string
	returnsKeepNA bool
)

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.AddCommand(panelBuildCmd)
	panelCmd.AddCommand(panelReturnsCmd)

	panelBuildCmd.Flags().StringVarP(&panelConfigPath, "config", "c", "", "path to job file (required)")
	panelBuildCmd.MarkFlagRequired("config")

	panelReturnsCmd.Flags().StringVar(&returnsIn, "in", "", "price CSV (required)")
	panelReturnsCmd.Flags().StringVar(&returnsOut, "out", "", "output CSV (default stdout)")
	panelReturnsCmd.Flags().StringVar(&returnsMethod, "method", "log", "log or simple")
	panelReturnsCmd.Flags().BoolVar(&returnsKeepNA, "keep-na", false, "keep rows with no defined return")
	panelReturnsCmd.MarkFlagRequired("in")
}

func runPanelBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(panelConfigPath)
	if err != nil {
		return err
	}

	src, closeSrc, err := openSource(cfg.Source)
	if err != nil {
		return err
	}
	defer closeSrc()

	fields, err := history.FieldPanels(cmd.Context(), src, cfg.HistoryRequest(), cfg.TickerNames, cfg.FieldNames)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	prices, ok := fields[cfg.Panel.Field]
	if !ok {
		have := make([]string, 0, len(fields))
		for k := range fields {
			have = append(have, k)
		}
		sort.Strings(have)
		return fmt.Errorf("%w: no data for panel.field %q (have %v)", panel.ErrConfig, cfg.Panel.Field, have)
	}

	mp, err := panel.Build(prices, cfg.PanelOptions())
	if err != nil {
		return fmt.Errorf("build panel: %w", err)
	}
	log.Info().Stringer("panel", mp).Msg("panel built")

	out := mp.Prices()
	sheets := []panelio.Sheet{{Name: "prices", Table: out}}

	if cfg.Returns.Enabled {
		r, err := returns.FromPrices(out, cfg.ReturnsOptions())
		if err != nil {
			return fmt.Errorf("returns: %w", err)
		}
		out = r
		sheets = append(sheets, panelio.Sheet{Name: "returns", Table: r})
	}

	switch cfg.Output.Format {
	case "xlsx":
		err = writeXLSX(cfg.Output.Path, sheets)
	default:
		err = writeCSV(cmd.OutOrStdout(), cfg.Output.Path, out)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if cfg.Output.Path != "" && cfg.Output.Path != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows x %d columns to %s\n", out.Len(), out.Width(), cfg.Output.Path)
	}
	return nil
}

func runPanelReturns(cmd *cobra.Command, args []string) error {
	method, err := returns.ParseMethod(returnsMethod)
	if err != nil {
		return err
	}

	prices, err := readCSV(returnsIn)
	if err != nil {
		return err
	}

	r, err := returns.FromPrices(prices, returns.Options{Method: method, KeepNA: returnsKeepNA})
	if err != nil {
		return fmt.Errorf("returns: %w", err)
	}
	log.Debug().Str("method", string(method)).Int("rows", r.Len()).Msg("returns computed")

	if err := writeCSV(cmd.OutOrStdout(), returnsOut, r); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if returnsOut != "" && returnsOut != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d %s returns to %s\n", r.Len(), method, returnsOut)
	}
	return nil
}
