package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quant/config"
	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/panel"
	"github.com/rustyeddy/quant/panelio"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch history and write one table per field",
	Long: `Fetch the history described by a job file without building a panel.

By default every field becomes one sheet of an XLSX workbook. With
--flatten the result is a single CSV with "ticker-field" columns.

Examples:
  quant fetch -c job.yaml --out fields.xlsx
  quant fetch -c job.yaml --flatten --out history.csv`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

var (
	fetchConfigPath string
	fetchOut        string
	fetchFlatten    bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchConfigPath, "config", "c", "", "path to job file (required)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "output file (.xlsx, or .csv with --flatten)")
	fetchCmd.Flags().BoolVar(&fetchFlatten, "flatten", false, "write one CSV with ticker-field columns")
	fetchCmd.MarkFlagRequired("config")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if !fetchFlatten && !isXLSX(fetchOut) {
		return fmt.Errorf("%w: --out must be an .xlsx file unless --flatten is set", panel.ErrConfig)
	}

	cfg, err := config.LoadFromFile(fetchConfigPath)
	if err != nil {
		return err
	}

	src, closeSrc, err := openSource(cfg.Source)
	if err != nil {
		return err
	}
	defer closeSrc()

	f, err := history.Fetch(cmd.Context(), src, cfg.HistoryRequest())
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	log.Info().Int("rows", f.Len()).Int("series", len(f.Keys())).Msg("history fetched")

	if fetchFlatten {
		t, err := history.Flatten(f, cfg.TickerNames, cfg.FieldNames)
		if err != nil {
			return err
		}
		if err := writeCSV(cmd.OutOrStdout(), fetchOut, t); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if fetchOut != "" && fetchOut != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows x %d series to %s\n", t.Len(), t.Width(), fetchOut)
		}
		return nil
	}

	fields, err := history.SplitFields(f, cfg.TickerNames, cfg.FieldNames)
	if err != nil {
		return err
	}
	if err := writeXLSX(fetchOut, panelio.SheetsFromMap(fields)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d field sheets to %s\n", len(fields), fetchOut)
	return nil
}
