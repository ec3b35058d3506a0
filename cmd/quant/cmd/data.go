package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quant/history/csvsource"
	"github.com/rustyeddy/quant/history/sqlitestore"
	"github.com/rustyeddy/quant/pkg/id"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the local SQLite history store",
	Long: `Load long-format observations into the local history store and list
what has been loaded.

The database path comes from --db, then $QUANT_HISTORY_DB, then
./history.sqlite.

Subcommands:
  import   - Load a date,ticker,field,value CSV as a new batch
  batches  - List import batches

Examples:
  quant data import --in obs.csv
  quant data batches --db research.sqlite`,
}

var dataImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import observations from CSV",
	Args:  cobra.NoArgs,
	RunE:  runDataImport,
}

var dataBatchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List import batches",
	Args:  cobra.NoArgs,
	RunE:  runDataBatches,
}

var (
	dataDBPath string
	dataIn     string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataBatchesCmd)

	dataCmd.PersistentFlags().StringVarP(&dataDBPath, "db", "d", "", "path to SQLite history DB")
	dataImportCmd.Flags().StringVar(&dataIn, "in", "", "observations CSV (required)")
	dataImportCmd.MarkFlagRequired("in")
}

func runDataImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(dataIn)
	if err != nil {
		return err
	}
	defer f.Close()

	obs, err := csvsource.ReadObservations(f)
	if err != nil {
		return fmt.Errorf("%s: %w", dataIn, err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := st.Import(cmd.Context(), dataIn, obs)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d observations (batch %s)\n", b.Rows, b.ID)
	return nil
}

func runDataBatches(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	batches, err := st.ListBatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("list batches: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(batches) == 0 {
		fmt.Fprintln(out, "No batches imported")
		return nil
	}
	for _, b := range batches {
		issued, err := id.Time(b.ID)
		if err != nil {
			issued = b.Created
		}
		fmt.Fprintf(out, "%s  %s  %6d  %s\n", b.ID, issued.Local().Format(time.DateTime), b.Rows, b.Source)
	}
	return nil
}

func openStore() (*sqlitestore.Store, error) {
	path := historyDB(dataDBPath)
	st, err := sqlitestore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	st.Log = log.With().Str("db", path).Logger()
	return st, nil
}
