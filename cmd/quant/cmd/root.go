package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/quant/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Build clean, aligned market panels from vendor history",
	Long: `Quant turns raw vendor history into research-ready market panels.

It provides tools for:
  - Fetching history from CSV files, a local SQLite store or an HTTP bridge
  - Splitting multi-field downloads into one table per field
  - Cleaning, resampling and aligning price tables
  - Converting prices to log or simple returns
  - Writing results as CSV or XLSX

Settings can also come from a .env file (QUANT_HISTORY_DB).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	logLevel  string
	logFormat string
	envFile   string

	log = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load if present")
}

func setup(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	l, err := logging.New(logging.Config{
		Level:  logLevel,
		Format: logFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	log = l
	return nil
}
