package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/quant/config"
	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/history/csvsource"
	"github.com/rustyeddy/quant/history/httpsource"
	"github.com/rustyeddy/quant/history/sqlitestore"
	"github.com/rustyeddy/quant/panel"
)

const (
	historyDBEnv     = "QUANT_HISTORY_DB"
	defaultHistoryDB = "history.sqlite"
)

// openSource returns the configured history source and a func that
// releases it.
func openSource(sc config.SourceConfig) (history.Source, func() error, error) {
	nop := func() error { return nil }

	switch sc.Type {
	case "csv":
		src := csvsource.New(sc.Path)
		src.Log = log.With().Str("source", "csv").Logger()
		return src, nop, nil

	case "sqlite":
		st, err := sqlitestore.Open(sc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open history db: %w", err)
		}
		st.Log = log.With().Str("source", "sqlite").Logger()
		return st, st.Close, nil

	case "http":
		timeout, err := sc.ParseTimeout()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: source.timeout: %v", panel.ErrConfig, err)
		}
		c := httpsource.New(sc.URL, timeout)
		c.Log = log.With().Str("source", "http").Logger()
		return c, nop, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown source type %q", panel.ErrConfig, sc.Type)
}

// historyDB picks the store path: flag, then QUANT_HISTORY_DB, then the
// default file name.
func historyDB(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(historyDBEnv); p != "" {
		return p
	}
	return defaultHistoryDB
}
