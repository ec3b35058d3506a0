package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/quant/panel"
	"github.com/rustyeddy/quant/panelio"
)

// writeCSV writes t to path, or to w when path is empty or "-".
func writeCSV(w io.Writer, path string, t *panel.Table) error {
	if path == "" || path == "-" {
		return panelio.WriteCSV(w, t)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := panelio.WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, sheets []panelio.Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := panelio.WriteXLSX(f, sheets); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func readCSV(path string) (*panel.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := panelio.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
