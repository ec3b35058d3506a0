// Package sqlitestore keeps historical observations in a local SQLite
// database and serves them through history.Source. Observations are
// loaded in batches; a later batch overwrites earlier values for the same
// (date, ticker, field).
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/panel"
	"github.com/rustyeddy/quant/pkg/id"
)

type Store struct {
	db  *sql.DB
	Log zerolog.Logger
}

// Batch describes one Import call.
type Batch struct {
	ID      string
	Source  string
	Rows    int
	Created time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, Log: zerolog.Nop()}, nil
}

// Import writes obs in a single transaction and records the batch.
// Missing values are stored as NULL.
func (s *Store) Import(ctx context.Context, source string, obs []history.Observation) (Batch, error) {
	b := Batch{ID: id.New(), Source: source, Rows: len(obs), Created: time.Now().UTC()}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (date, ticker, field, value, batch_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, ticker, field) DO UPDATE SET
			value = excluded.value,
			batch_id = excluded.batch_id`)
	if err != nil {
		return Batch{}, err
	}
	defer stmt.Close()

	for _, o := range obs {
		var v sql.NullFloat64
		if !panel.IsMissing(o.Value) {
			v = sql.NullFloat64{Float64: o.Value, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, o.Date.UTC(), o.Ticker, o.Field, v, b.ID); err != nil {
			return Batch{}, fmt.Errorf("insert %s %s %s: %w",
				o.Date.Format(time.DateOnly), o.Ticker, o.Field, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO batches (batch_id, source, rows, created)
		VALUES (?, ?, ?, ?)`,
		b.ID, b.Source, b.Rows, b.Created,
	); err != nil {
		return Batch{}, err
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, err
	}

	s.Log.Info().Str("batch", b.ID).Str("source", source).Int("rows", b.Rows).Msg("observations imported")
	return b, nil
}

// History implements history.Source. Tickers and fields are filtered in
// SQL; the date window is applied while pivoting.
func (s *Store) History(ctx context.Context, req history.Request) (*history.Frame, error) {
	var (
		where []string
		args  []any
	)
	if len(req.Fields) > 0 {
		where = append(where, "field IN ("+placeholders(len(req.Fields))+")")
		for _, f := range req.Fields {
			args = append(args, f)
		}
	}
	if len(req.Tickers) > 0 {
		where = append(where, "ticker IN ("+placeholders(len(req.Tickers))+")")
		for _, t := range req.Tickers {
			args = append(args, t)
		}
	}

	q := `SELECT date, ticker, field, value FROM observations`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY date ASC, ticker ASC, field ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []history.Observation
	for rows.Next() {
		var (
			o history.Observation
			v sql.NullFloat64
		)
		if err := rows.Scan(&o.Date, &o.Ticker, &o.Field, &v); err != nil {
			return nil, err
		}
		o.Value = panel.Missing()
		if v.Valid {
			o.Value = v.Float64
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.Log.Debug().Int("observations", len(obs)).Strs("fields", req.Fields).Msg("sqlite history loaded")
	return history.Pivot(req, obs)
}

// ListBatches returns every import batch, oldest first.
func (s *Store) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, source, rows, created
		FROM batches
		ORDER BY batch_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Source, &b.Rows, &b.Created); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
