package sqlitestore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/panel"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	_, path := newTestStore(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('observations','batches')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["observations"])
	assert.True(t, found["batches"])
}

func TestImportAndHistory(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	b, err := s.Import(ctx, "seed.csv", []history.Observation{
		{Date: day(1, 2), Ticker: "SPX Index", Field: "PX_LAST", Value: 4742.83},
		{Date: day(1, 3), Ticker: "SPX Index", Field: "PX_LAST", Value: 4704.81},
		{Date: day(1, 2), Ticker: "UKX Index", Field: "PX_LAST", Value: 7721.52},
		{Date: day(1, 3), Ticker: "UKX Index", Field: "PX_LAST", Value: panel.Missing()},
		{Date: day(1, 2), Ticker: "SPX Index", Field: "PX_VOLUME", Value: 1e9},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, b.Rows)
	assert.Len(t, b.ID, 26)

	f, err := s.History(ctx, history.Request{
		Tickers: []string{"UKX Index", "SPX Index"},
		Fields:  []string{"PX_LAST"},
	})
	require.NoError(t, err)

	assert.Equal(t, []history.Key{
		{Ticker: "UKX Index", Field: "PX_LAST"},
		{Ticker: "SPX Index", Field: "PX_LAST"},
	}, f.Keys())
	require.Equal(t, 2, f.Len())
	assert.True(t, f.Index()[0].Equal(day(1, 2)))
	assert.InDelta(t, 7721.52, f.At(0, 0), 1e-9)
	assert.True(t, panel.IsMissing(f.At(1, 0)))
	assert.InDelta(t, 4704.81, f.At(1, 1), 1e-9)
}

func TestImportLaterBatchWins(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Import(ctx, "first", []history.Observation{
		{Date: day(1, 2), Ticker: "SPX Index", Field: "PX_LAST", Value: 1},
	})
	require.NoError(t, err)
	_, err = s.Import(ctx, "second", []history.Observation{
		{Date: day(1, 2), Ticker: "SPX Index", Field: "PX_LAST", Value: 2},
	})
	require.NoError(t, err)

	f, err := s.History(ctx, history.Request{Fields: []string{"PX_LAST"}})
	require.NoError(t, err)
	require.Equal(t, 1, f.Len())
	assert.Equal(t, 2.0, f.At(0, 0))

	batches, err := s.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "first", batches[0].Source)
	assert.Equal(t, "second", batches[1].Source)
}

func TestHistoryDateWindow(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	var obs []history.Observation
	for d := 1; d <= 10; d++ {
		obs = append(obs, history.Observation{Date: day(1, d), Ticker: "SPY", Field: "close", Value: float64(d)})
	}
	_, err := s.Import(ctx, "range", obs)
	require.NoError(t, err)

	p, err := history.FieldPanels(ctx, s, history.Request{
		Fields: []string{"close"},
		Start:  "2024-01-04",
		End:    "2024-01-06",
	}, nil, nil)
	require.NoError(t, err)

	px := p["close"]
	require.NotNil(t, px)
	assert.Equal(t, 3, px.Len())
	v, ok := px.Value(day(1, 6), "SPY")
	assert.True(t, ok)
	assert.Equal(t, 6.0, v)
}

func TestImportCancelled(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Import(ctx, "x", []history.Observation{
		{Date: day(1, 2), Ticker: "SPY", Field: "close", Value: 1},
	})
	assert.Error(t, err)

	batches, err := s.ListBatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batches)
}
