package panelio

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quant/panel"
)

var nan = math.NaN()

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func sample(t *testing.T) *panel.Table {
	t.Helper()
	tb, err := panel.NewTable(
		[]time.Time{day(1, 31), day(2, 29), day(3, 29)},
		[]string{"SPY", "EEM"},
		[][]float64{{482.88, 39.42}, {508.08, nan}, {523.07, 40.95}},
	)
	require.NoError(t, err)
	return tb
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(t)))

	want := "date,SPY,EEM\n" +
		"2024-01-31,482.88,39.42\n" +
		"2024-02-29,508.08,\n" +
		"2024-03-29,523.07,40.95\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	in := sample(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		is   error
	}{
		{"empty", "", panel.ErrParse},
		{"bad header", "when,SPY\n2024-01-02,1\n", panel.ErrParse},
		{"bad date", "date,SPY\nyesterday,1\n", panel.ErrParse},
		{"bad value", "date,SPY\n2024-01-02,x\n", panel.ErrParse},
		{"too many cells", "date,SPY\n2024-01-02,1,2\n", panel.ErrParse},
		{"duplicate column", "date,SPY,SPY\n2024-01-02,1,2\n", panel.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestReadCSVPadsShortRows(t *testing.T) {
	t.Parallel()

	tb, err := ReadCSV(strings.NewReader("date,SPY,EEM\n2024-01-02,1\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tb.Len())
	assert.Equal(t, 1.0, tb.At(0, 0))
	assert.True(t, panel.IsMissing(tb.At(0, 1)))
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-01-02", FormatDate(day(1, 2)))
	assert.Equal(t, "2024-01-02T15:30:00Z", FormatDate(time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)))
}

func TestXLSXRoundTrip(t *testing.T) {
	t.Parallel()

	px := sample(t)
	vol, err := panel.NewTable([]time.Time{day(1, 31)}, []string{"SPY"}, [][]float64{{1e6}})
	require.NoError(t, err)

	sheets := SheetsFromMap(map[string]*panel.Table{"PX_VOLUME": vol, "PX_LAST": px})
	require.Len(t, sheets, 2)
	assert.Equal(t, "PX_LAST", sheets[0].Name)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sheets))

	got, err := ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "PX_LAST", got[0].Name)
	assert.True(t, px.Equal(got[0].Table))
	assert.Equal(t, "PX_VOLUME", got[1].Name)
	assert.True(t, vol.Equal(got[1].Table))
}

func TestWriteXLSXErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteXLSX(&buf, nil), panel.ErrShape)
	assert.ErrorIs(t, WriteXLSX(&buf, []Sheet{{Name: "a"}}), panel.ErrShape)
	assert.ErrorIs(t, WriteXLSX(&buf, []Sheet{
		{Name: "a", Table: sample(t)},
		{Name: "a", Table: sample(t)},
	}), panel.ErrConfig)
}
