package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sixWeeks is two assets over Mon 1 Jan - Fri 9 Feb 2024 with EEM missing
// the final week.
func sixWeeks() *Table {
	idx := weekdays(day(2024, 1, 1), day(2024, 2, 9))
	lastWeek := day(2024, 2, 5)
	rows := make([][]float64, len(idx))
	for i, d := range idx {
		eem := 50 + float64(i)
		if !d.Before(lastWeek) {
			eem = nan
		}
		rows[i] = []float64{100 + float64(i), eem}
	}
	return MustTable(idx, []string{"SPY", "EEM"}, rows)
}

func TestBuildWeeklyOuterForward(t *testing.T) {
	t.Parallel()

	mp, err := Build(sixWeeks(), Options{Frequency: Weekly, Align: Outer, Fill: Forward})
	require.NoError(t, err)

	p := mp.Prices()
	require.Equal(t, 6, p.Len())

	fridays := []time.Time{
		day(2024, 1, 5), day(2024, 1, 12), day(2024, 1, 19),
		day(2024, 1, 26), day(2024, 2, 2), day(2024, 2, 9),
	}
	assert.Equal(t, fridays, p.Index())

	eem, _ := p.Column("EEM")
	assert.Equal(t, eem[4], eem[5])
	assert.Equal(t, 50.0+24, eem[4]) // Fri 2 Feb is the 25th weekday

	spy, _ := p.Column("SPY")
	assert.Equal(t, 100.0+29, spy[5])

	assert.Equal(t, Weekly, mp.Frequency())
	assert.Equal(t, Outer, mp.Align())
	assert.Equal(t, Forward, mp.Fill())
}

func TestBuildWeeklyInnerDropsIncompleteWeek(t *testing.T) {
	t.Parallel()

	mp, err := Build(sixWeeks(), Options{Frequency: Weekly, Align: Inner})
	require.NoError(t, err)
	assert.Equal(t, 5, mp.Prices().Len())
}

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	mp, err := Build(sixWeeks(), Options{})
	require.NoError(t, err)

	assert.Equal(t, Monthly, mp.Frequency())
	assert.Equal(t, Inner, mp.Align())
	assert.Equal(t, Forward, mp.Fill())

	// EEM still has 1-2 Feb, so February survives inner alignment.
	assert.Equal(t, []time.Time{day(2024, 1, 31), day(2024, 2, 29)}, mp.Prices().Index())
}

func TestBuildAcceptsAliases(t *testing.T) {
	t.Parallel()

	mp, err := Build(sixWeeks(), Options{Frequency: "W", Align: "outer", Fill: "ffill"})
	require.NoError(t, err)
	assert.Equal(t, Weekly, mp.Frequency())
	assert.Equal(t, Forward, mp.Fill())
}

func TestBuildSortedAndUnique(t *testing.T) {
	t.Parallel()

	in := MustTable(
		[]time.Time{day(2024, 1, 5), day(2024, 1, 3), day(2024, 1, 5), day(2024, 1, 4), day(2024, 1, 3)},
		[]string{"A"},
		[][]float64{{5}, {3}, {55}, {4}, {33}},
	)
	mp, err := Build(in, Options{Frequency: Daily, Align: Outer, Fill: NoFill})
	require.NoError(t, err)

	p := mp.Prices()
	require.Equal(t, 3, p.Len())
	for i := 1; i < p.Len(); i++ {
		assert.True(t, p.Time(i-1).Before(p.Time(i)))
	}
	a, _ := p.Column("A")
	assert.Equal(t, []float64{33, 4, 55}, a)
}

func TestBuildTrimsBeforeResampling(t *testing.T) {
	t.Parallel()

	idx := weekdays(day(2024, 1, 1), day(2024, 1, 31))
	rows := make([][]float64, len(idx))
	for i := range rows {
		rows[i] = []float64{float64(i + 1)}
	}
	in := MustTable(idx, []string{"A"}, rows)

	mp, err := Build(in, Options{Frequency: Monthly, End: "2024-01-15"})
	require.NoError(t, err)

	p := mp.Prices()
	require.Equal(t, 1, p.Len())
	assert.True(t, p.Time(0).Equal(day(2024, 1, 31)))
	assert.Equal(t, 11.0, p.At(0, 0)) // Mon 15 Jan is the 11th weekday
}

func TestBuildStandardizesColumns(t *testing.T) {
	t.Parallel()

	mp, err := Build(sixWeeks(), Options{
		Frequency: Weekly,
		Align:     Outer,
		Fill:      NoFill,
		Columns:   []string{"EEM", "GLD"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"EEM", "GLD"}, mp.Prices().Columns())

	gld, _ := mp.Prices().Column("GLD")
	for _, v := range gld {
		assert.True(t, IsMissing(v))
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *Table
		opts Options
		kind error
	}{
		{"bad frequency", sixWeeks(), Options{Frequency: "hourly"}, ErrConfig},
		{"bad align", sixWeeks(), Options{Align: "cross"}, ErrConfig},
		{"bad fill on outer", sixWeeks(), Options{Align: Outer, Fill: "zero"}, ErrConfig},
		{"bad start", sixWeeks(), Options{Start: "yesterday"}, ErrParse},
		{"nil table", nil, Options{}, ErrShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp, err := Build(tt.in, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Nil(t, mp.Prices())
		})
	}
}

func TestBuildBadFillOnInnerIsIgnored(t *testing.T) {
	t.Parallel()

	mp, err := Build(sixWeeks(), Options{Align: Inner, Fill: "zero"})
	require.NoError(t, err)
	assert.Equal(t, FillMethod("zero"), mp.Fill())
}

func TestBuildDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	in := sixWeeks()
	before := in.clone()
	_, err := Build(in, Options{Frequency: Weekly, Align: Outer, Fill: Backward})
	require.NoError(t, err)
	assert.True(t, before.Equal(in))
}
