package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staggered has A starting late, B ending early and a hole in the middle.
func staggered() *Table {
	return MustTable(
		[]time.Time{
			day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3),
			day(2024, 1, 4), day(2024, 1, 5),
		},
		[]string{"A", "B"},
		[][]float64{
			{nan, 10},
			{2, 20},
			{nan, nan},
			{4, nan},
			{5, nan},
		},
	)
}

func TestAlignInner(t *testing.T) {
	t.Parallel()

	in := staggered()
	out, err := Align(in, Inner, Forward)
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.True(t, out.Time(0).Equal(day(2024, 1, 2)))

	cleaned, err := CleanIndex(in)
	require.NoError(t, err)
	for i := 0; i < out.Len(); i++ {
		_, ok := cleaned.Value(out.Time(i), "A")
		assert.True(t, ok, "inner row must come from the input")
		for _, v := range out.Row(i) {
			assert.False(t, IsMissing(v))
		}
	}
}

func TestAlignInnerIgnoresFill(t *testing.T) {
	t.Parallel()

	out, err := Align(staggered(), Inner, FillMethod("sideways"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestAlignOuterForward(t *testing.T) {
	t.Parallel()

	out, err := Align(staggered(), Outer, Forward)
	require.NoError(t, err)

	want := MustTable(
		[]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 4), day(2024, 1, 5)},
		[]string{"A", "B"},
		[][]float64{
			{nan, 10},
			{2, 20},
			{4, 20},
			{5, 20},
		},
	)
	assert.True(t, want.Equal(out), "got %v", out.values)
}

func TestAlignOuterForwardCoverage(t *testing.T) {
	t.Parallel()

	idx := weekdays(day(2024, 1, 1), day(2024, 1, 31))
	rows := make([][]float64, len(idx))
	for i := range rows {
		rows[i] = []float64{nan, float64(i)}
	}
	rows[3][0] = 33
	rows[9][0] = 99

	out, err := Align(MustTable(idx, []string{"A", "B"}, rows), Outer, Forward)
	require.NoError(t, err)

	a, _ := out.Column("A")
	for i := range a {
		switch {
		case i < 3:
			assert.True(t, IsMissing(a[i]))
		case i < 9:
			assert.Equal(t, 33.0, a[i])
		default:
			assert.Equal(t, 99.0, a[i])
		}
	}
}

func TestAlignOuterBackward(t *testing.T) {
	t.Parallel()

	out, err := Align(staggered(), Outer, Backward)
	require.NoError(t, err)

	want := MustTable(
		[]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 4), day(2024, 1, 5)},
		[]string{"A", "B"},
		[][]float64{
			{2, 10},
			{2, 20},
			{4, nan},
			{5, nan},
		},
	)
	assert.True(t, want.Equal(out), "got %v", out.values)
}

func TestAlignOuterNoFill(t *testing.T) {
	t.Parallel()

	out, err := Align(staggered(), Outer, NoFill)
	require.NoError(t, err)

	// all-missing 3 Jan is gone, partial rows stay
	require.Equal(t, 4, out.Len())
	assert.True(t, IsMissing(out.At(0, 0)))
	assert.True(t, IsMissing(out.At(2, 1)))
}

func TestAlignErrors(t *testing.T) {
	t.Parallel()

	_, err := Align(staggered(), Outer, FillMethod("sideways"))
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Align(staggered(), AlignMode("left"), Forward)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Align(nil, Outer, Forward)
	assert.ErrorIs(t, err, ErrShape)
}
