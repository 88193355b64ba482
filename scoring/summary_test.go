package scoring

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCourse is a par 72 with stroke indices in hole order.
func testCourse() CourseCard {
	return CourseCard{
		Pars:          [HoleCount]int{4, 4, 3, 5, 4, 4, 3, 5, 4, 4, 4, 3, 5, 4, 4, 3, 5, 4},
		StrokeIndices: inOrder(),
		SlopeRating:   128,
	}
}

func fill(v int) [HoleCount]int {
	var a [HoleCount]int
	for i := range a {
		a[i] = v
	}
	return a
}

func TestStablefordPoints(t *testing.T) {
	tests := []struct {
		net, par, want int
	}{
		{net: 2, par: 4, want: 4},
		{net: 3, par: 4, want: 3},
		{net: 4, par: 4, want: 2},
		{net: 5, par: 4, want: 1},
		{net: 6, par: 4, want: 0},
		{net: 9, par: 4, want: 0},
		{net: 1, par: 4, want: 5},
		{net: 2, par: 3, want: 3},
		{net: -1, par: 3, want: 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StablefordPoints(tt.net, tt.par), "net %d par %d", tt.net, tt.par)
	}
}

func TestStablefordPoints_NonIncreasing(t *testing.T) {
	for par := 3; par <= 5; par++ {
		prev := StablefordPoints(-5, par)
		for net := -4; net <= 20; net++ {
			got := StablefordPoints(net, par)
			require.LessOrEqual(t, got, prev, "par %d net %d", par, net)
			prev = got
		}
	}
}

func TestSummarize_FullRound(t *testing.T) {
	course := testCourse()
	alloc, err := AllocateStrokes(10, course.StrokeIndices)
	require.NoError(t, err)

	// gross = par + 1 everywhere: net par on the ten stroke holes, net bogey elsewhere.
	var gross [HoleCount]int
	for i, p := range course.Pars {
		gross[i] = p + 1
	}

	s, err := Summarize(gross, course.Pars, alloc.PerHole)
	require.NoError(t, err)

	assert.True(t, s.Complete())
	require.NoError(t, s.RequireComplete())
	assert.Equal(t, 45, s.GrossFront9)
	assert.Equal(t, 45, s.GrossBack9)
	assert.Equal(t, 90, s.GrossTotal)
	assert.Equal(t, 36, s.NetFront9)
	assert.Equal(t, 44, s.NetBack9)
	assert.Equal(t, 80, s.NetTotal)
	assert.Equal(t, 18, s.StablefordFront9)
	assert.Equal(t, 10, s.StablefordBack9)
	assert.Equal(t, 28, s.StablefordTotal)
	assert.Equal(t, s.GrossTotal-alloc.Total(), s.NetTotal)

	assert.Equal(t, HoleResult{Hole: 1, Par: 4, Gross: 5, Strokes: 1, Net: 4, Points: 2, Played: true}, s.Holes[0])
	assert.Equal(t, HoleResult{Hole: 18, Par: 4, Gross: 5, Strokes: 0, Net: 5, Points: 1, Played: true}, s.Holes[17])
}

func TestSummarize_UnplayedHolesExcluded(t *testing.T) {
	course := testCourse()
	alloc, err := AllocateStrokes(18, course.StrokeIndices)
	require.NoError(t, err)

	gross := course.Pars
	gross[9] = 0
	gross[17] = 0

	s, err := Summarize(gross, course.Pars, alloc.PerHole)
	require.NoError(t, err)

	assert.Equal(t, 16, s.HolesPlayed)
	assert.False(t, s.Complete())
	require.ErrorIs(t, s.RequireComplete(), ErrIncompleteData)
	assert.Equal(t, 72-8, s.GrossTotal)
	assert.Equal(t, 72-8-16, s.NetTotal)
	assert.Equal(t, 16*3, s.StablefordTotal)
	assert.False(t, s.Holes[9].Played)
	assert.Zero(t, s.Holes[9].Points)
	assert.Zero(t, s.Holes[9].Net)
}

func TestSummarizeFinalized_ZeroCountsAsEntered(t *testing.T) {
	course := testCourse()
	alloc, err := AllocateStrokes(18, course.StrokeIndices)
	require.NoError(t, err)

	gross := course.Pars
	gross[0] = 0

	s, err := SummarizeFinalized(gross, course.Pars, alloc.PerHole)
	require.NoError(t, err)

	assert.True(t, s.Complete())
	assert.Equal(t, 68, s.GrossTotal)
	assert.Equal(t, 68-18, s.NetTotal, "net stays gross minus every allocated stroke")
	assert.Equal(t, 17*3, s.StablefordTotal, "zero gross never scores points")
	assert.True(t, s.Holes[0].Played)
	assert.Zero(t, s.Holes[0].Points)
}

func TestSummarize_NegativeGross(t *testing.T) {
	course := testCourse()
	gross := course.Pars
	gross[4] = -1

	_, err := Summarize(gross, course.Pars, [HoleCount]int{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = SummarizeFinalized(gross, course.Pars, [HoleCount]int{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummarize_HighScoresAccepted(t *testing.T) {
	course := testCourse()
	s, err := Summarize(fill(17), course.Pars, [HoleCount]int{})
	require.NoError(t, err)
	assert.Equal(t, 17*18, s.GrossTotal)
	assert.Zero(t, s.StablefordTotal)
}

func TestSummarize_Properties(t *testing.T) {
	faker := gofakeit.New(2024)
	course := testCourse()

	for range 200 {
		si := inOrder()
		faker.ShuffleAnySlice(si[:])
		alloc, err := AllocateStrokes(faker.Number(-4, 40), si)
		require.NoError(t, err)

		var gross [HoleCount]int
		for i := range gross {
			gross[i] = faker.Number(1, 12)
		}

		first, err := Summarize(gross, course.Pars, alloc.PerHole)
		require.NoError(t, err)
		second, err := Summarize(gross, course.Pars, alloc.PerHole)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("Summarize not idempotent (-first +second):\n%s", diff)
		}
		require.Equal(t, first.GrossTotal-(alloc.Front9+alloc.Back9), first.NetTotal)
		require.Equal(t, first.GrossFront9-alloc.Front9, first.NetFront9)
		require.Equal(t, first.GrossBack9-alloc.Back9, first.NetBack9)
	}
}
