package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeForBoundaries(t *testing.T) {
	cases := map[float64]Grade{
		100: GradeA, 90: GradeA, 89: GradeB, 89.99: GradeB, 80: GradeB, 79: GradeC,
		70: GradeC, 69: GradeD, 60: GradeD, 59: GradeF, 0: GradeF,
	}
	for marks, want := range cases {
		assert.Equal(t, want, GradeFor(marks), "marks=%v", marks)
	}
}

func TestGradeForMonotonic(t *testing.T) {
	severity := map[Grade]int{GradeA: 0, GradeB: 1, GradeC: 2, GradeD: 3, GradeF: 4}
	prev := severity[GradeFor(100)]
	for m := 100.0; m >= 0; m -= 0.5 {
		cur := severity[GradeFor(m)]
		assert.GreaterOrEqual(t, cur, prev, "marks=%v", m)
		prev = cur
	}
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandHigh, BandFor(80))
	assert.Equal(t, BandMedium, BandFor(79.5))
	assert.Equal(t, BandMedium, BandFor(60))
	assert.Equal(t, BandLow, BandFor(59.9))

	band, ok := ParseBand("medium")
	require.True(t, ok)
	assert.True(t, band.Contains(65))
	_, ok = ParseBand("all")
	assert.False(t, ok)
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Equal(t, 0, stats.TotalStudents)
	assert.Equal(t, 0, stats.AvgMarks)
	for _, g := range Grades {
		assert.Equal(t, 0, stats.GradesDistribution[g])
	}
	assert.Equal(t, map[Band]int{BandHigh: 0, BandMedium: 0, BandLow: 0}, stats.PerformanceDistribution)
	assert.NotNil(t, stats.TopPerformers)
	assert.Empty(t, stats.TopPerformers)
	assert.Empty(t, stats.LowPerformers)
}

func TestAggregateDistributionAndMean(t *testing.T) {
	stats := Aggregate([]Scored{
		{Name: "a", Marks: 95},
		{Name: "b", Marks: 85},
		{Name: "c", Marks: 72},
		{Name: "d", Marks: 61},
		{Name: "e", Marks: 30},
		{Name: "f", Marks: 80},
	})

	assert.Equal(t, 6, stats.TotalStudents)
	// 423 / 6 = 70.5 rounds half up
	assert.Equal(t, 71, stats.AvgMarks)
	assert.Equal(t, map[Grade]int{GradeA: 1, GradeB: 2, GradeC: 1, GradeD: 1, GradeF: 1}, stats.GradesDistribution)
	assert.Equal(t, map[Band]int{BandHigh: 3, BandMedium: 2, BandLow: 1}, stats.PerformanceDistribution)
}

func TestAggregateRankingIsStable(t *testing.T) {
	stats := Aggregate([]Scored{
		{Name: "first", Marks: 70},
		{Name: "top", Marks: 99},
		{Name: "second", Marks: 70},
		{Name: "third", Marks: 70},
		{Name: "low", Marks: 10},
		{Name: "fourth", Marks: 70},
		{Name: "fifth", Marks: 70},
	})

	require.Len(t, stats.TopPerformers, RankingSize)
	names := func(ps []Performer) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Name
		}
		return out
	}
	assert.Equal(t, []string{"top", "first", "second", "third", "fourth"}, names(stats.TopPerformers))
	assert.Equal(t, []string{"low", "first", "second", "third", "fourth"}, names(stats.LowPerformers))
	assert.Equal(t, Performer{Name: "top", Marks: 99, Grade: GradeA}, stats.TopPerformers[0])
}

func TestAggregateDoesNotReorderInput(t *testing.T) {
	input := []Scored{{Name: "x", Marks: 10}, {Name: "y", Marks: 90}}
	_ = Aggregate(input)
	assert.Equal(t, "x", input[0].Name)
}
