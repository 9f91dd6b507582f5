// Package grading maps marks to letter grades and summarises a roster.
// Everything here is pure; callers validate marks before they arrive.
package grading

import (
	"math"
	"sort"
)

// Grade is a letter grade derived from marks.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}

// Band is a coarse performance bucket.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Lower bounds, inclusive, of the high and medium bands.
const (
	HighBandFloor   = 80
	MediumBandFloor = 60
)

// RankingSize is the length of the top and bottom performer lists.
const RankingSize = 5

// GradeFor returns the letter grade for marks.
func GradeFor(marks float64) Grade {
	switch {
	case marks >= 90:
		return GradeA
	case marks >= 80:
		return GradeB
	case marks >= 70:
		return GradeC
	case marks >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// BandFor returns the performance band for marks.
func BandFor(marks float64) Band {
	switch {
	case marks >= HighBandFloor:
		return BandHigh
	case marks >= MediumBandFloor:
		return BandMedium
	default:
		return BandLow
	}
}

// ParseBand accepts high, medium or low.
func ParseBand(raw string) (Band, bool) {
	switch b := Band(raw); b {
	case BandHigh, BandMedium, BandLow:
		return b, true
	default:
		return "", false
	}
}

// Contains reports whether marks fall inside the band.
func (b Band) Contains(marks float64) bool {
	return BandFor(marks) == b
}

// Scored is the minimal view of a student the engine needs.
type Scored struct {
	Name  string
	Marks float64
}

// Performer is a ranked entry.
type Performer struct {
	Name  string  `json:"name"`
	Marks float64 `json:"marks"`
	Grade Grade   `json:"grade"`
}

// Statistics summarises a set of students.
type Statistics struct {
	TotalStudents           int           `json:"totalStudents"`
	AvgMarks                int           `json:"avgMarks"`
	GradesDistribution      map[Grade]int `json:"gradesDistribution"`
	PerformanceDistribution map[Band]int  `json:"performanceDistribution"`
	TopPerformers           []Performer   `json:"topPerformers"`
	LowPerformers           []Performer   `json:"lowPerformers"`
}

// Aggregate computes statistics over students. Ties in the rankings keep input order.
func Aggregate(students []Scored) Statistics {
	stats := Statistics{
		TotalStudents:           len(students),
		GradesDistribution:      make(map[Grade]int, len(Grades)),
		PerformanceDistribution: map[Band]int{BandHigh: 0, BandMedium: 0, BandLow: 0},
	}
	for _, g := range Grades {
		stats.GradesDistribution[g] = 0
	}

	var sum float64
	for _, s := range students {
		sum += s.Marks
		stats.GradesDistribution[GradeFor(s.Marks)]++
		stats.PerformanceDistribution[BandFor(s.Marks)]++
	}
	if len(students) > 0 {
		stats.AvgMarks = int(math.Round(sum / float64(len(students))))
	}

	stats.TopPerformers = rank(students, func(a, b float64) bool { return a > b })
	stats.LowPerformers = rank(students, func(a, b float64) bool { return a < b })
	return stats
}

func rank(students []Scored, before func(a, b float64) bool) []Performer {
	ordered := make([]Scored, len(students))
	copy(ordered, students)
	sort.SliceStable(ordered, func(i, j int) bool {
		return before(ordered[i].Marks, ordered[j].Marks)
	})

	n := len(ordered)
	if n > RankingSize {
		n = RankingSize
	}
	out := make([]Performer, 0, n)
	for _, s := range ordered[:n] {
		out = append(out, Performer{Name: s.Name, Marks: s.Marks, Grade: GradeFor(s.Marks)})
	}
	return out
}
