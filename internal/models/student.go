package models

import (
	"time"

	"github.com/noah-isme/teacher-roster-api/internal/grading"
)

// Student is a learner on a teacher's roster.
type Student struct {
	ID          string        `db:"id" json:"id"`
	TeacherID   string        `db:"teacher_id" json:"teacher"`
	Name        string        `db:"name" json:"name"`
	Subject     string        `db:"subject" json:"subject"`
	Marks       float64       `db:"marks" json:"marks"`
	Grade       grading.Grade `db:"grade" json:"grade"`
	Remarks     string        `db:"remarks" json:"remarks"`
	ParentName  string        `db:"parent_name" json:"parentName"`
	ParentEmail string        `db:"parent_email" json:"parentEmail"`
	ParentPhone string        `db:"parent_phone" json:"parentPhone"`
	RollNumber  string        `db:"roll_number" json:"rollNumber"`
	Attendance  float64       `db:"attendance" json:"attendance"`
	LastUpdated time.Time     `db:"last_updated" json:"lastUpdated"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`

	PerformanceHistory []PerformanceEntry `db:"-" json:"performanceHistory,omitempty"`
}

// PerformanceEntry is one append-only snapshot of marks and remarks.
type PerformanceEntry struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"-"`
	Marks      float64   `db:"marks" json:"marks"`
	Remarks    string    `db:"remarks" json:"remarks"`
	RecordedAt time.Time `db:"recorded_at" json:"date"`
}

// StudentSort names the supported list orderings.
type StudentSort string

const (
	SortLastUpdated StudentSort = "lastUpdated"
	SortName        StudentSort = "name"
	SortMarks       StudentSort = "marks"
)

// ParseStudentSort maps a query value to a sort; unknown values fall back to lastUpdated.
func ParseStudentSort(raw string) StudentSort {
	switch s := StudentSort(raw); s {
	case SortName, SortMarks:
		return s
	default:
		return SortLastUpdated
	}
}

// StudentFilter narrows a teacher's roster listing.
type StudentFilter struct {
	Search string
	Band   grading.Band
	Sort   StudentSort
}

// Scored reduces students to the grading engine's input.
func Scored(students []Student) []grading.Scored {
	out := make([]grading.Scored, len(students))
	for i, s := range students {
		out[i] = grading.Scored{Name: s.Name, Marks: s.Marks}
	}
	return out
}
