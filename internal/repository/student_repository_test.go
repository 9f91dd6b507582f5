package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teacher-roster-api/internal/grading"
	"github.com/noah-isme/teacher-roster-api/internal/models"
)

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "teacher_id", "name", "subject", "marks", "grade", "remarks", "parent_name", "parent_email", "parent_phone", "roll_number", "attendance", "last_updated", "created_at"})
}

func TestStudentRepositoryListByTeacherDefault(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := studentRows().AddRow("s1", "t1", "Bo", "Math", 85.0, "B", "", "", "", "", "R1", 90.0, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + studentColumns + " FROM students WHERE teacher_id = $1 ORDER BY last_updated DESC, id ASC")).
		WithArgs("t1").
		WillReturnRows(rows)

	students, err := repo.ListByTeacher(context.Background(), "t1", models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, grading.GradeB, students[0].Grade)
	assert.Nil(t, students[0].PerformanceHistory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByTeacherFilters(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	expected := "SELECT " + studentColumns + " FROM students WHERE teacher_id = $1 AND (LOWER(name) LIKE $2 OR LOWER(roll_number) LIKE $2) AND marks >= 60 AND marks < 80 ORDER BY name ASC, created_at ASC"
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs("t1", `%a\_b%`).
		WillReturnRows(studentRows())

	students, err := repo.ListByTeacher(context.Background(), "t1", models.StudentFilter{Search: " A_b ", Band: grading.BandMedium, Sort: models.SortName})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NotNil(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByTeacherMarksSort(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE teacher_id = $1 AND marks < 60 ORDER BY marks DESC, last_updated DESC")).
		WithArgs("t1").
		WillReturnRows(studentRows())

	_, err := repo.ListByTeacher(context.Background(), "t1", models.StudentFilter{Band: grading.BandLow, Sort: models.SortMarks})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDLoadsHistory(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + studentColumns + " FROM students WHERE id = $1")).
		WithArgs("s1").
		WillReturnRows(studentRows().AddRow("s1", "t1", "Bo", "Math", 72.0, "C", "ok", "", "", "", "", 0.0, now, now))
	mock.ExpectQuery("FROM student_performance_history WHERE student_id = \\$1 ORDER BY seq ASC").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "marks", "remarks", "recorded_at"}).
			AddRow("h1", "s1", 65.0, "", now.Add(-time.Hour)).
			AddRow("h2", "s1", 72.0, "ok", now))

	student, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, student.PerformanceHistory, 2)
	assert.Equal(t, 65.0, student.PerformanceHistory[0].Marks)
	assert.Equal(t, "ok", student.PerformanceHistory[1].Remarks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students WHERE id = \\$1").WithArgs("nope").WillReturnRows(studentRows())

	_, err := repo.FindByID(context.Background(), "nope")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateSeedsHistory(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_performance_history").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 88.0, "great", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	student := &models.Student{
		TeacherID:          "t1",
		Name:               "Bo",
		Subject:            "Math",
		Marks:              88,
		Grade:              grading.GradeB,
		Remarks:            "great",
		PerformanceHistory: []models.PerformanceEntry{{Marks: 88, Remarks: "great"}},
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, student.ID, student.PerformanceHistory[0].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateRollsBackOnHistoryFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO student_performance_history").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	student := &models.Student{ID: "s1", Marks: 91, Grade: grading.GradeA}
	err := repo.Update(context.Background(), student, &models.PerformanceEntry{Marks: 91})
	require.Error(t, err)
	assert.Empty(t, student.PerformanceHistory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateWithoutEntry(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), &models.Student{ID: "s1", Name: "Bo"}, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.Equal(t, sql.ErrNoRows, repo.Delete(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
