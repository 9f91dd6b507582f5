package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teacher-roster-api/internal/grading"
	"github.com/noah-isme/teacher-roster-api/internal/models"
)

const studentColumns = `id, teacher_id, name, subject, marks, grade, remarks, parent_name, parent_email, parent_phone, roll_number, attendance, last_updated, created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// StudentRepository manages persistence for student records and their performance history.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByTeacher returns the teacher's students matching the filter. History is not loaded.
func (r *StudentRepository) ListByTeacher(ctx context.Context, teacherID string, filter models.StudentFilter) ([]models.Student, error) {
	args := []interface{}{teacherID}
	conditions := []string{"teacher_id = $1"}

	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(roll_number) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}

	switch filter.Band {
	case grading.BandHigh:
		conditions = append(conditions, fmt.Sprintf("marks >= %d", grading.HighBandFloor))
	case grading.BandMedium:
		conditions = append(conditions, fmt.Sprintf("marks >= %d AND marks < %d", grading.MediumBandFloor, grading.HighBandFloor))
	case grading.BandLow:
		conditions = append(conditions, fmt.Sprintf("marks < %d", grading.MediumBandFloor))
	}

	order := "last_updated DESC, id ASC"
	switch filter.Sort {
	case models.SortName:
		order = "name ASC, created_at ASC"
	case models.SortMarks:
		order = "marks DESC, last_updated DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY %s", studentColumns, strings.Join(conditions, " AND "), order)

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListAllByTeacher returns every student the teacher owns in insertion order.
func (r *StudentRepository) ListAllByTeacher(ctx context.Context, teacherID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE teacher_id = $1 ORDER BY created_at ASC, id ASC`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, teacherID); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student with its full performance history, oldest first.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	const historyQuery = `SELECT id, student_id, marks, remarks, recorded_at FROM student_performance_history WHERE student_id = $1 ORDER BY seq ASC`
	history := []models.PerformanceEntry{}
	if err := r.db.SelectContext(ctx, &history, historyQuery, id); err != nil {
		return nil, fmt.Errorf("load performance history: %w", err)
	}
	student.PerformanceHistory = history
	return &student, nil
}

// Create inserts a student together with its seeded performance history.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (err error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	if student.LastUpdated.IsZero() {
		student.LastUpdated = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO students (id, teacher_id, name, subject, marks, grade, remarks, parent_name, parent_email, parent_phone, roll_number, attendance, last_updated, created_at)
        VALUES (:id, :teacher_id, :name, :subject, :marks, :grade, :remarks, :parent_name, :parent_email, :parent_phone, :roll_number, :attendance, :last_updated, :created_at)`
	if _, err = tx.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	for i := range student.PerformanceHistory {
		if err = insertHistory(ctx, tx, student.ID, &student.PerformanceHistory[i]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create student: %w", err)
	}
	return nil
}

// Update replaces the student's mutable fields and appends entry to the history when non-nil.
// Both writes commit together or not at all.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, entry *models.PerformanceEntry) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE students SET name = :name, subject = :subject, marks = :marks, grade = :grade, remarks = :remarks,
        parent_name = :parent_name, parent_email = :parent_email, parent_phone = :parent_phone, roll_number = :roll_number,
        attendance = :attendance, last_updated = :last_updated WHERE id = :id`
	res, err := tx.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if err = requireRow(res); err != nil {
		return err
	}
	if entry != nil {
		if err = insertHistory(ctx, tx, student.ID, entry); err != nil {
			return err
		}
		student.PerformanceHistory = append(student.PerformanceHistory, *entry)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update student: %w", err)
	}
	return nil
}

// Delete removes a student; history rows cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireRow(res)
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, studentID string, entry *models.PerformanceEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	entry.StudentID = studentID
	const query = `INSERT INTO student_performance_history (id, student_id, marks, remarks, recorded_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, query, entry.ID, entry.StudentID, entry.Marks, entry.Remarks, entry.RecordedAt); err != nil {
		return fmt.Errorf("append performance history: %w", err)
	}
	return nil
}
