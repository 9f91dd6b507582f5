package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/teacher-roster-api/internal/grading"
	"github.com/noah-isme/teacher-roster-api/internal/models"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
	"github.com/noah-isme/teacher-roster-api/pkg/validation"
)

const (
	statisticsCachePrefix      = "students:stats:"
	statisticsGenerationPrefix = "students:stats-gen:"
)

type studentRepository interface {
	ListByTeacher(ctx context.Context, teacherID string, filter models.StudentFilter) ([]models.Student, error)
	ListAllByTeacher(ctx context.Context, teacherID string) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student, entry *models.PerformanceEntry) error
	Delete(ctx context.Context, id string) error
}

// CreateStudentRequest holds payload for creating students. It doubles as the rule set
// every stored student must satisfy.
type CreateStudentRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=100"`
	Subject     string   `json:"subject" validate:"required,notblank"`
	Marks       *float64 `json:"marks" validate:"required,gte=0,lte=100"`
	Remarks     string   `json:"remarks" validate:"max=500"`
	ParentName  string   `json:"parentName" validate:"max=100"`
	ParentEmail string   `json:"parentEmail" validate:"omitempty,email"`
	ParentPhone string   `json:"parentPhone" validate:"max=30"`
	RollNumber  string   `json:"rollNumber" validate:"max=50"`
	Attendance  *float64 `json:"attendance" validate:"omitempty,gte=0,lte=100"`
}

// UpdateStudentRequest is a partial update; nil fields are left untouched.
type UpdateStudentRequest struct {
	Name        *string  `json:"name"`
	Subject     *string  `json:"subject"`
	Marks       *float64 `json:"marks"`
	Remarks     *string  `json:"remarks"`
	ParentName  *string  `json:"parentName"`
	ParentEmail *string  `json:"parentEmail"`
	ParentPhone *string  `json:"parentPhone"`
	RollNumber  *string  `json:"rollNumber"`
	Attendance  *float64 `json:"attendance"`
}

// StudentListResult is a filtered roster plus statistics over the whole roster.
type StudentListResult struct {
	Count      int                `json:"count"`
	Statistics grading.Statistics `json:"statistics"`
	Students   []models.Student   `json:"students"`
}

// StudentService handles roster use cases scoped to the acting teacher.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service. cache and metrics may be nil.
func NewStudentService(repo studentRepository, cache *CacheService, metrics *MetricsService, validate *validation.Validator, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns the teacher's filtered roster with statistics over every owned student.
func (s *StudentService) List(ctx context.Context, teacherID string, filter models.StudentFilter) (*StudentListResult, error) {
	students, err := s.repo.ListByTeacher(ctx, teacherID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	for i := range students {
		students[i].PerformanceHistory = nil
	}

	stats, err := s.Statistics(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return &StudentListResult{Count: len(students), Statistics: *stats, Students: students}, nil
}

// Statistics aggregates the teacher's full roster. Cached entries are keyed by the roster
// generation read before loading, so a mutation landing mid-read leaves the stale entry unreachable.
func (s *StudentService) Statistics(ctx context.Context, teacherID string) (*grading.Statistics, error) {
	key := statisticsCacheKey(teacherID, s.cache.Generation(ctx, statisticsGenerationPrefix+teacherID))
	var cached grading.Statistics
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	students, err := s.repo.ListAllByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load statistics")
	}
	stats := grading.Aggregate(models.Scored(students))
	s.cache.Set(ctx, key, stats, 0)
	return &stats, nil
}

// Get returns one owned student with its performance history.
func (s *StudentService) Get(ctx context.Context, teacherID, id string) (*models.Student, error) {
	return s.loadOwned(ctx, teacherID, id)
}

// Create adds a student to the teacher's roster and seeds its history.
func (s *StudentService) Create(ctx context.Context, teacherID string, req CreateStudentRequest) (*models.Student, error) {
	req.ParentEmail = strings.ToLower(strings.TrimSpace(req.ParentEmail))
	if err := s.validator.Struct(req, "please provide name, subject and marks"); err != nil {
		return nil, err
	}

	now := s.now()
	student := &models.Student{
		TeacherID:   teacherID,
		Name:        strings.TrimSpace(req.Name),
		Subject:     strings.TrimSpace(req.Subject),
		Marks:       *req.Marks,
		Grade:       grading.GradeFor(*req.Marks),
		Remarks:     req.Remarks,
		ParentName:  strings.TrimSpace(req.ParentName),
		ParentEmail: req.ParentEmail,
		ParentPhone: strings.TrimSpace(req.ParentPhone),
		RollNumber:  strings.TrimSpace(req.RollNumber),
		LastUpdated: now,
		CreatedAt:   now,
		PerformanceHistory: []models.PerformanceEntry{
			{Marks: *req.Marks, Remarks: req.Remarks, RecordedAt: now},
		},
	}
	if req.Attendance != nil {
		student.Attendance = *req.Attendance
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.afterMutation(ctx, teacherID, "create")
	return student, nil
}

// Update applies a partial update. A marks change appends one history entry carrying the
// remarks as they stand after the update.
func (s *StudentService) Update(ctx context.Context, teacherID, id string, req UpdateStudentRequest) (*models.Student, error) {
	student, err := s.loadOwned(ctx, teacherID, id)
	if err != nil {
		return nil, err
	}

	applyStudentUpdate(student, req)
	if err := s.validator.Struct(toStudentRules(student), "invalid student payload"); err != nil {
		return nil, err
	}

	now := s.now()
	student.LastUpdated = now
	var entry *models.PerformanceEntry
	if req.Marks != nil {
		student.Grade = grading.GradeFor(student.Marks)
		entry = &models.PerformanceEntry{Marks: student.Marks, Remarks: student.Remarks, RecordedAt: now}
	}

	if err := s.repo.Update(ctx, student, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	s.afterMutation(ctx, teacherID, "update")
	return student, nil
}

// Delete removes an owned student and its history.
func (s *StudentService) Delete(ctx context.Context, teacherID, id string) error {
	if _, err := s.loadOwned(ctx, teacherID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.afterMutation(ctx, teacherID, "delete")
	return nil
}

func (s *StudentService) loadOwned(ctx context.Context, teacherID, id string) (*models.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to access this student")
	}
	return student, nil
}

func (s *StudentService) afterMutation(ctx context.Context, teacherID, operation string) {
	s.cache.Bump(ctx, statisticsGenerationPrefix+teacherID)
	s.cache.Invalidate(ctx, statisticsCachePrefix+teacherID+":*")
	s.metrics.RecordStudentMutation(operation, 1)
	s.logger.Debug("student mutated", zap.String("teacher_id", teacherID), zap.String("operation", operation))
}

func statisticsCacheKey(teacherID string, generation int64) string {
	return statisticsCachePrefix + teacherID + ":" + strconv.FormatInt(generation, 10)
}

func applyStudentUpdate(student *models.Student, req UpdateStudentRequest) {
	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subject != nil {
		student.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Marks != nil {
		student.Marks = *req.Marks
	}
	if req.Remarks != nil {
		student.Remarks = *req.Remarks
	}
	if req.ParentName != nil {
		student.ParentName = strings.TrimSpace(*req.ParentName)
	}
	if req.ParentEmail != nil {
		student.ParentEmail = strings.ToLower(strings.TrimSpace(*req.ParentEmail))
	}
	if req.ParentPhone != nil {
		student.ParentPhone = strings.TrimSpace(*req.ParentPhone)
	}
	if req.RollNumber != nil {
		student.RollNumber = strings.TrimSpace(*req.RollNumber)
	}
	if req.Attendance != nil {
		student.Attendance = *req.Attendance
	}
}

func toStudentRules(student *models.Student) CreateStudentRequest {
	marks, attendance := student.Marks, student.Attendance
	return CreateStudentRequest{
		Name:        student.Name,
		Subject:     student.Subject,
		Marks:       &marks,
		Remarks:     student.Remarks,
		ParentName:  student.ParentName,
		ParentEmail: student.ParentEmail,
		ParentPhone: student.ParentPhone,
		RollNumber:  student.RollNumber,
		Attendance:  &attendance,
	}
}
