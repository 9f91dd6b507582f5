package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teacher-roster-api/internal/grading"
	"github.com/noah-isme/teacher-roster-api/internal/models"
	"github.com/noah-isme/teacher-roster-api/internal/service"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
	"github.com/noah-isme/teacher-roster-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, teacherID string, filter models.StudentFilter) (*service.StudentListResult, error)
	Statistics(ctx context.Context, teacherID string) (*grading.Statistics, error)
	Get(ctx context.Context, teacherID, id string) (*models.Student, error)
	Create(ctx context.Context, teacherID string, req service.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, teacherID, id string, req service.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, teacherID, id string) error
}

type rosterService interface {
	Export(ctx context.Context, teacherID string, filter models.StudentFilter, format service.ExportFormat) (*service.ExportResult, error)
	Import(ctx context.Context, teacherID string, r io.Reader) (*service.ImportResult, error)
}

// StudentHandler exposes the acting teacher's roster.
type StudentHandler struct {
	students      studentService
	roster        rosterService
	maxImportSize int64
}

// NewStudentHandler builds the handler. maxImportSize bounds uploaded workbooks in bytes.
func NewStudentHandler(students studentService, roster rosterService, maxImportSize int64) *StudentHandler {
	if maxImportSize <= 0 {
		maxImportSize = 5 << 20
	}
	return &StudentHandler{students: students, roster: roster, maxImportSize: maxImportSize}
}

// List godoc
// @Summary List students
// @Description Filtered roster of the current teacher; statistics always cover the full roster
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or roll number substring"
// @Param filterMarks query string false "high, medium or low"
// @Param sort query string false "name, marks or lastUpdated"
// @Success 200 {object} service.StudentListResult
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}

	res, err := h.students.List(c.Request.Context(), teacher.ID, studentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", gin.H{"count": res.Count, "statistics": res.Statistics, "students": res.Students})
}

// Statistics godoc
// @Summary Roster statistics
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/statistics/overview [get]
func (h *StudentHandler) Statistics(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}

	stats, err := h.students.Statistics(c.Request.Context(), teacher.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", gin.H{"statistics": stats})
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}

	student, err := h.students.Get(c.Request.Context(), teacher.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", gin.H{"student": student})
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}
	var req service.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.students.Create(c.Request.Context(), teacher.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Student created successfully", gin.H{"student": student})
}

// Update godoc
// @Summary Update student
// @Description Partial update; a marks change appends to the performance history
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}
	var req service.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.students.Update(c.Request.Context(), teacher.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student updated successfully", gin.H{"student": student})
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}

	if err := h.students.Delete(c.Request.Context(), teacher.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student deleted successfully", nil)
}

// Export godoc
// @Summary Download roster
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "csv (default), pdf or xlsx"
// @Param search query string false "Name or roll number substring"
// @Param filterMarks query string false "high, medium or low"
// @Param sort query string false "name, marks or lastUpdated"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.roster.Export(c.Request.Context(), teacher.ID, studentFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, res.Filename, res.ContentType, res.Data)
}

// Import godoc
// @Summary Import students from a workbook
// @Description First sheet, header row skipped, columns as in the xlsx export without Grade
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx workbook"
// @Success 201 {object} service.ImportResult
// @Failure 400 {object} response.Envelope
// @Router /students/import [post]
func (h *StudentHandler) Import(c *gin.Context) {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportSize+(1<<20))
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please upload an xlsx workbook in the file field"))
		return
	}
	if header.Size > h.maxImportSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "uploaded file is too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read uploaded file"))
		return
	}
	defer file.Close()

	res, err := h.roster.Import(c.Request.Context(), teacher.ID, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Students imported", gin.H{"imported": res.Imported, "skipped": res.Skipped})
}
