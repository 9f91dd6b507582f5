package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/teacher-roster-api/internal/models"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
	"github.com/noah-isme/teacher-roster-api/pkg/export"
)

// ExportFormat names a roster download format.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
)

var contentTypes = map[ExportFormat]string{
	FormatCSV:  "text/csv",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var rosterHeaders = []string{
	"Roll Number", "Name", "Subject", "Marks", "Grade", "Attendance",
	"Remarks", "Parent Name", "Parent Email", "Parent Phone",
}

// requiredImportColumns must appear in an import header row. Other known columns are
// optional and unknown ones, such as the derived Grade, are ignored.
var requiredImportColumns = []string{"Name", "Subject", "Marks"}

type rosterStudents interface {
	List(ctx context.Context, teacherID string, filter models.StudentFilter) (*StudentListResult, error)
	Create(ctx context.Context, teacherID string, req CreateStudentRequest) (*models.Student, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// ExportResult is a rendered roster ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImportSkip explains why a spreadsheet row was not imported.
type ImportSkip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Imported int          `json:"imported"`
	Skipped  []ImportSkip `json:"skipped"`
}

// RosterService moves a teacher's roster in and out of files.
type RosterService struct {
	students rosterStudents
	csv      csvRenderer
	pdf      pdfRenderer
	xlsx     xlsxRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewRosterService constructs a RosterService. Nil renderers fall back to the pkg/export defaults.
func NewRosterService(students rosterStudents, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &RosterService{
		students: students,
		csv:      csv,
		pdf:      pdf,
		xlsx:     xlsx,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ParseExportFormat validates a format query value; empty means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		return FormatCSV, nil
	}
	if _, ok := contentTypes[format]; !ok {
		err := appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
		err.Details = []string{"format must be one of csv, pdf, xlsx"}
		return "", err
	}
	return format, nil
}

// Export renders the teacher's filtered roster in the requested format.
func (s *RosterService) Export(ctx context.Context, teacherID string, filter models.StudentFilter, format ExportFormat) (*ExportResult, error) {
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	list, err := s.students.List(ctx, teacherID, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(list.Students))}
	for _, st := range list.Students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Roll Number":  st.RollNumber,
			"Name":         st.Name,
			"Subject":      st.Subject,
			"Marks":        formatNumber(st.Marks),
			"Grade":        string(st.Grade),
			"Attendance":   formatNumber(st.Attendance),
			"Remarks":      st.Remarks,
			"Parent Name":  st.ParentName,
			"Parent Email": st.ParentEmail,
			"Parent Phone": st.ParentPhone,
		})
	}

	var data []byte
	switch format {
	case FormatPDF:
		data, err = s.pdf.Render(dataset, "Student Roster")
	case FormatXLSX:
		data, err = s.xlsx.Render(dataset, "Students")
	default:
		data, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("students-%s.%s", s.now().Format("20060102-150405"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Import creates one student per spreadsheet row after the header. Columns are matched by
// header name, so a workbook produced by Export imports as is. Rows failing validation are
// skipped and reported; any other failure aborts the import.
func (s *RosterService) Import(ctx context.Context, teacherID string, r io.Reader) (*ImportResult, error) {
	rows, err := export.ReadXLSXRows(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file is not a readable xlsx workbook")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook has no header row")
	}
	layout, err := parseImportHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Skipped: []ImportSkip{}}
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		rowNumber := i + 1

		req, reason := layout.parse(row)
		if reason != "" {
			result.Skipped = append(result.Skipped, ImportSkip{Row: rowNumber, Reason: reason})
			continue
		}

		if _, err := s.students.Create(ctx, teacherID, req); err != nil {
			var appErr *appErrors.Error
			if errors.As(err, &appErr) && appErr.Code == appErrors.ErrValidation.Code {
				reason := appErr.Message
				if len(appErr.Details) > 0 {
					reason = strings.Join(appErr.Details, "; ")
				}
				result.Skipped = append(result.Skipped, ImportSkip{Row: rowNumber, Reason: reason})
				continue
			}
			return nil, err
		}
		result.Imported++
	}

	s.logger.Info("roster imported",
		zap.String("teacher_id", teacherID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// importLayout maps a lower-cased header name to its column index.
type importLayout map[string]int

func parseImportHeader(header []string) (importLayout, error) {
	layout := importLayout{}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := layout[key]; key != "" && !seen {
			layout[key] = i
		}
	}

	var missing []string
	for _, column := range requiredImportColumns {
		if _, ok := layout[strings.ToLower(column)]; !ok {
			missing = append(missing, fmt.Sprintf("header row is missing the %q column", column))
		}
	}
	if len(missing) > 0 {
		err := appErrors.Clone(appErrors.ErrValidation, "workbook header does not match the roster layout")
		err.Details = missing
		return nil, err
	}
	return layout, nil
}

func (l importLayout) parse(row []string) (CreateStudentRequest, string) {
	cell := func(column string) string {
		i, ok := l[strings.ToLower(column)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	req := CreateStudentRequest{
		Name:        cell("Name"),
		Subject:     cell("Subject"),
		Remarks:     cell("Remarks"),
		ParentName:  cell("Parent Name"),
		ParentEmail: cell("Parent Email"),
		ParentPhone: cell("Parent Phone"),
		RollNumber:  cell("Roll Number"),
	}

	if raw := cell("Marks"); raw != "" {
		marks, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, "marks must be a number"
		}
		req.Marks = &marks
	}
	if raw := cell("Attendance"); raw != "" {
		attendance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, "attendance must be a number"
		}
		req.Attendance = &attendance
	}
	return req, ""
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
