package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teacher-roster-api/internal/grading"
	"github.com/noah-isme/teacher-roster-api/internal/middleware"
	"github.com/noah-isme/teacher-roster-api/internal/models"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
	"github.com/noah-isme/teacher-roster-api/pkg/response"
)

// teacherFromContext returns the authenticated teacher, writing a 401 when absent.
func teacherFromContext(c *gin.Context) (*models.Teacher, bool) {
	value, exists := c.Get(middleware.ContextTeacherKey)
	if teacher, ok := value.(*models.Teacher); exists && ok && teacher != nil {
		return teacher, true
	}
	response.Error(c, appErrors.ErrUnauthorized)
	return nil, false
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

// studentFilterFromQuery reads search, filterMarks and sort. Unknown values mean no filter
// and default ordering.
func studentFilterFromQuery(c *gin.Context) models.StudentFilter {
	band, _ := grading.ParseBand(c.Query("filterMarks"))
	return models.StudentFilter{
		Search: c.Query("search"),
		Band:   band,
		Sort:   models.ParseStudentSort(c.Query("sort")),
	}
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
		appErr.Details = []string{err.Error()}
		response.Error(c, appErr)
		return false
	}
	return true
}
