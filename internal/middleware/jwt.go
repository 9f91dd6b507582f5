package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teacher-roster-api/internal/models"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
	"github.com/noah-isme/teacher-roster-api/pkg/logger"
	"github.com/noah-isme/teacher-roster-api/pkg/response"
)

// Context keys set by JWT for downstream handlers.
const (
	ContextTeacherKey = "currentTeacher"
	ContextClaimsKey  = "currentClaims"
)

// Authenticator resolves a bearer token to its teacher.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Teacher, *models.JWTClaims, error)
}

// JWT protects routes by requiring a valid bearer token for an active teacher.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		teacher, claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextTeacherKey, teacher)
		c.Set(ContextClaimsKey, claims)
		c.Set(logger.ActorKey, teacher.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
