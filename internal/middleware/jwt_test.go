package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teacher-roster-api/internal/models"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
	"github.com/noah-isme/teacher-roster-api/pkg/logger"
)

type fakeAuthenticator struct {
	teacher *models.Teacher
	err     error
	token   string
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (*models.Teacher, *models.JWTClaims, error) {
	f.token = token
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.teacher, &models.JWTClaims{TeacherID: f.teacher.ID}, nil
}

func newProtectedRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", JWT(auth), func(c *gin.Context) {
		teacher := c.MustGet(ContextTeacherKey).(*models.Teacher)
		c.JSON(http.StatusOK, gin.H{"id": teacher.ID, "actor": c.GetString(logger.ActorKey)})
	})
	return r
}

func TestJWTRejectsMissingOrMalformedHeader(t *testing.T) {
	r := newProtectedRouter(&fakeAuthenticator{teacher: &models.Teacher{ID: "t1"}})

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	}
}

func TestJWTPassesTeacherDownstream(t *testing.T) {
	auth := &fakeAuthenticator{teacher: &models.Teacher{ID: "t1"}}
	r := newProtectedRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "bearer tok-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-123", auth.token)
	assert.JSONEq(t, `{"id":"t1","actor":"t1"}`, w.Body.String())
}

func TestJWTPropagatesAuthenticatorStatus(t *testing.T) {
	r := newProtectedRouter(&fakeAuthenticator{err: appErrors.ErrInactiveAccount})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_DEACTIVATED")
}
