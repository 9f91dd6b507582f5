package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teacher-roster-api/internal/middleware"
	"github.com/noah-isme/teacher-roster-api/internal/models"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
)

type fakeAuthSrv struct {
	result        *models.AuthResult
	err           error
	teacher       *models.Teacher
	lastRegister  models.RegisterRequest
	lastProfile   models.UpdateProfileRequest
	lastPassword  models.ChangePasswordRequest
	loggedOut     *models.JWTClaims
	lastTeacherID string
}

func (f *fakeAuthSrv) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	f.lastRegister = req
	return f.result, f.err
}

func (f *fakeAuthSrv) Login(context.Context, models.LoginRequest) (*models.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuthSrv) Logout(_ context.Context, claims *models.JWTClaims) error {
	f.loggedOut = claims
	return f.err
}

func (f *fakeAuthSrv) Me(_ context.Context, teacherID string) (*models.Teacher, error) {
	f.lastTeacherID = teacherID
	return f.teacher, f.err
}

func (f *fakeAuthSrv) UpdateProfile(_ context.Context, teacherID string, req models.UpdateProfileRequest) (*models.Teacher, error) {
	f.lastTeacherID = teacherID
	f.lastProfile = req
	return f.teacher, f.err
}

func (f *fakeAuthSrv) ChangePassword(_ context.Context, teacherID string, req models.ChangePasswordRequest) error {
	f.lastTeacherID = teacherID
	f.lastPassword = req
	return f.err
}

func newJSONContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func withTeacher(c *gin.Context, id string) {
	c.Set(middleware.ContextTeacherKey, &models.Teacher{ID: id, Name: "Ada", Email: "ada@example.com", Active: true, Role: models.RoleTeacher})
	c.Set(middleware.ContextClaimsKey, &models.JWTClaims{TeacherID: id})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthHandlerRegister(t *testing.T) {
	srv := &fakeAuthSrv{result: &models.AuthResult{Token: "tok", Teacher: models.TeacherProfile{ID: "t1", Email: "ada@example.com"}}}
	handler := NewAuthHandler(srv)

	c, rec := newJSONContext(http.MethodPost, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"secret1","subject":"Math"}`)
	handler.Register(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "t1", body["teacher"].(map[string]interface{})["id"])
	assert.Equal(t, "Math", srv.lastRegister.Subject)
}

func TestAuthHandlerRegisterDuplicate(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{err: appErrors.ErrDuplicateEmail})

	c, rec := newJSONContext(http.MethodPost, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"secret1","subject":"Math"}`)
	handler.Register(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, body["code"])
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":`)
	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeBody(t, rec)["code"])
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{err: appErrors.ErrInvalidCredentials})

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email or password", decodeBody(t, rec)["message"])
}

func TestAuthHandlerMeRequiresTeacher(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})

	c, rec := newJSONContext(http.MethodGet, "/auth/me", "")
	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerMeOmitsPasswordHash(t *testing.T) {
	srv := &fakeAuthSrv{teacher: &models.Teacher{ID: "t1", Name: "Ada", PasswordHash: "$2a$secret", Active: true}}
	handler := NewAuthHandler(srv)

	c, rec := newJSONContext(http.MethodGet, "/auth/me", "")
	withTeacher(c, "t1")
	handler.Me(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Equal(t, "t1", srv.lastTeacherID)
	assert.Equal(t, true, decodeBody(t, rec)["teacher"].(map[string]interface{})["isActive"])
}

func TestAuthHandlerLogoutPassesClaims(t *testing.T) {
	srv := &fakeAuthSrv{}
	handler := NewAuthHandler(srv)

	c, rec := newJSONContext(http.MethodPost, "/auth/logout", "")
	withTeacher(c, "t1")
	handler.Logout(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.loggedOut)
	assert.Equal(t, "t1", srv.loggedOut.TeacherID)
}

func TestAuthHandlerUpdateProfile(t *testing.T) {
	srv := &fakeAuthSrv{teacher: &models.Teacher{ID: "t1", Name: "Ada L"}}
	handler := NewAuthHandler(srv)

	c, rec := newJSONContext(http.MethodPut, "/auth/update-profile", `{"name":"Ada L"}`)
	withTeacher(c, "t1")
	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastProfile.Name)
	assert.Equal(t, "Ada L", *srv.lastProfile.Name)
	assert.Nil(t, srv.lastProfile.Subject)
}

func TestAuthHandlerChangePasswordErrors(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
	}{
		{appErrors.ErrPasswordMismatch, http.StatusBadRequest},
		{appErrors.ErrIncorrectOldPassword, http.StatusBadRequest},
		{nil, http.StatusOK},
	} {
		handler := NewAuthHandler(&fakeAuthSrv{err: tc.err})
		c, rec := newJSONContext(http.MethodPut, "/auth/change-password", `{"oldPassword":"a","newPassword":"bbbbbb","confirmPassword":"bbbbbb"}`)
		withTeacher(c, "t1")
		handler.ChangePassword(c)
		assert.Equal(t, tc.status, rec.Code)
	}
}
