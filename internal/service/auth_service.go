package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/teacher-roster-api/internal/models"
	"github.com/noah-isme/teacher-roster-api/internal/repository"
	appErrors "github.com/noah-isme/teacher-roster-api/pkg/errors"
	"github.com/noah-isme/teacher-roster-api/pkg/validation"
)

type teacherRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	UpdateProfile(ctx context.Context, teacher *models.Teacher) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

type tokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
	BcryptCost int
}

// AuthService provides registration, login and session use cases for teachers.
type AuthService struct {
	repo      teacherRepository
	blacklist tokenBlacklist
	validator *validation.Validator
	metrics   *MetricsService
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance. blacklist may be nil.
func NewAuthService(repo teacherRepository, blacklist tokenBlacklist, validate *validation.Validator, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.Expiration <= 0 {
		config.Expiration = 7 * 24 * time.Hour
	}
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, blacklist: blacklist, validator: validate, metrics: metrics, logger: logger, config: config}
}

// Register creates a teacher account and signs them in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (result *models.AuthResult, err error) {
	defer func() { s.metrics.RecordAuthEvent("register", err) }()

	req.Email = repository.NormalizeEmail(req.Email)
	if err := s.validator.Struct(req, "please provide all required fields"); err != nil {
		return nil, err
	}

	email := req.Email
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	teacher := &models.Teacher{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Subject:      strings.TrimSpace(req.Subject),
		Department:   strings.TrimSpace(req.Department),
		Phone:        strings.TrimSpace(req.Phone),
		Active:       true,
		Role:         models.RoleTeacher,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.ErrDuplicateEmail
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	s.logger.Info("teacher registered", zap.String("teacher_id", teacher.ID))
	return s.issue(teacher)
}

// Login authenticates a teacher by email and password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (result *models.AuthResult, err error) {
	defer func() { s.metrics.RecordAuthEvent("login", err) }()

	req.Email = repository.NormalizeEmail(req.Email)
	if err := s.validator.Struct(req, "please provide email and password"); err != nil {
		return nil, err
	}

	teacher, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !teacher.Active {
		return nil, appErrors.ErrInactiveAccount
	}

	return s.issue(teacher)
}

// Authenticate resolves a bearer token to the live teacher it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Teacher, *models.JWTClaims, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("token blacklist lookup failed", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has been revoked")
		}
	}

	teacher, err := s.repo.FindByID(ctx, claims.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "teacher no longer exists")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if !teacher.Active {
		return nil, nil, appErrors.ErrInactiveAccount
	}

	return teacher, claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) (err error) {
	defer func() { s.metrics.RecordAuthEvent("logout", err) }()

	if s.blacklist == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke token")
	}
	return nil
}

// Me returns the profile of the given teacher.
func (s *AuthService) Me(ctx context.Context, teacherID string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// UpdateProfile applies a partial profile update. Email and password are not editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, teacherID string, req models.UpdateProfileRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req, "invalid profile payload"); err != nil {
		return nil, err
	}

	teacher, err := s.Me(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		teacher.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subject != nil {
		teacher.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Department != nil {
		teacher.Department = strings.TrimSpace(*req.Department)
	}
	if req.Phone != nil {
		teacher.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := s.repo.UpdateProfile(ctx, teacher); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return teacher, nil
}

// ChangePassword replaces the password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, teacherID string, req models.ChangePasswordRequest) (err error) {
	defer func() { s.metrics.RecordAuthEvent("change_password", err) }()

	if err := s.validator.Struct(req, "please provide all password fields"); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return appErrors.ErrPasswordMismatch
	}

	teacher, err := s.Me(ctx, teacherID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.ErrIncorrectOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.BcryptCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.repo.UpdatePassword(ctx, teacherID, string(hash), time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	s.logger.Info("teacher password changed", zap.String("teacher_id", teacherID))
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, appErrors.ErrUnauthorized.Message)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.TeacherID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issue(teacher *models.Teacher) (*models.AuthResult, error) {
	now := time.Now().UTC()
	claims := models.JWTClaims{
		TeacherID: teacher.ID,
		Email:     teacher.Email,
		Role:      teacher.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   teacher.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.AuthResult{
		Token:     signed,
		ExpiresIn: int64(s.config.Expiration.Seconds()),
		Teacher:   teacher.Profile(),
	}, nil
}
