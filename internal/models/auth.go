package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest carries the sign-up payload.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,notblank,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Subject    string `json:"subject" validate:"required,notblank"`
	Department string `json:"department" validate:"max=100"`
	Phone      string `json:"phone" validate:"max=30"`
}

// LoginRequest holds credentials for authenticating a teacher.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,notblank,max=100"`
	Subject    *string `json:"subject" validate:"omitempty,notblank"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string         `json:"token"`
	ExpiresIn int64          `json:"expiresIn"`
	Teacher   TeacherProfile `json:"teacher"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	TeacherID string      `json:"id"`
	Email     string      `json:"email"`
	Role      TeacherRole `json:"role"`
	jwt.RegisteredClaims
}
