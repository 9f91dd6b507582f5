package models

import "time"

// TeacherRole labels the tenant role carried in issued tokens.
type TeacherRole string

const RoleTeacher TeacherRole = "teacher"

// Teacher is a tenant: the owner of a student roster.
type Teacher struct {
	ID           string      `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Name         string      `db:"name" json:"name"`
	Subject      string      `db:"subject" json:"subject"`
	Department   string      `db:"department" json:"department"`
	Phone        string      `db:"phone" json:"phone"`
	Active       bool        `db:"active" json:"isActive"`
	Role         TeacherRole `db:"role" json:"role"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// TeacherProfile is the public projection returned by the API.
type TeacherProfile struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Subject    string      `json:"subject"`
	Department string      `json:"department"`
	Phone      string      `json:"phone"`
	Role       TeacherRole `json:"role"`
	IsActive   bool        `json:"isActive"`
}

// Profile projects the teacher without credentials.
func (t *Teacher) Profile() TeacherProfile {
	return TeacherProfile{
		ID:         t.ID,
		Name:       t.Name,
		Email:      t.Email,
		Subject:    t.Subject,
		Department: t.Department,
		Phone:      t.Phone,
		Role:       t.Role,
		IsActive:   t.Active,
	}
}
