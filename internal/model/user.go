package model

import "time"

// Role is the unified principal role. Every user is exactly one of these.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// User represents a registered principal (student or faculty).
type User struct {
	ID           int       `json:"id"`
	RollNumber   string    `json:"roll_number,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterStudentRequest is the payload for student self-registration.
type RegisterStudentRequest struct {
	RollNumber string `json:"roll_number" binding:"required,min=1,max=50"`
	Name       string `json:"name" binding:"required,min=1,max=255"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
}

// RegisterFacultyRequest is the payload for faculty registration.
type RegisterFacultyRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is the payload for logging in. Username matches either the
// email or, for students, the roll number.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
