package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterPatientRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Contact  string `json:"contact" validate:"omitempty,max=50"`
}

// RegisterDoctorRequest creates the account and a profile. Omitted profile
// fields fall back to the clinic defaults.
type RegisterDoctorRequest struct {
	Name           string   `json:"name" validate:"required,min=2,max=255"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=6"`
	Contact        string   `json:"contact" validate:"omitempty,max=50"`
	Specialization string   `json:"specialization" validate:"omitempty,max=100"`
	Qualifications []string `json:"qualifications" validate:"omitempty,dive,required"`
	Experience     string   `json:"experience" validate:"omitempty,max=50"`
}

type CreateAdminRequest struct {
	Name     string `validate:"required,min=2,max=255"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
