package models

import "time"

// Account roles and aggregate onboarding statuses. The status only moves
// through onboarding submission and an HR decision.
const (
	RoleNormal = "normal"
	RoleHR     = "hr"

	StatusUnsubmitted = "unsubmitted"
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusUnsubmitted, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	EmployeeID   string    `json:"employee_id,omitempty"`
	TOTPSecret   string    `json:"-"` // Never expose in JSON
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Token    string `json:"token" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type VerifyTOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}
