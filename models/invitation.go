package models

import "time"

// Invitation is an email-scoped registration grant. The signed token embeds
// the email claim; the row mirrors it for the HR history view. UserID is set
// once at registration, after which the token can no longer be redeemed.
type Invitation struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Token    string    `json:"token"`
	URL      string    `json:"url"`
	IssuedBy string    `json:"issued_by,omitempty"`
	UserID   string    `json:"user_id,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}

type IssueInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type IssueInvitationResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
	URL   string `json:"url"`
}
