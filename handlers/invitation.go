package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beaconhr/onboard-api/config"
	"github.com/beaconhr/onboard-api/middleware"
	"github.com/beaconhr/onboard-api/models"
	"github.com/beaconhr/onboard-api/services"
	"github.com/beaconhr/onboard-api/utils"
)

type InvitationHandler struct {
	DB    *sql.DB
	Cfg   *config.Config
	Email *services.EmailService
}

// IssueToken mints a short-lived, email-scoped registration token. Reissuing
// for the same email replaces the previous token, url and issue time in one
// upsert. HR only.
func (h *InvitationHandler) IssueToken(c *gin.Context) {
	issuerID, ok := requireHR(c, h.DB)
	if !ok {
		return
	}

	var req models.IssueInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.GenerateInvitationToken(h.Cfg.JWTSecret, req.Email, h.Cfg.InvitationTTL)
	if err != nil {
		log.Printf("❌ Failed to sign invitation token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	url := fmt.Sprintf("%s/register?token=%s", h.Cfg.FrontendURL, token)

	_, err = h.DB.ExecContext(c.Request.Context(), `
		INSERT INTO invitations (email, token, url, issued_by, user_id, issued_at)
		VALUES ($1, $2, $3, $4, NULL, NOW())
		ON CONFLICT (email)
		DO UPDATE SET token = EXCLUDED.token, url = EXCLUDED.url,
			issued_by = EXCLUDED.issued_by, user_id = NULL, issued_at = NOW()
	`, req.Email, token, url, issuerID)
	if err != nil {
		log.Printf("❌ Failed to store invitation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	// Fire and forget; a mail failure never blocks the issued token.
	go func(to, link string) {
		if err := h.Email.SendInvitation(to, link); err != nil {
			log.Printf("⚠️ Failed to send invitation email to %s: %v", to, err)
		}
	}(req.Email, url)

	c.JSON(http.StatusCreated, models.IssueInvitationResponse{
		Email: req.Email,
		Token: token,
		URL:   url,
	})
}

// ListTokens returns the invitation history for the HR dashboard, including
// whether each token was redeemed.
func (h *InvitationHandler) ListTokens(c *gin.Context) {
	if _, ok := requireHR(c, h.DB); !ok {
		return
	}

	rows, err := h.DB.QueryContext(c.Request.Context(), `
		SELECT id, email, token, url, user_id, issued_at
		FROM invitations
		ORDER BY issued_at DESC
	`)
	if err != nil {
		log.Printf("❌ Failed to fetch invitations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		var userID sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Token, &inv.URL, &userID, &inv.IssuedAt); err != nil {
			continue
		}
		if userID.Valid {
			inv.UserID = userID.String
		}
		invitations = append(invitations, inv)
	}

	c.JSON(http.StatusOK, invitations)
}

// requireHR resolves the deferred authorization context into an HR principal.
// It writes the error response itself and reports whether to continue.
func requireHR(c *gin.Context, db *sql.DB) (string, bool) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID := middleware.GetUserID(c)

	var role string
	err := db.QueryRowContext(c.Request.Context(),
		`SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return "", false
	}
	if err != nil {
		log.Printf("❌ Failed to fetch user role: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return "", false
	}
	if role != models.RoleHR {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
