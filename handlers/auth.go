package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/beaconhr/onboard-api/config"
	"github.com/beaconhr/onboard-api/middleware"
	"github.com/beaconhr/onboard-api/models"
	"github.com/beaconhr/onboard-api/utils"
)

type AuthHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

// Register creates an account from a redeemed invitation token. The token is
// looked up in the store first, but a store hit is never trusted on its own:
// the signature and expiry are re-verified, and a token already linked to an
// account is refused.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleNormal
	}
	if role != models.RoleNormal && role != models.RoleHR {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role", "field": "role"})
		return
	}

	var consumedBy sql.NullString
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT user_id FROM invitations WHERE token = $1`, req.Token).Scan(&consumedBy)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found", "field": "token"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to look up invitation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if consumedBy.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token already used", "field": "token"})
		return
	}

	if _, err := utils.VerifyInvitationToken(h.Cfg.JWTSecret, req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "field": "token"})
		return
	}

	var taken bool
	err = h.DB.QueryRowContext(c.Request.Context(),
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, req.Username).Scan(&taken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already existed", "field": "username"})
		return
	}

	err = h.DB.QueryRowContext(c.Request.Context(),
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&taken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already existed", "field": "email"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Account creation and invitation consumption commit together: no account
	// exists without its token being linked, and vice versa. The unique indexes
	// close the race the EXISTS checks leave open.
	tx, err := h.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		log.Printf("❌ Failed to begin registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(c.Request.Context(), `
		INSERT INTO users (username, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, 'unsubmitted')
		RETURNING id
	`, req.Username, req.Email, passwordHash, role).Scan(&userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			field := "username"
			if pqErr.Constraint == "users_email_key" {
				field = "email"
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already existed", "field": field})
			return
		}
		log.Printf("❌ Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// The IS NULL guard loses to a concurrent redemption of the same token.
	result, err := tx.ExecContext(c.Request.Context(),
		`UPDATE invitations SET user_id = $1 WHERE token = $2 AND user_id IS NULL`,
		userID, req.Token)
	if err != nil {
		log.Printf("❌ Failed to link invitation to user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token already used", "field": "token"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ Failed to commit registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"api":     "register",
		"message": "User created",
		"id":      userID,
	})
}

// Login authenticates by username and password and issues a session
// credential whose subject is the account id.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	var passwordHash string
	var totpSecret sql.NullString
	var employeeID sql.NullString

	err := h.DB.QueryRowContext(c.Request.Context(), `
		SELECT id, username, email, password_hash, role, status, employee_id, totp_secret, totp_enabled
		FROM users
		WHERE username = $1
	`, req.Username).Scan(&user.ID, &user.Username, &user.Email, &passwordHash,
		&user.Role, &user.Status, &employeeID, &totpSecret, &user.TOTPEnabled)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "field": "username"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to fetch user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !utils.CheckPassword(req.Password, passwordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "field": "password"})
		return
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "2FA code required", "requires_2fa": true})
			return
		}
		if !totpSecret.Valid || !utils.VerifyTOTP(totpSecret.String, req.TOTPCode) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid 2FA code"})
			return
		}
	}

	if employeeID.Valid {
		user.EmployeeID = employeeID.String
	}

	token, err := utils.GenerateSessionToken(h.Cfg.JWTSecret, user.ID, h.Cfg.SessionTTL)
	if err != nil {
		log.Printf("❌ Failed to generate session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// SetupTOTP generates a new TOTP secret for the authenticated account. The
// secret is stored immediately but only enforced after VerifyTOTP confirms the
// authenticator once.
func (h *AuthHandler) SetupTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var email string
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	secret, url, err := utils.GenerateTOTPSecret(email)
	if err != nil {
		log.Printf("❌ Failed to generate TOTP secret: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate secret"})
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2`,
		secret, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store secret"})
		return
	}

	c.JSON(http.StatusOK, models.TOTPSetupResponse{Secret: secret, URL: url})
}

func (h *AuthHandler) VerifyTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var secret sql.NullString
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT totp_secret FROM users WHERE id = $1`, userID).Scan(&secret)
	if err != nil || !secret.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "2FA setup not started"})
		return
	}

	if !utils.VerifyTOTP(secret.String, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid 2FA code"})
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable 2FA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api": "verifyTOTP", "message": "2FA enabled"})
}

func (h *AuthHandler) DisableTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1`,
		userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable 2FA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api": "disableTOTP", "message": "2FA disabled"})
}
