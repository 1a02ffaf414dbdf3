package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beaconhr/onboard-api/middleware"
	"github.com/beaconhr/onboard-api/models"
)

type VisaHandler struct {
	DB *sql.DB
	WS *WSHandler
}

// slotColumn maps a document key to its column prefix. Keys are validated
// against models.VisaDocumentKeys before ever reaching a query string.
var slotColumn = map[string]string{
	models.DocOptReceipt: "opt_receipt",
	models.DocOptEAD:     "opt_ead",
	models.DocI983:       "i983",
	models.DocI20:        "i20",
}

// GetOrCreate returns the caller's visa case, creating the default one on
// first access. The unique index on visa_cases.user_id makes the create
// idempotent under concurrent first reads.
func (h *VisaHandler) GetOrCreate(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return
	}
	userID := middleware.GetUserID(c)

	if _, err := h.DB.ExecContext(c.Request.Context(), `
		INSERT INTO visa_cases (user_id, visa_title)
		VALUES ($1, 'f1')
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		log.Printf("❌ Failed to create visa case for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch visa case"})
		return
	}

	visaCase, err := h.fetchCase(c, userID)
	if err != nil {
		log.Printf("❌ Failed to fetch visa case for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch visa case"})
		return
	}

	c.JSON(http.StatusOK, visaCase)
}

// UploadDocument records an uploaded file reference on one slot and moves it
// to pending. Resubmitting over an approved or rejected slot starts the review
// over, clearing prior feedback.
func (h *VisaHandler) UploadDocument(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return
	}
	userID := middleware.GetUserID(c)

	var req models.UploadVisaDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	col, ok := slotColumn[req.Document]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown document", "field": "document"})
		return
	}

	query := fmt.Sprintf(`
		UPDATE visa_cases SET
			%s_file_url = $1,
			%s_status = 'pending',
			%s_feedback = '',
			updated_at = NOW()
		WHERE user_id = $2
	`, col, col, col)

	result, err := h.DB.ExecContext(c.Request.Context(), query, req.File, userID)
	if err != nil {
		log.Printf("❌ Failed to upload visa document: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update visa case"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Visa case not found"})
		return
	}

	if h.WS != nil {
		h.WS.BroadcastVisaEvent(userID, req.Document, "pending")
	}

	c.JSON(http.StatusOK, gin.H{"api": "uploadVisaDocument", "message": "Document submitted for review"})
}

// Review applies an HR decision to one slot: feedback plus a checked status.
func (h *VisaHandler) Review(c *gin.Context) {
	if _, ok := requireHR(c, h.DB); !ok {
		return
	}

	var req models.ReviewVisaDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	col, ok := slotColumn[req.Document]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown document", "field": "document"})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "field": "status"})
		return
	}

	query := fmt.Sprintf(`
		UPDATE visa_cases SET
			%s_feedback = $1,
			%s_status = $2,
			updated_at = NOW()
		WHERE user_id = $3
	`, col, col)

	result, err := h.DB.ExecContext(c.Request.Context(), query, req.Feedback, req.Status, req.UserID)
	if err != nil {
		log.Printf("❌ Failed to review visa document: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update visa case"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Visa case not found"})
		return
	}

	if h.WS != nil {
		h.WS.BroadcastVisaEvent(req.UserID, req.Document, req.Status)
	}

	c.JSON(http.StatusOK, gin.H{"api": "reviewVisaDocument", "message": "Review recorded"})
}

// ListAll joins every case with its employee's display fields for the HR
// dashboard. A missing employee degrades that row to blank display fields
// instead of failing the listing.
func (h *VisaHandler) ListAll(c *gin.Context) {
	if _, ok := requireHR(c, h.DB); !ok {
		return
	}

	rows, err := h.DB.QueryContext(c.Request.Context(), `
		SELECT v.user_id, v.visa_title,
			v.opt_receipt_feedback, v.opt_receipt_file_url, v.opt_receipt_status,
			v.opt_ead_feedback, v.opt_ead_file_url, v.opt_ead_status,
			v.i983_feedback, v.i983_file_url, v.i983_status,
			v.i20_feedback, v.i20_file_url, v.i20_status,
			e.first_name, e.last_name, e.preferred_name, e.visa_start_date, e.visa_end_date
		FROM visa_cases v
		LEFT JOIN employees e ON e.user_id = v.user_id
		ORDER BY v.created_at
	`)
	if err != nil {
		log.Printf("❌ Failed to list visa cases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list visa cases"})
		return
	}
	defer rows.Close()

	listings := []models.VisaCaseListing{}
	for rows.Next() {
		var l models.VisaCaseListing
		var firstName, lastName, preferredName sql.NullString
		var startDate, endDate sql.NullTime
		if err := rows.Scan(&l.UserID, &l.VisaTitle,
			&l.OptReceipt.Feedback, &l.OptReceipt.File, &l.OptReceipt.Status,
			&l.OptEAD.Feedback, &l.OptEAD.File, &l.OptEAD.Status,
			&l.I983.Feedback, &l.I983.File, &l.I983.Status,
			&l.I20.Feedback, &l.I20.File, &l.I20.Status,
			&firstName, &lastName, &preferredName, &startDate, &endDate); err != nil {
			log.Printf("⚠️ Skipping unreadable visa case row: %v", err)
			continue
		}
		if firstName.Valid {
			l.FirstName = firstName.String
		}
		if lastName.Valid {
			l.LastName = lastName.String
		}
		if preferredName.Valid {
			l.PreferredName = preferredName.String
		}
		if startDate.Valid {
			l.VisaStartDate = startDate.Time.Format("2006-01-02")
		}
		if endDate.Valid {
			l.VisaEndDate = endDate.Time.Format("2006-01-02")
		}
		listings = append(listings, l)
	}

	c.JSON(http.StatusOK, listings)
}

func (h *VisaHandler) fetchCase(c *gin.Context, userID string) (*models.VisaCase, error) {
	var v models.VisaCase
	err := h.DB.QueryRowContext(c.Request.Context(), `
		SELECT id, user_id, visa_title,
			opt_receipt_feedback, opt_receipt_file_url, opt_receipt_status,
			opt_ead_feedback, opt_ead_file_url, opt_ead_status,
			i983_feedback, i983_file_url, i983_status,
			i20_feedback, i20_file_url, i20_status
		FROM visa_cases
		WHERE user_id = $1
	`, userID).Scan(&v.ID, &v.UserID, &v.VisaTitle,
		&v.OptReceipt.Feedback, &v.OptReceipt.File, &v.OptReceipt.Status,
		&v.OptEAD.Feedback, &v.OptEAD.File, &v.OptEAD.Status,
		&v.I983.Feedback, &v.I983.File, &v.I983.Status,
		&v.I20.Feedback, &v.I20.File, &v.I20.Status)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
