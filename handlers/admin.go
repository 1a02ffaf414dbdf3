package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beaconhr/onboard-api/models"
)

type AdminHandler struct {
	DB *sql.DB
}

// GetAllProfiles returns the HR directory of every onboarded employee.
func (h *AdminHandler) GetAllProfiles(c *gin.Context) {
	if _, ok := requireHR(c, h.DB); !ok {
		return
	}

	rows, err := h.DB.QueryContext(c.Request.Context(), `
		SELECT user_id, first_name, last_name, middle_name, visa_type, ssn, work_phone, cell_phone, email
		FROM employees
		ORDER BY last_name, first_name
	`)
	if err != nil {
		log.Printf("❌ Failed to get employee profiles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get employees profiles"})
		return
	}
	defer rows.Close()

	profiles := []models.EmployeeProfile{}
	for rows.Next() {
		var p models.EmployeeProfile
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.MiddleName,
			&p.VisaType, &p.SSN, &p.WorkPhone, &p.CellPhone, &p.Email); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}

	c.JSON(http.StatusOK, profiles)
}

// DecideApplication records the HR decision on a pending onboarding
// application: the account status moves to approved or rejected and the
// feedback lands on the employee profile.
func (h *AdminHandler) DecideApplication(c *gin.Context) {
	if _, ok := requireHR(c, h.DB); !ok {
		return
	}
	targetID := c.Param("user_id")

	var req models.ApplicationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != models.StatusApproved && req.Status != models.StatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "field": "status"})
		return
	}

	result, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`, req.Status, targetID)
	if err != nil {
		log.Printf("❌ Failed to update application status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.Feedback != "" {
		if _, err := h.DB.ExecContext(c.Request.Context(),
			`UPDATE employees SET feedback = $1, updated_at = NOW() WHERE user_id = $2`,
			req.Feedback, targetID); err != nil {
			log.Printf("⚠️ Failed to store application feedback for %s: %v", targetID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"api": "decideApplication", "message": "Application " + req.Status})
}
