package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/beaconhr/onboard-api/middleware"
	"github.com/beaconhr/onboard-api/models"
)

type OnboardingHandler struct {
	DB *sql.DB
}

// Submit creates the one employee profile for the authenticated account. The
// unique index on employees.user_id makes the insert the guard: a second
// submission inserts nothing and fails InvalidInput.
func (h *OnboardingHandler) Submit(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return
	}
	userID := middleware.GetUserID(c)

	var req models.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists bool
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found", "field": "user"})
		return
	}

	// An explicit "other" visa choice takes the free-text override; a "yes"
	// citizenship takes the identity discriminator, anything else is a visa
	// holder.
	citizenship := "visa"
	if req.Citizenship == "yes" {
		citizenship = req.Identity
	}
	visaType := req.Visa
	if req.Visa == "other" {
		visaType = req.VisaType
	}

	var employeeID string
	err = h.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO employees (
			user_id, first_name, last_name, middle_name, preferred_name,
			email, ssn, date_of_birth, gender,
			apartment, street_address, city, state, zip, cell_phone,
			citizenship, visa_type, visa_start_date, visa_end_date,
			referral_first_name, referral_middle_name, referral_last_name,
			referral_email, referral_phone, referral_relationship
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id
	`, userID, req.FirstName, req.LastName, req.MiddleName, req.PreferredName,
		req.Email, req.SSN, req.DateOfBirth, req.Gender,
		req.Apartment, req.StreetAddress, req.City, req.State, req.Zip, req.CellPhone,
		citizenship, visaType, req.StartDate, req.EndDate,
		req.ReferralFirstName, req.ReferralMiddleName, req.ReferralLastName,
		req.ReferralEmail, req.ReferralPhone, req.ReferralRelationship,
	).Scan(&employeeID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Employee already exists", "field": "user"})
		return
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			field := "ssn"
			if pqErr.Constraint == "employees_email_key" {
				field = "email"
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already existed", "field": field})
			return
		}
		log.Printf("❌ Failed to create employee for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}

	for i, contact := range req.EmergencyContacts {
		if _, err := h.DB.ExecContext(c.Request.Context(), `
			INSERT INTO emergency_contacts (employee_id, position, first_name, last_name, middle_name, phone, email, relationship)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, employeeID, i, contact.FirstName, contact.LastName, contact.MiddleName,
			contact.Phone, contact.Email, contact.Relationship); err != nil {
			log.Printf("⚠️ Failed to store emergency contact: %v", err)
		}
	}

	if req.Avatar != "" {
		h.insertDocument(c.Request.Context(), employeeID, "avatar", req.Avatar)
	}
	if req.OptReceipt != "" {
		h.insertDocument(c.Request.Context(), employeeID, "receipt", req.OptReceipt)
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET employee_id = $1, status = 'pending', updated_at = NOW() WHERE id = $2`,
		employeeID, userID); err != nil {
		log.Printf("⚠️ Failed to link employee %s to user %s: %v", employeeID, userID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"api":     "onboarding",
		"message": "Employee onboarded successfully",
		"id":      employeeID,
	})
}

func (h *OnboardingHandler) insertDocument(ctx context.Context, employeeID, docType, file string) {
	if _, err := h.DB.ExecContext(ctx, `
		INSERT INTO employee_documents (employee_id, doc_type, file_url)
		VALUES ($1, $2, $3)
	`, employeeID, docType, file); err != nil {
		log.Printf("⚠️ Failed to store %s document: %v", docType, err)
	}
}

// GetEmployee returns the full profile for a target account: the holder reads
// their own, HR reads anyone's.
func (h *OnboardingHandler) GetEmployee(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return
	}
	callerID := middleware.GetUserID(c)
	targetID := c.Param("user_id")

	if callerID != targetID {
		var role string
		err := h.DB.QueryRowContext(c.Request.Context(),
			`SELECT role FROM users WHERE id = $1`, callerID).Scan(&role)
		if err != nil || role != models.RoleHR {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
			return
		}
	}

	employee, err := h.fetchEmployee(c.Request.Context(), targetID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found", "field": "user"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to fetch employee data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee data"})
		return
	}

	c.JSON(http.StatusOK, employee)
}

// GetMyProfile is the self-read shortcut used by the profile page.
func (h *OnboardingHandler) GetMyProfile(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return
	}
	userID := middleware.GetUserID(c)

	employee, err := h.fetchEmployee(c.Request.Context(), userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found", "field": "user"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to fetch profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee data"})
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *OnboardingHandler) fetchEmployee(ctx context.Context, userID string) (*models.Employee, error) {
	var e models.Employee
	err := h.DB.QueryRowContext(ctx, `
		SELECT id, user_id, first_name, last_name, middle_name, preferred_name,
			email, ssn, date_of_birth, gender,
			apartment, street_address, city, state, zip, cell_phone, work_phone,
			citizenship, visa_type, visa_start_date, visa_end_date,
			referral_first_name, referral_middle_name, referral_last_name,
			referral_email, referral_phone, referral_relationship, feedback
		FROM employees
		WHERE user_id = $1
	`, userID).Scan(&e.ID, &e.UserID, &e.FirstName, &e.LastName, &e.MiddleName, &e.PreferredName,
		&e.Email, &e.SSN, &e.DateOfBirth, &e.Gender,
		&e.Apartment, &e.StreetAddress, &e.City, &e.State, &e.Zip, &e.CellPhone, &e.WorkPhone,
		&e.Citizenship, &e.VisaType, &e.VisaStartDate, &e.VisaEndDate,
		&e.ReferralFirstName, &e.ReferralMiddleName, &e.ReferralLastName,
		&e.ReferralEmail, &e.ReferralPhone, &e.ReferralRelationship, &e.Feedback)
	if err != nil {
		return nil, err
	}

	e.EmergencyContacts = []models.EmergencyContact{}
	contactRows, err := h.DB.QueryContext(ctx, `
		SELECT first_name, last_name, middle_name, phone, email, relationship
		FROM emergency_contacts
		WHERE employee_id = $1
		ORDER BY position
	`, e.ID)
	if err == nil {
		defer contactRows.Close()
		for contactRows.Next() {
			var ec models.EmergencyContact
			if err := contactRows.Scan(&ec.FirstName, &ec.LastName, &ec.MiddleName,
				&ec.Phone, &ec.Email, &ec.Relationship); err != nil {
				continue
			}
			e.EmergencyContacts = append(e.EmergencyContacts, ec)
		}
	}

	e.Documents = []models.EmployeeDocument{}
	docRows, err := h.DB.QueryContext(ctx, `
		SELECT doc_type, file_url FROM employee_documents WHERE employee_id = $1 ORDER BY created_at
	`, e.ID)
	if err == nil {
		defer docRows.Close()
		for docRows.Next() {
			var doc models.EmployeeDocument
			if err := docRows.Scan(&doc.Type, &doc.File); err != nil {
				continue
			}
			e.Documents = append(e.Documents, doc)
		}
	}

	return &e, nil
}

// The section updates below are partial merges: an absent or empty input field
// keeps the stored value. COALESCE(NULLIF($n, ''), col) does the merge in the
// store so a concurrent update never sees a half-written row.

func (h *OnboardingHandler) UpdateNameSection(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userID := middleware.GetUserID(c)

	var req models.NameSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.ExecContext(c.Request.Context(), `
		UPDATE employees SET
			email = COALESCE(NULLIF($1, ''), email),
			first_name = COALESCE(NULLIF($2, ''), first_name),
			middle_name = COALESCE(NULLIF($3, ''), middle_name),
			last_name = COALESCE(NULLIF($4, ''), last_name),
			preferred_name = COALESCE(NULLIF($5, ''), preferred_name),
			ssn = COALESCE(NULLIF($6, ''), ssn),
			date_of_birth = COALESCE($7, date_of_birth),
			gender = COALESCE(NULLIF($8, ''), gender),
			updated_at = NOW()
		WHERE user_id = $9
	`, req.Email, req.FirstName, req.MiddleName, req.LastName, req.PreferredName,
		req.SSN, req.DateOfBirth, req.Gender, userID)
	if err != nil {
		log.Printf("❌ Failed to update name section: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	if req.Avatar != "" {
		h.upsertAvatar(c.Request.Context(), userID, req.Avatar)
	}

	c.JSON(http.StatusOK, gin.H{"api": "updateNameSection", "message": "Name section updated"})
}

func (h *OnboardingHandler) upsertAvatar(ctx context.Context, userID, avatar string) {
	var employeeID string
	if err := h.DB.QueryRowContext(ctx,
		`SELECT id FROM employees WHERE user_id = $1`, userID).Scan(&employeeID); err != nil {
		return
	}

	result, err := h.DB.ExecContext(ctx, `
		UPDATE employee_documents SET file_url = $1 WHERE employee_id = $2 AND doc_type = 'avatar'
	`, avatar, employeeID)
	if err != nil {
		log.Printf("⚠️ Failed to update avatar: %v", err)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		h.insertDocument(ctx, employeeID, "avatar", avatar)
	}
}

func (h *OnboardingHandler) UpdateAddressSection(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userID := middleware.GetUserID(c)

	var req models.AddressSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.ExecContext(c.Request.Context(), `
		UPDATE employees SET
			street_address = COALESCE(NULLIF($1, ''), street_address),
			apartment = COALESCE(NULLIF($2, ''), apartment),
			city = COALESCE(NULLIF($3, ''), city),
			state = COALESCE(NULLIF($4, ''), state),
			zip = COALESCE(NULLIF($5, ''), zip),
			updated_at = NOW()
		WHERE user_id = $6
	`, req.StreetAddress, req.Apartment, req.City, req.State, req.Zip, userID)
	if err != nil {
		log.Printf("❌ Failed to update address section: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api": "updateAddressSection", "message": "Address section updated"})
}

func (h *OnboardingHandler) UpdateContactSection(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userID := middleware.GetUserID(c)

	var req models.ContactSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.ExecContext(c.Request.Context(), `
		UPDATE employees SET
			cell_phone = COALESCE(NULLIF($1, ''), cell_phone),
			work_phone = COALESCE(NULLIF($2, ''), work_phone),
			updated_at = NOW()
		WHERE user_id = $3
	`, req.CellPhone, req.WorkPhone, userID)
	if err != nil {
		log.Printf("❌ Failed to update contact section: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api": "updateContactSection", "message": "Contact section updated"})
}

func (h *OnboardingHandler) UpdateEmploymentSection(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userID := middleware.GetUserID(c)

	var req models.EmploymentSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.ExecContext(c.Request.Context(), `
		UPDATE employees SET
			visa_type = COALESCE(NULLIF($1, ''), visa_type),
			visa_start_date = COALESCE($2, visa_start_date),
			visa_end_date = COALESCE($3, visa_end_date),
			updated_at = NOW()
		WHERE user_id = $4
	`, req.VisaType, req.StartDate, req.EndDate, userID)
	if err != nil {
		log.Printf("❌ Failed to update employment section: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api": "updateEmploymentSection", "message": "Employment section updated"})
}

// UpdateEmergencyContacts replaces the ordered contact list wholesale; an
// absent list is rejected by binding so the stored list is never wiped by
// accident.
func (h *OnboardingHandler) UpdateEmergencyContacts(c *gin.Context) {
	if !middleware.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userID := middleware.GetUserID(c)

	var req models.EmergencyContactSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var employeeID string
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT id FROM employees WHERE user_id = $1`, userID).Scan(&employeeID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM emergency_contacts WHERE employee_id = $1`, employeeID); err != nil {
		log.Printf("❌ Failed to clear emergency contacts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}

	for i, contact := range req.Contacts {
		if _, err := h.DB.ExecContext(c.Request.Context(), `
			INSERT INTO emergency_contacts (employee_id, position, first_name, last_name, middle_name, phone, email, relationship)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, employeeID, i, contact.FirstName, contact.LastName, contact.MiddleName,
			contact.Phone, contact.Email, contact.Relationship); err != nil {
			log.Printf("⚠️ Failed to store emergency contact: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"api": "updateEmergencyContactSection", "message": "Emergency contacts updated"})
}
