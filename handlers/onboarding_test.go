package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/beaconhr/onboard-api/models"
)

func onboardingRouter(h *OnboardingHandler) *gin.Engine {
	return deferredRouter(func(rg *gin.RouterGroup) {
		rg.POST("/onboarding", h.Submit)
		rg.GET("/employees/:user_id", h.GetEmployee)
		rg.PUT("/profile/address", h.UpdateAddressSection)
		rg.PUT("/profile/contact", h.UpdateContactSection)
	})
}

func submitBody() models.OnboardingRequest {
	return models.OnboardingRequest{
		FirstName:   "Alice",
		LastName:    "Liddell",
		Email:       "alice@b.com",
		SSN:         "123-45-6789",
		Citizenship: "no",
		Visa:        "f1",
	}
}

func TestSubmitAnonymous(t *testing.T) {
	db, _ := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	w := doJSON(t, onboardingRouter(h), "POST", "/api/v1/onboarding", "", submitBody())
	requireStatus(t, w, http.StatusUnauthorized)
}

// The conditional insert is the duplicate guard: a second submission inserts
// nothing and surfaces as InvalidInput.
func TestSubmitSecondTimeFails(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	mock.ExpectQuery(q(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q(`INSERT INTO employees`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"})) // conflict: no row back

	w := doJSON(t, onboardingRouter(h), "POST", "/api/v1/onboarding", sessionFor(t, "user-1"), submitBody())
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Employee already exists", decodeBody(t, w)["error"])
}

// Global uniqueness of ssn and email is enforced by the store; the constraint
// violation maps back to the offending field.
func TestSubmitDuplicateSSN(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	mock.ExpectQuery(q(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q(`INSERT INTO employees`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "employees_ssn_key"})

	w := doJSON(t, onboardingRouter(h), "POST", "/api/v1/onboarding", sessionFor(t, "user-1"), submitBody())
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "ssn", decodeBody(t, w)["field"])
}

func TestSubmitDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	mock.ExpectQuery(q(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q(`INSERT INTO employees`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "employees_email_key"})

	w := doJSON(t, onboardingRouter(h), "POST", "/api/v1/onboarding", sessionFor(t, "user-1"), submitBody())
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "email", decodeBody(t, w)["field"])
}

func TestSubmitCreatesEmployeeAndLinksAccount(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	body := submitBody()
	body.Avatar = "avatar-ref.png"
	body.OptReceipt = "receipt-ref.pdf"
	body.EmergencyContacts = []models.EmergencyContact{
		{FirstName: "Bob", LastName: "Builder", Phone: "555", Email: "bob@b.com", Relationship: "friend"},
	}

	mock.ExpectQuery(q(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q(`INSERT INTO employees`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("emp-1"))
	mock.ExpectExec(q(`INSERT INTO emergency_contacts`)).
		WithArgs("emp-1", 0, "Bob", "Builder", "", "555", "bob@b.com", "friend").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO employee_documents`)).
		WithArgs("emp-1", "avatar", "avatar-ref.png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO employee_documents`)).
		WithArgs("emp-1", "receipt", "receipt-ref.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE users SET employee_id = $1, status = 'pending'`)).
		WithArgs("emp-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(t, onboardingRouter(h), "POST", "/api/v1/onboarding", sessionFor(t, "user-1"), body)
	requireStatus(t, w, http.StatusCreated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// citizenship "yes" takes the identity discriminator; visa "other" takes the
// free-text override.
func TestSubmitDiscriminators(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	body := submitBody()
	body.Citizenship = "yes"
	body.Identity = "green card"
	body.Visa = "other"
	body.VisaType = "O-1"

	mock.ExpectQuery(q(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q(`INSERT INTO employees`)).
		WithArgs("user-1", "Alice", "Liddell", "", "", "alice@b.com", "123-45-6789",
			nil, "", "", "", "", "", "", "", "green card", "O-1", nil, nil,
			"", "", "", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("emp-1"))
	mock.ExpectExec(q(`UPDATE users SET employee_id = $1, status = 'pending'`)).
		WithArgs("emp-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(t, onboardingRouter(h), "POST", "/api/v1/onboarding", sessionFor(t, "user-1"), body)
	requireStatus(t, w, http.StatusCreated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func employeeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "first_name", "last_name", "middle_name", "preferred_name",
		"email", "ssn", "date_of_birth", "gender",
		"apartment", "street_address", "city", "state", "zip", "cell_phone", "work_phone",
		"citizenship", "visa_type", "visa_start_date", "visa_end_date",
		"referral_first_name", "referral_middle_name", "referral_last_name",
		"referral_email", "referral_phone", "referral_relationship", "feedback",
	}).AddRow("emp-1", "user-1", "Alice", "Liddell", "", "",
		"alice@b.com", "123-45-6789", nil, "",
		"", "12 Main St", "Wonder", "WA", "98001", "555", "",
		"visa", "f1", nil, nil,
		"", "", "", "", "", "", "")
}

func expectFetchEmployee(mock sqlmock.Sqlmock, userID string) {
	mock.ExpectQuery(q(`FROM employees`)).
		WithArgs(userID).
		WillReturnRows(employeeRows())
	mock.ExpectQuery(q(`FROM emergency_contacts`)).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name", "middle_name", "phone", "email", "relationship"}))
	mock.ExpectQuery(q(`FROM employee_documents`)).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc_type", "file_url"}))
}

func TestGetEmployeeSelf(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	expectFetchEmployee(mock, "user-1")

	w := doJSON(t, onboardingRouter(h), "GET", "/api/v1/employees/user-1", sessionFor(t, "user-1"), nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Alice", decodeBody(t, w)["first_name"])
}

func TestGetEmployeeOtherDenied(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	expectHRRole(mock, "user-2", "normal")

	w := doJSON(t, onboardingRouter(h), "GET", "/api/v1/employees/user-1", sessionFor(t, "user-2"), nil)
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestGetEmployeeAsHR(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	expectHRRole(mock, "hr-1", "hr")
	expectFetchEmployee(mock, "user-1")

	w := doJSON(t, onboardingRouter(h), "GET", "/api/v1/employees/user-1", sessionFor(t, "hr-1"), nil)
	requireStatus(t, w, http.StatusOK)
}

// Absent fields ride through as empty strings and the COALESCE(NULLIF(...))
// merge keeps the stored values.
func TestUpdateAddressSectionPartialMerge(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	mock.ExpectExec(q(`UPDATE employees SET`)).
		WithArgs("", "", "New City", "", "", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(t, onboardingRouter(h), "PUT", "/api/v1/profile/address", sessionFor(t, "user-1"),
		models.AddressSectionRequest{City: "New City"})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "updateAddressSection", decodeBody(t, w)["api"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContactSectionNoEmployee(t *testing.T) {
	db, mock := newMockDB(t)
	h := &OnboardingHandler{DB: db}

	mock.ExpectExec(q(`UPDATE employees SET`)).
		WithArgs("555", "", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doJSON(t, onboardingRouter(h), "PUT", "/api/v1/profile/contact", sessionFor(t, "user-1"),
		models.ContactSectionRequest{CellPhone: "555"})
	requireStatus(t, w, http.StatusNotFound)
}
