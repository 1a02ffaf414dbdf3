package models

import "time"

type EmergencyContact struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MiddleName   string `json:"middle_name,omitempty"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

type EmployeeDocument struct {
	Type string `json:"type"`
	File string `json:"file"`
}

type Employee struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	MiddleName    string     `json:"middle_name,omitempty"`
	PreferredName string     `json:"preferred_name,omitempty"`
	Email         string     `json:"email"`
	SSN           string     `json:"ssn"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Gender        string     `json:"gender,omitempty"`

	Apartment     string `json:"apartment,omitempty"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`

	CellPhone string `json:"cell_phone"`
	WorkPhone string `json:"work_phone,omitempty"`

	Citizenship   string     `json:"citizenship,omitempty"`
	VisaType      string     `json:"visa_type,omitempty"`
	VisaStartDate *time.Time `json:"visa_start_date,omitempty"`
	VisaEndDate   *time.Time `json:"visa_end_date,omitempty"`

	ReferralFirstName    string `json:"referral_first_name,omitempty"`
	ReferralMiddleName   string `json:"referral_middle_name,omitempty"`
	ReferralLastName     string `json:"referral_last_name,omitempty"`
	ReferralEmail        string `json:"referral_email,omitempty"`
	ReferralPhone        string `json:"referral_phone,omitempty"`
	ReferralRelationship string `json:"referral_relationship,omitempty"`

	Feedback string `json:"feedback,omitempty"`

	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
	Documents         []EmployeeDocument `json:"documents"`
}

// OnboardingRequest is the one-shot profile submission. Citizenship and visa
// fields are discriminated: citizenship "yes" takes the Identity value,
// anything else records "visa"; a visa choice of "other" takes the free-text
// VisaType override.
type OnboardingRequest struct {
	Avatar        string     `json:"avatar,omitempty"`
	FirstName     string     `json:"first_name" binding:"required"`
	LastName      string     `json:"last_name" binding:"required"`
	MiddleName    string     `json:"middle_name,omitempty"`
	PreferredName string     `json:"preferred_name,omitempty"`
	Email         string     `json:"email" binding:"required,email"`
	SSN           string     `json:"ssn" binding:"required"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Gender        string     `json:"gender,omitempty"`

	Apartment     string `json:"apartment,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Zip           string `json:"zip,omitempty"`
	CellPhone     string `json:"cell_phone,omitempty"`

	Citizenship string `json:"citizenship,omitempty"`
	Identity    string `json:"identity,omitempty"`
	Visa        string `json:"visa,omitempty"`
	VisaType    string `json:"visa_type,omitempty"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	OptReceipt string `json:"opt_receipt,omitempty"`

	ReferralFirstName    string `json:"referral_first_name,omitempty"`
	ReferralMiddleName   string `json:"referral_middle_name,omitempty"`
	ReferralLastName     string `json:"referral_last_name,omitempty"`
	ReferralEmail        string `json:"referral_email,omitempty"`
	ReferralPhone        string `json:"referral_phone,omitempty"`
	ReferralRelationship string `json:"referral_relationship,omitempty"`

	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty"`
}

// Section update requests. Absent fields keep the stored values, so none of
// these carry required bindings.

type NameSectionRequest struct {
	Avatar        string     `json:"avatar,omitempty"`
	Email         string     `json:"email,omitempty"`
	FirstName     string     `json:"first_name,omitempty"`
	MiddleName    string     `json:"middle_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	PreferredName string     `json:"preferred_name,omitempty"`
	SSN           string     `json:"ssn,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Gender        string     `json:"gender,omitempty"`
}

type AddressSectionRequest struct {
	StreetAddress string `json:"street_address,omitempty"`
	Apartment     string `json:"apartment,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Zip           string `json:"zip,omitempty"`
}

type ContactSectionRequest struct {
	CellPhone string `json:"cell_phone,omitempty"`
	WorkPhone string `json:"work_phone,omitempty"`
}

type EmploymentSectionRequest struct {
	VisaType  string     `json:"visa_type,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type EmergencyContactSectionRequest struct {
	Contacts []EmergencyContact `json:"contacts" binding:"required"`
}

// EmployeeProfile is the HR directory row.
type EmployeeProfile struct {
	UserID     string `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name,omitempty"`
	VisaType   string `json:"visa_type,omitempty"`
	SSN        string `json:"ssn"`
	WorkPhone  string `json:"work_phone,omitempty"`
	CellPhone  string `json:"cell_phone"`
	Email      string `json:"email"`
}

type ApplicationDecisionRequest struct {
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback,omitempty"`
}
