package models

// The four reviewable document slots of a visa case.
const (
	DocOptReceipt = "opt_receipt"
	DocOptEAD     = "opt_ead"
	DocI983       = "i983"
	DocI20        = "i20"
)

var VisaDocumentKeys = []string{DocOptReceipt, DocOptEAD, DocI983, DocI20}

func ValidVisaDocumentKey(key string) bool {
	for _, k := range VisaDocumentKeys {
		if k == key {
			return true
		}
	}
	return false
}

// VisaDocument is one reviewable slot: unsubmitted -> pending on employee
// upload, then approved or rejected by HR; resubmission returns it to pending.
type VisaDocument struct {
	Feedback string `json:"feedback"`
	File     string `json:"file"`
	Status   string `json:"status"`
}

type VisaCase struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	VisaTitle  string       `json:"visa_title"`
	OptReceipt VisaDocument `json:"opt_receipt"`
	OptEAD     VisaDocument `json:"opt_ead"`
	I983       VisaDocument `json:"i983"`
	I20        VisaDocument `json:"i20"`
}

type UploadVisaDocumentRequest struct {
	Document string `json:"document" binding:"required"`
	File     string `json:"file" binding:"required"`
}

type ReviewVisaDocumentRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Document string `json:"document" binding:"required"`
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback,omitempty"`
}

// VisaCaseListing joins a case with its employee's display fields for the HR
// dashboard. Display fields stay blank when the employee lookup misses.
type VisaCaseListing struct {
	UserID        string       `json:"user_id"`
	VisaTitle     string       `json:"visa_title"`
	FirstName     string       `json:"first_name,omitempty"`
	LastName      string       `json:"last_name,omitempty"`
	PreferredName string       `json:"preferred_name,omitempty"`
	VisaStartDate string       `json:"visa_start_date,omitempty"`
	VisaEndDate   string       `json:"visa_end_date,omitempty"`
	OptReceipt    VisaDocument `json:"opt_receipt"`
	OptEAD        VisaDocument `json:"opt_ead"`
	I983          VisaDocument `json:"i983"`
	I20           VisaDocument `json:"i20"`
}
