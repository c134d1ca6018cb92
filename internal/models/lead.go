package models

import "time"

// ContactSubmission holds the contact fields of a lead as entered by the
// user. Name is required; at least one of Email/Telegram must be provided,
// which is a cross-field rule enforced by the validator, not here.
type ContactSubmission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Telegram string `json:"telegram"`
	Company  string `json:"company"`
	Role     string `json:"role"`
	Notes    string `json:"notes"`
}

// LeadSubmitRequest is the wire form of a lead submission.
//
// FormToken is the signed token issued when the form mounted. Honeypot is a
// field invisible to legitimate users; any value in it marks the submission
// as automated. CalculatorSessionID is optional and links the lead to a
// calculator session so the estimate can be attached.
type LeadSubmitRequest struct {
	FormToken           string `json:"formToken" binding:"required"`
	CalculatorSessionID string `json:"calculatorSessionId"`
	Honeypot            string `json:"honeypot"`

	Name     string `json:"name"`
	Email    string `json:"email"`
	Telegram string `json:"telegram"`
	Company  string `json:"company"`
	Role     string `json:"role"`
	Notes    string `json:"notes"`
}

// Contact extracts the contact fields for validation and payload assembly.
func (r *LeadSubmitRequest) Contact() ContactSubmission {
	return ContactSubmission{
		Name:     r.Name,
		Email:    r.Email,
		Telegram: r.Telegram,
		Company:  r.Company,
		Role:     r.Role,
		Notes:    r.Notes,
	}
}

// CalculatorSnapshot is the calculator context attached to a submission
// payload when the user interacted with the calculator.
type CalculatorSnapshot struct {
	Participants int            `json:"participants"`
	Format       SessionFormat  `json:"format"`
	AddOns       AddOnSelection `json:"addOns"`
	Pricing      PriceBreakdown `json:"pricing"`
}

// ContactPayload is the contact part of the wire payload. Absent optional
// fields are encoded as null.
type ContactPayload struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Telegram *string `json:"telegram"`
	Company  *string `json:"company"`
	Role     *string `json:"role"`
	Notes    *string `json:"notes"`
}

// SubmissionPayload is the wire artifact delivered to the lead webhook (or
// logged locally when no webhook is configured). Calculator is null when the
// user never touched the calculator.
type SubmissionPayload struct {
	Calculator  *CalculatorSnapshot `json:"calculator"`
	Contact     ContactPayload      `json:"contact"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

// NewContactPayload converts a validated submission into its wire form,
// mapping empty optional fields to null.
func NewContactPayload(c ContactSubmission) ContactPayload {
	return ContactPayload{
		Name:     c.Name,
		Email:    optional(c.Email),
		Telegram: optional(c.Telegram),
		Company:  optional(c.Company),
		Role:     optional(c.Role),
		Notes:    optional(c.Notes),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LeadSubmitResponse is returned to the form. Spam rejections intentionally
// look identical to a successful submission (Success=true, no estimate), so
// bots learn nothing; the real outcome is logged and counted server-side.
type LeadSubmitResponse struct {
	Success       bool              `json:"success"`
	Name          string            `json:"name,omitempty"`
	EstimateTotal *int              `json:"estimateTotal,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	Error         string            `json:"error,omitempty"`
}
