// Package validation implements the contact submission rules. The rules are
// deliberately hand-rolled: the email pattern and the telegram handle forms
// must match what the frontend enforces, character for character, so both
// sides agree on what a valid submission is.
package validation

import (
	"regexp"
	"strings"

	"github.com/stratsession/stratsession-api/internal/models"
)

// Field error messages shown inline next to the form fields.
const (
	MsgNameRequired    = "Name is required"
	MsgContactRequired = "Please provide email or Telegram"
	MsgInvalidEmail    = "Please enter a valid email"
	MsgInvalidTelegram = "Use @username or t.me/username"
)

// Synthetic field for the cross-field contact-method rule.
const FieldContact = "contact"

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telegramPattern = regexp.MustCompile(`(?i)^@\w{5,}$|^(https?://)?(t\.me|telegram\.me)/\w{5,}$`)
)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidTelegram reports whether s is an @username (5+ word characters) or
// a t.me/telegram.me URL form.
func IsValidTelegram(s string) bool {
	return telegramPattern.MatchString(s)
}

// ValidateContact checks a contact submission and returns a map from field
// name to message, empty iff the submission is valid.
//
// Presence and format are independent checks: a malformed-but-present email
// satisfies the "at least one contact method" rule and fails only the email
// format check.
func ValidateContact(c models.ContactSubmission) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = MsgNameRequired
	}

	email := strings.TrimSpace(c.Email)
	telegram := strings.TrimSpace(c.Telegram)

	if email == "" && telegram == "" {
		errs[FieldContact] = MsgContactRequired
	}
	if email != "" && !IsValidEmail(email) {
		errs["email"] = MsgInvalidEmail
	}
	if telegram != "" && !IsValidTelegram(telegram) {
		errs["telegram"] = MsgInvalidTelegram
	}

	return errs
}
