package resume

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"resumeforge/internal/types"
)

var (
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern      = regexp.MustCompile(`\+?[\d\s\-\(\)]{10,}`)
	phoneSeparators   = regexp.MustCompile(`[\s\-().]`)
	exactEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// minPhoneDigits is the fewest digits a phone number may carry.
const minPhoneDigits = 10

// ExtractEmail returns the first email address in text, or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first phone-like run in text, trimmed, or "".
func ExtractPhone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}

// ValidatePhone reports whether phone carries at least ten digits once
// separators are removed.
func ValidatePhone(phone string) bool {
	digits := 0
	for _, r := range phoneSeparators.ReplaceAllString(phone, "") {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

// ValidateEmail reports whether email is a single well-formed address.
func ValidateEmail(email string) bool {
	return exactEmailPattern.MatchString(email)
}

// ContactIssues lists the contact details of info that are present but
// malformed. Empty fields are not reported.
func ContactIssues(info types.PersonalInfo) []string {
	var issues []string
	if email := strings.TrimSpace(info.Email.String()); email != "" && !ValidateEmail(email) {
		issues = append(issues, fmt.Sprintf("personal_info.email %q is not a valid email address", email))
	}
	if phone := strings.TrimSpace(info.Phone.String()); phone != "" && !ValidatePhone(phone) {
		issues = append(issues, fmt.Sprintf("personal_info.phone %q has fewer than %d digits", phone, minPhoneDigits))
	}
	return issues
}
