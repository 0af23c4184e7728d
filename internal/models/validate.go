package models

import (
	"regexp"
	"strings"
)

var (
	phoneStrip    = regexp.MustCompile(`[^\d+]`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\+?1?\d{10}$`),       // national numbers with optional +1
		regexp.MustCompile(`^\+\d{1,3}\d{7,14}$`), // international
		regexp.MustCompile(`^\d{7,15}$`),          // generic
	}
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// maxAgeYears bounds how far back a birthday may lie.
const maxAgeYears = 150

// NormalizePhone strips formatting from phone and validates what is left.
func NormalizePhone(phone string) (string, error) {
	cleaned := phoneStrip.ReplaceAllString(phone, "")
	for _, re := range phonePatterns {
		if re.MatchString(cleaned) {
			return cleaned, nil
		}
	}
	return "", validationf("invalid phone number %q", phone)
}

// NormalizeEmail validates email and returns it lowercased.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", validationf("invalid email address %q", email)
	}
	return strings.ToLower(email), nil
}

// ValidateBirthday rejects dates in the future or implausibly far in the past.
func ValidateBirthday(d, today Date) error {
	if today.Before(d) {
		return validationf("birthday %s is in the future", d)
	}
	if today.Year-d.Year > maxAgeYears {
		return validationf("birthday %s is more than %d years ago", d, maxAgeYears)
	}
	return nil
}
