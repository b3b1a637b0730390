package utils

import "regexp"

var (
	// E.164 format.
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidPhoneNumber reports whether the string is an E.164 phone number.
func IsValidPhoneNumber(phone string) bool {
	return phoneRe.MatchString(phone)
}

// IsValidDate reports whether the string is syntactically YYYY-MM-DD.
func IsValidDate(date string) bool {
	return dateRe.MatchString(date)
}
