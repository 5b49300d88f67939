package services

import "unicode/utf8"

const MinPasswordLength = 6

func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return newValidationError("password", "password must be at least 6 characters")
	}
	return nil
}
