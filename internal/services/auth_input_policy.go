package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return ""
	}
	return email
}

// NormalizeRegisterInput trims the fields and returns the first violated rule.
func NormalizeRegisterInput(input RegisterInput) (RegisterInput, error) {
	username := strings.TrimSpace(input.Username)
	length := utf8.RuneCountInString(username)
	if length < MinUsernameLength || length > MaxUsernameLength {
		return RegisterInput{}, newValidationError("username", "username must be between 3 and 50 characters")
	}

	email := NormalizeAuthEmail(input.Email)
	if email == "" {
		return RegisterInput{}, newValidationError("email", "invalid email address")
	}

	if err := ValidatePasswordStrength(input.Password); err != nil {
		return RegisterInput{}, err
	}

	return RegisterInput{Username: username, Email: email, Password: input.Password}, nil
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return "", "", newValidationError("email", "invalid email address")
	}
	if passwordRaw == "" {
		return "", "", newValidationError("password", "password is required")
	}
	return email, passwordRaw, nil
}
