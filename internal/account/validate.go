// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package account

import (
	"strings"
	"unicode/utf8"
)

// ValidateRegistration applies the registration rules in their fixed
// priority order and returns the first violation, or nil when all pass.
// The order is significant: clients render exactly one error per call, so
// the rule sequence (email format, username-not-email, username length,
// password length) must not be reshuffled.
func ValidateRegistration(username, email, password string) *FieldError {
	if !strings.Contains(email, "@") {
		return &FieldError{Field: "email", Message: "invalid email address"}
	}
	if strings.Contains(username, "@") {
		return &FieldError{Field: "email", Message: "invalid username character @"}
	}
	// Lengths are in characters, not bytes: a two-rune multibyte name is
	// still too short.
	if utf8.RuneCountInString(username) <= 2 {
		return &FieldError{Field: "username", Message: "length must be greater than 2"}
	}
	if utf8.RuneCountInString(password) <= 2 {
		return &FieldError{Field: "password", Message: "length must be greater than 2"}
	}
	return nil
}

// ValidateNewPassword guards the change-password path. Shares the length
// rule with registration but reports against the newPassword field.
func ValidateNewPassword(newPassword string) *FieldError {
	if utf8.RuneCountInString(newPassword) <= 2 {
		return &FieldError{Field: "newPassword", Message: "Password must be at least 2 characters"}
	}
	return nil
}
