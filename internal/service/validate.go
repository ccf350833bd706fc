package service

import (
	"net/mail"
	"strings"
)

// Shared validators so every mutating operation applies the same rules.

const minPasswordLength = 6

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
