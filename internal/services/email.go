package services

import (
	"net/mail"
	"strings"
)

// NormEmail lowercases and trims an address. The parent dashboard is
// scoped by comparing the authenticated email against the free-text
// email entered at registration time, so both sides go through this.
func NormEmail(s string) (string, bool) {
	e := strings.TrimSpace(strings.ToLower(s))
	if e == "" {
		return "", true // treat empty as ok/optional
	}
	_, err := mail.ParseAddress(e)
	return e, err == nil
}
