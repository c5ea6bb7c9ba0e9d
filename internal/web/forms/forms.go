// Package forms implements the local form validations performed before any
// upstream request is issued. A validation failure blocks the request entirely.
package forms

import (
	"net/http"
	"regexp"
	"strings"
)

// Error represents a single local validation failure with its user-facing message
type Error struct {
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

// A deliberately simple 'local@domain.tld' shape check; everything stricter is
// the server's business.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)

// Text extracts and trims a form value out of the given request
func Text(request *http.Request, key string) string {
	return strings.TrimSpace(request.FormValue(key))
}

// RequireText extracts and trims a form value and validates it is non-empty
func RequireText(request *http.Request, key, message string) (string, *Error) {
	value := Text(request, key)
	if value == "" {
		return "", &Error{Message: message}
	}
	return value, nil
}

// Email validates that the given value matches a simple 'local@domain.tld' shape
func Email(value, message string) *Error {
	if !emailPattern.MatchString(value) {
		return &Error{Message: message}
	}
	return nil
}
