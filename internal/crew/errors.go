package crew

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// duplicateEntryRe recognizes MySQL unique-constraint violations in the
// server's error text, e.g.
// "Duplicate entry 'x@y.com' for key 'users.users_email_unique'".
// This is the one place message text is inspected; everything downstream
// relies on the Duplicate flag set here.
var duplicateEntryRe = regexp.MustCompile(`(?i)duplicate entry`)

// APIError is a non-2xx response from the Crew API.
type APIError struct {
	Status    int
	Message   string
	Duplicate bool // unique-constraint violation
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return e.Message
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.Status }

// DuplicateEntry reports whether the failure was a unique-constraint
// violation on the remote service.
func (e *APIError) DuplicateEntry() bool { return e.Duplicate }

// newAPIError builds an APIError from a response body, extracting the
// server's message from either a JSON {"message": …} envelope or plain
// text, and classifying duplicate-entry failures.
func newAPIError(status int, body []byte) *APIError {
	msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{
		Status:    status,
		Message:   msg,
		Duplicate: status == http.StatusConflict || duplicateEntryRe.MatchString(msg),
	}
}

func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	return trimmed
}
