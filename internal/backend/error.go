package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error represents a failed backend call. Status is zero when no response was
// received at all (network failure or timeout); Message carries the backend's
// own error message and is empty when the backend supplied none.
type Error struct {
	Status  int
	Timeout bool
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Timeout {
			return "backend request timed out"
		}
		return "backend unreachable"
	}
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// UserMessage returns the backend's message when present, otherwise a generic
// text for the failure class.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status == 0 {
		if e.Timeout {
			return "Request timeout. Please try again."
		}
		return "Network error. Please check your connection."
	}
	switch e.Status {
	case 403:
		return "You do not have permission to access this resource."
	case 404:
		return "The requested resource was not found."
	case 500:
		return "Server error. Please try again later."
	default:
		return "An unexpected error occurred."
	}
}

// extractMessage pulls the "message" field out of a backend error body. The
// backend sometimes sends a string, sometimes an array of validation strings.
func extractMessage(body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(envelope.Message, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(envelope.Message, &many); err == nil {
		return strings.Join(many, ", ")
	}

	return ""
}
