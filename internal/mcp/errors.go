package mcp

import "fmt"

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalidArgument(field, message string) *APIError {
	return &APIError{
		Code:         "INVALID_ARGUMENT",
		Message:      fmt.Sprintf("%s %s", field, message),
		RecoveryHint: "Check the tool input schema",
	}
}

func validateID(id int64) error {
	if id <= 0 {
		return invalidArgument("id", "must be a positive integer")
	}
	return nil
}

func validatePage(offset, limit int) error {
	if offset < 0 {
		return invalidArgument("offset", "must not be negative")
	}
	if limit < 0 {
		return invalidArgument("limit", "must not be negative")
	}
	return nil
}
