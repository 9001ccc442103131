package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rpggio/roster/internal/view"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The store rejected or could not apply the operation
	ExitCommandError = 2 // Invalid flags, unusable database path, etc.
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// statusOutput is the JSON shape for commands that only report a status.
type statusOutput struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
	Value  any    `json:"value,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeStatus prints a status line, or a statusOutput in JSON mode. A failed
// status becomes an ExitFailure error and, in text mode, is left for the
// caller to report on stderr.
func writeStatus(w io.Writer, format string, ok bool, status string, value any) error {
	if !ok {
		// A failed call's value is a typed zero, often a nil pointer.
		value = nil
	}
	if format == "json" {
		if err := writeJSON(w, statusOutput{OK: ok, Status: status, Value: value}); err != nil {
			return err
		}
	} else if ok {
		fmt.Fprintln(w, status)
	}
	if !ok {
		return NewExitError(ExitFailure, status)
	}
	return nil
}

func writeItems(w io.Writer, items []view.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Initial, item.Name, item.Subtitle)
	}
	return tw.Flush()
}
