package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/web-source-dev/dealboard/types"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "query", "export")
	Cause       string   // The underlying cause (e.g., "unknown view")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("failed to %s", e.Operation))
	} else {
		msg.WriteString("operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewValidationError creates an error for a flag value that cannot be used
func NewValidationError(operation, flag, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", flag, value),
		Suggestions: suggestions,
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewViewError creates an error for an unknown or missing view
func NewViewError(operation, name string, available []string) *CLIError {
	suggestions := []string{
		"Use --view to pick a list page",
		"Run 'dealboard views' to see available views",
	}
	if len(available) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Available views: %s", strings.Join(available, ", ")))
	}

	cause := fmt.Sprintf("unknown view %q", name)
	if name == "" {
		cause = "no view given"
	}
	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Suggestions: suggestions,
	}
}

// NewFilterError creates an error for a malformed --filter argument
func NewFilterError(operation, filter, issue string) *CLIError {
	ops := make([]string, 0, len(types.Operators()))
	for _, op := range types.Operators() {
		ops = append(ops, string(op))
	}

	return &CLIError{
		Operation: operation,
		Cause:     fmt.Sprintf("invalid filter %q: %s", filter, issue),
		Suggestions: []string{
			"Use format: --filter field:operator:value",
			fmt.Sprintf("Available operators: %s", strings.Join(ops, ", ")),
			"Separate inSet members with commas: --filter status:in:active,inactive",
			"Run 'dealboard views <name>' to see the fields of a view",
		},
	}
}

// NewDataError creates an error for dataset loading and saving issues
func NewDataError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "data operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		errStr := strings.ToLower(underlying.Error())
		switch {
		case strings.Contains(errStr, "no such file"):
			cause = "data file not found"
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access data file"
		case strings.Contains(errStr, "lock"):
			cause = "data file is currently locked by another process"
		case strings.Contains(errStr, "parse"), strings.Contains(errStr, "want an"):
			cause = "data file is not a valid record snapshot"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// WrapError wraps an existing error with CLI-friendly context.
// Configuration errors from the query pipeline point at the flags;
// anything else is treated as a data error.
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	if types.IsConfigError(err) {
		if len(suggestions) == 0 {
			suggestions = []string{CommonSuggestions.CheckFlags, CommonSuggestions.CheckFields}
		}
		return &CLIError{
			Operation:   operation,
			Cause:       err.Error(),
			Suggestions: suggestions,
			Underlying:  err,
		}
	}

	return NewDataError(operation, err, suggestions...)
}

// Common error messages and suggestions
var (
	CommonSuggestions = struct {
		CheckData   string
		CheckFields string
		CheckConfig string
		CheckFlags  string
		RunHelp     string
		CheckPerms  string
	}{
		CheckData:   "Verify --data points to a JSON or YAML record snapshot",
		CheckFields: "Run 'dealboard views <name>' to see the fields of a view",
		CheckConfig: "Check your configuration file or environment variables",
		CheckFlags:  "Check command line flags and their values",
		RunHelp:     "Run command with --help for usage information",
		CheckPerms:  "Check file permissions and directory access",
	}
)
