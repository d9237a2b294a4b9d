package output

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Exit code constants
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitAPIError    = 3
	ExitConfigError = 4
	ExitTimeout     = 5
	ExitAuthError   = 6
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Err
}

// Classify maps an error from the client, controller or session layers to
// a CLIError. CLIErrors pass through unchanged.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var (
		te *domain.TransportError
		se *domain.ServerError
		de *domain.DecodeError
		ve *domain.ValidationError
		ce *domain.ConflictError
	)
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return &CLIError{Summary: "session expired", Suggestion: "Run 'dolabbctl login' to sign in again", ExitCode: ExitAuthError, Err: err}
	case errors.Is(err, domain.ErrUnauthenticated):
		return &CLIError{Summary: "not logged in", Detail: detailOf(err, domain.ErrUnauthenticated), Suggestion: "Run 'dolabbctl login' first", ExitCode: ExitAuthError, Err: err}
	case errors.Is(err, domain.ErrAlreadyAuthenticated):
		return &CLIError{Summary: "already logged in", Suggestion: "Run 'dolabbctl logout' to switch accounts", ExitCode: ExitUsageError, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &CLIError{Summary: "request timed out", Detail: err.Error(), Suggestion: "Retry, or raise api.timeout / api.list_timeout", ExitCode: ExitTimeout, Err: err}
	case errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden):
		return &CLIError{Summary: se.Message, Detail: fmt.Sprintf("server returned %d", se.Status), Suggestion: "Run 'dolabbctl login' to refresh your session", ExitCode: ExitAuthError, Err: err}
	case errors.As(err, &se):
		return &CLIError{Summary: se.Message, Detail: fmt.Sprintf("server returned %d", se.Status), ExitCode: ExitAPIError, Err: err}
	case errors.As(err, &te):
		return &CLIError{Summary: "could not reach the backend", Detail: err.Error(), Suggestion: "Check api.base_url and your network connection", ExitCode: ExitAPIError, Err: err}
	case errors.As(err, &de):
		return &CLIError{Summary: "unexpected response from the backend", Detail: err.Error(), ExitCode: ExitAPIError, Err: err}
	case errors.As(err, &ve):
		return &CLIError{Summary: "invalid input", Detail: ve.Error(), ExitCode: ExitUsageError, Err: err}
	case errors.As(err, &ce):
		return &CLIError{Summary: ce.Error(), ExitCode: ExitGeneral, Err: err}
	case errors.Is(err, domain.ErrActionNotAllowed), errors.Is(err, domain.ErrUnknownAction):
		return &CLIError{Summary: err.Error(), Suggestion: "Run 'dolabbctl <resource> show <id>' to see the allowed actions", ExitCode: ExitUsageError, Err: err}
	case errors.Is(err, domain.ErrNotFound):
		return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral, Err: err}
	default:
		return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral, Err: err}
	}
}

func detailOf(err, sentinel error) string {
	if errors.Is(err, sentinel) && err.Error() != sentinel.Error() {
		return err.Error()
	}
	return ""
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
