package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Wizard errors (WIZARD-001 to WIZARD-099)
	ErrCodeWizardStepNotReady  ErrorCode = "WIZARD-001"
	ErrCodeWizardNotComplete   ErrorCode = "WIZARD-002"
	ErrCodeWizardClosed        ErrorCode = "WIZARD-003"
	ErrCodeWizardUnknownStep   ErrorCode = "WIZARD-004"
	ErrCodeWizardNestedPending ErrorCode = "WIZARD-005"

	// Lookup errors (LOOKUP-001 to LOOKUP-099)
	ErrCodeLookupFailed          ErrorCode = "LOOKUP-001"
	ErrCodeLookupCompanyName     ErrorCode = "LOOKUP-002"
	ErrCodeLookupUnknownKind     ErrorCode = "LOOKUP-003"
	ErrCodeLookupScopeSuperseded ErrorCode = "LOOKUP-004"

	// Submission errors (SUBMIT-001 to SUBMIT-099)
	ErrCodeSubmitFailed   ErrorCode = "SUBMIT-001"
	ErrCodeSubmitRejected ErrorCode = "SUBMIT-002"
	ErrCodeAttachConflict ErrorCode = "SUBMIT-003"
	ErrCodeAttachFailed   ErrorCode = "SUBMIT-004"
	ErrCodeCreateFailed   ErrorCode = "SUBMIT-005"

	// Tracker API errors (API-001 to API-099)
	ErrCodeAPIRequest      ErrorCode = "API-001"
	ErrCodeAPIStatus       ErrorCode = "API-002"
	ErrCodeAPIDecode       ErrorCode = "API-003"
	ErrCodeAPIUnauthorized ErrorCode = "API-004"
	ErrCodeAPINotFound     ErrorCode = "API-005"
	ErrCodeAPITimeout      ErrorCode = "API-006"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid     ErrorCode = "CONFIG-002"
	ErrCodeConfigNoBaseURL   ErrorCode = "CONFIG-003"
	ErrCodeConfigNoToken     ErrorCode = "CONFIG-004"
	ErrCodeConfigWriteFailed ErrorCode = "CONFIG-005"
)

// SlateError represents an enhanced error with code, suggestions, and documentation
type SlateError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *SlateError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *SlateError) Unwrap() error {
	return e.Cause
}

// New creates a new SlateError
func New(code ErrorCode, message string) *SlateError {
	return &SlateError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new SlateError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *SlateError {
	return &SlateError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *SlateError) WithSuggestion(suggestion string) *SlateError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *SlateError) WithSuggestions(suggestions ...string) *SlateError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *SlateError) WithDocs(url string) *SlateError {
	e.DocsURL = url
	return e
}

// HasCode reports whether err is (or wraps) a SlateError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var se *SlateError
	if !goerrors.As(err, &se) {
		return false
	}
	return se.Code == code
}

// CodeOf returns the error code carried by err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var se *SlateError
	if !goerrors.As(err, &se) {
		return ""
	}
	return se.Code
}

// Common error constructors for frequently used errors

// NewStepNotReadyError reports a blocked forward transition in the wizard.
func NewStepNotReadyError(step string, missing []string) *SlateError {
	err := New(ErrCodeWizardStepNotReady, fmt.Sprintf("step %q is not complete", step))
	for _, field := range missing {
		err = err.WithSuggestion(fmt.Sprintf("Fill in the %q field before continuing", field))
	}
	return err
}

// NewWizardNotCompleteError reports a save attempt while some step is unmet.
func NewWizardNotCompleteError(fields []string) *SlateError {
	return New(ErrCodeWizardNotComplete, fmt.Sprintf("submission is incomplete: %s", strings.Join(fields, ", "))).
		WithSuggestion("Go back and complete the listed fields").
		WithDocs("https://github.com/slatecli/slate#creating-a-submission")
}

// NewWizardClosedError reports use of a wizard session after Cancel.
func NewWizardClosedError() *SlateError {
	return New(ErrCodeWizardClosed, "wizard session is closed").
		WithSuggestion("Start a new submission with 'slate new'")
}

// NewLookupFailedError wraps a failed reference-data fetch.
func NewLookupFailedError(kind string, cause error) *SlateError {
	return Wrap(ErrCodeLookupFailed, fmt.Sprintf("failed to look up %s options", kind), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Run 'slate doctor' to verify tracker connectivity")
}

// NewCompanyNameError wraps a failed company display-name resolution.
func NewCompanyNameError(companyID string, cause error) *SlateError {
	return Wrap(ErrCodeLookupCompanyName, fmt.Sprintf("failed to resolve company name for %s", companyID), cause)
}

// NewAttachConflictError reports an attach call that hit an existing link.
// Callers are expected to treat this as success.
func NewAttachConflictError(role string) *SlateError {
	return New(ErrCodeAttachConflict, fmt.Sprintf("link already exists for role %q", role))
}

// NewSubmitFailedError wraps a failed final create call. The selection is
// preserved so the operator can retry without re-entering anything.
func NewSubmitFailedError(cause error) *SlateError {
	return Wrap(ErrCodeSubmitFailed, "failed to create submission", cause).
		WithSuggestion("Retry with the same selections; nothing was lost").
		WithSuggestion("Run 'slate doctor' if the tracker keeps refusing the request").
		WithDocs("https://github.com/slatecli/slate#troubleshooting")
}

// NewAPIStatusError reports an unexpected HTTP status from the tracker.
func NewAPIStatusError(method, path string, status int) *SlateError {
	return New(ErrCodeAPIStatus, fmt.Sprintf("%s %s returned status %d", method, path, status))
}

// NewUnauthorizedError reports a rejected API token.
func NewUnauthorizedError() *SlateError {
	return New(ErrCodeAPIUnauthorized, "tracker rejected the API token").
		WithSuggestion("Set a valid token with 'slate config set tracker.token <token>'").
		WithSuggestion("Check that the token has not expired").
		WithDocs("https://github.com/slatecli/slate#authentication")
}

// NewConfigNotFoundError reports a missing configuration file.
func NewConfigNotFoundError(path string) *SlateError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithSuggestion("Run 'slate config view' to create a default configuration").
		WithSuggestion("Check if the file path is correct")
}

// NewConfigInvalidError wraps a configuration parse failure.
func NewConfigInvalidError(path string, cause error) *SlateError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("failed to parse configuration: %s", path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion("Ensure the file is valid YAML")
}

// NewConfigNoBaseURLError reports a missing tracker base URL.
func NewConfigNoBaseURLError() *SlateError {
	return New(ErrCodeConfigNoBaseURL, "tracker base URL is not configured").
		WithSuggestion("Set it with 'slate config set tracker.base_url https://tracker.example.com'").
		WithDocs("https://github.com/slatecli/slate#configuration")
}
