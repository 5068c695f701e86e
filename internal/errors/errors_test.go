package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeLookupFailed, "test error message")

	if err.Code != ErrCodeLookupFailed {
		t.Errorf("expected code %s, got %s", ErrCodeLookupFailed, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeAPIRequest, "request failed", cause)

	if err.Code != ErrCodeAPIRequest {
		t.Errorf("expected code %s, got %s", ErrCodeAPIRequest, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	// Test unwrapping
	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *SlateError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeWizardNotComplete, "submission incomplete"),
			wantCode: "WIZARD-002",
			wantMsg:  "submission incomplete",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeAPIDecode, "decode failed", fmt.Errorf("unexpected end of JSON input")),
			wantCode: "API-003",
			wantMsg:  "unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrCodeConfigNotFound, "config not found").
		WithSuggestion("Check the file path")

	if len(err.Suggestions) != 1 {
		t.Errorf("expected 1 suggestion, got %d", len(err.Suggestions))
	}

	if err.Suggestions[0] != "Check the file path" {
		t.Errorf("unexpected suggestion: %s", err.Suggestions[0])
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "Suggestions:") {
		t.Errorf("error string should contain suggestions section")
	}

	if !strings.Contains(errStr, "Check the file path") {
		t.Errorf("error string should contain suggestion text")
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeSubmitFailed, "submit failed").
		WithSuggestions("Suggestion 1", "Suggestion 2", "Suggestion 3")

	if len(err.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(err.Suggestions))
	}

	errStr := err.Error()
	for _, suggestion := range err.Suggestions {
		if !strings.Contains(errStr, suggestion) {
			t.Errorf("error string should contain suggestion: %s", suggestion)
		}
	}
}

func TestWithDocs(t *testing.T) {
	docsURL := "https://github.com/slatecli/slate#docs"
	err := New(ErrCodeConfigInvalid, "invalid config").
		WithDocs(docsURL)

	if err.DocsURL != docsURL {
		t.Errorf("expected DocsURL %s, got %s", docsURL, err.DocsURL)
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "Documentation:") {
		t.Errorf("error string should contain documentation section")
	}

	if !strings.Contains(errStr, docsURL) {
		t.Errorf("error string should contain docs URL")
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{
			name: "direct match",
			err:  NewAttachConflictError("Creative Developer"),
			code: ErrCodeAttachConflict,
			want: true,
		},
		{
			name: "wrapped match",
			err:  fmt.Errorf("attach creative: %w", NewAttachConflictError("Creative Developer")),
			code: ErrCodeAttachConflict,
			want: true,
		},
		{
			name: "different code",
			err:  NewSubmitFailedError(fmt.Errorf("boom")),
			code: ErrCodeAttachConflict,
			want: false,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("plain"),
			code: ErrCodeAttachConflict,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			code: ErrCodeAttachConflict,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewUnauthorizedError()); got != ErrCodeAPIUnauthorized {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeAPIUnauthorized)
	}

	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf() on plain error = %s, want empty", got)
	}
}

func TestNewStepNotReadyError(t *testing.T) {
	err := NewStepNotReadyError("recipients", []string{"recipients"})

	if err.Code != ErrCodeWizardStepNotReady {
		t.Errorf("expected code %s, got %s", ErrCodeWizardStepNotReady, err.Code)
	}

	if !strings.Contains(err.Message, "recipients") {
		t.Errorf("error message should contain the step key")
	}

	if len(err.Suggestions) != 1 {
		t.Errorf("expected 1 suggestion, got %d", len(err.Suggestions))
	}
}

func TestNewSubmitFailedError(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewSubmitFailedError(cause)

	if err.Code != ErrCodeSubmitFailed {
		t.Errorf("expected code %s, got %s", ErrCodeSubmitFailed, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be preserved")
	}

	if len(err.Suggestions) < 2 {
		t.Errorf("expected at least 2 suggestions, got %d", len(err.Suggestions))
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "slate doctor") {
		t.Errorf("suggestions should mention slate doctor")
	}
}

func TestNewLookupFailedError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := NewLookupFailedError("executives", cause)

	if err.Code != ErrCodeLookupFailed {
		t.Errorf("expected code %s, got %s", ErrCodeLookupFailed, err.Code)
	}

	if !strings.Contains(err.Message, "executives") {
		t.Errorf("error message should contain the lookup kind")
	}

	if !errors.Is(err, cause) {
		t.Errorf("cause should be reachable via errors.Is")
	}
}

func TestNewAPIStatusError(t *testing.T) {
	err := NewAPIStatusError("POST", "/subs", 500)

	if err.Code != ErrCodeAPIStatus {
		t.Errorf("expected code %s, got %s", ErrCodeAPIStatus, err.Code)
	}

	for _, want := range []string{"POST", "/subs", "500"} {
		if !strings.Contains(err.Message, want) {
			t.Errorf("error message should contain %q, got: %s", want, err.Message)
		}
	}
}

func TestNewConfigNotFoundError(t *testing.T) {
	err := NewConfigNotFoundError("/home/op/.slate/config.yaml")

	if err.Code != ErrCodeConfigNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeConfigNotFound, err.Code)
	}

	if !strings.Contains(err.Message, "/home/op/.slate/config.yaml") {
		t.Errorf("error message should contain file path")
	}

	if len(err.Suggestions) < 2 {
		t.Errorf("expected at least 2 suggestions, got %d", len(err.Suggestions))
	}
}

func TestErrorChaining(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "validation failed").
		WithSuggestion("Check field 'tracker.base_url'").
		WithSuggestion("Check field 'tracker.token'").
		WithDocs("https://example.com/docs")

	if len(err.Suggestions) != 2 {
		t.Errorf("expected 2 suggestions, got %d", len(err.Suggestions))
	}

	if err.DocsURL == "" {
		t.Errorf("expected docs URL to be set")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "CONFIG-002") {
		t.Errorf("error should contain code")
	}

	if !strings.Contains(errStr, "Check field 'tracker.base_url'") {
		t.Errorf("error should contain first suggestion")
	}

	if !strings.Contains(errStr, "https://example.com/docs") {
		t.Errorf("error should contain docs URL")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeAPIRequest, "request failed", cause)

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap should return the cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with wrapped errors")
	}
}

func TestErrorCodes(t *testing.T) {
	// Every code follows the CATEGORY-NNN pattern.
	codes := []ErrorCode{
		ErrCodeWizardStepNotReady,
		ErrCodeWizardNotComplete,
		ErrCodeWizardClosed,
		ErrCodeWizardUnknownStep,
		ErrCodeWizardNestedPending,

		ErrCodeLookupFailed,
		ErrCodeLookupCompanyName,
		ErrCodeLookupUnknownKind,
		ErrCodeLookupScopeSuperseded,

		ErrCodeSubmitFailed,
		ErrCodeSubmitRejected,
		ErrCodeAttachConflict,
		ErrCodeAttachFailed,
		ErrCodeCreateFailed,

		ErrCodeAPIRequest,
		ErrCodeAPIStatus,
		ErrCodeAPIDecode,
		ErrCodeAPIUnauthorized,
		ErrCodeAPINotFound,
		ErrCodeAPITimeout,

		ErrCodeConfigNotFound,
		ErrCodeConfigInvalid,
		ErrCodeConfigNoBaseURL,
		ErrCodeConfigNoToken,
		ErrCodeConfigWriteFailed,
	}

	for _, code := range codes {
		codeStr := string(code)

		if !strings.Contains(codeStr, "-") {
			t.Errorf("error code %s should contain hyphen", code)
		}

		parts := strings.Split(codeStr, "-")
		if len(parts) != 2 {
			t.Errorf("error code %s should have format CATEGORY-NNN", code)
		}

		if len(parts[1]) != 3 {
			t.Errorf("error code %s should have 3-digit number", code)
		}
	}
}
