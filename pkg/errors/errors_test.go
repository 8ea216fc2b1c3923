package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSpecifier, "cannot parse %q", "???")

	if err.Code != ErrCodeInvalidSpecifier {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSpecifier)
	}

	if err.Message != `cannot parse "???"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_SPECIFIER: cannot parse "???"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 2")
	err := Wrap(ErrCodeCompileFailed, cause, "pip-compile failed")

	if err.Code != ErrCodeCompileFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCompileFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePackageNotFound, "no such package"),
			code:     ErrCodePackageNotFound,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodePackageNotFound, "no such package"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeMissingDirectory, errors.New("stat failed"), "requirements dir"),
			code:     ErrCodeMissingDirectory,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if code := GetCode(New(ErrCodeInstallFailed, "pip install")); code != ErrCodeInstallFailed {
		t.Errorf("GetCode() = %v, want %v", code, ErrCodeInstallFailed)
	}
	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode() = %v, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeMissingDirectory, "requirements directory does not exist")
	if msg := UserMessage(err); msg != "requirements directory does not exist" {
		t.Errorf("UserMessage() = %v", msg)
	}
	plain := errors.New("plain error")
	if msg := UserMessage(plain); msg != "plain error" {
		t.Errorf("UserMessage() = %v", msg)
	}
}
