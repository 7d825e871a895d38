package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodePackageNotFound, "no package matches %q", "openssl")

	if err.Code != ErrCodePackageNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodePackageNotFound)
	}
	want := `PACKAGE_NOT_FOUND: no package matches "openssl"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("exit status 1")
	err := Wrap(ErrCodeMetadataUnavailable, cause, "portageq metadata for %s", "cat/pkg")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	want := "METADATA_UNAVAILABLE: portageq metadata for cat/pkg: exit status 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidPattern, "bad pattern")

	if !Is(err, ErrCodeInvalidPattern) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is should not match a plain error")
	}

	// The code is found through wrapping layers.
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodeInvalidPattern) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeReportMalformed, "x")); got != ErrCodeReportMalformed {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeReportMalformed)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %q, want empty for a plain error", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeAmbiguousPackage, "3 packages match")
	if got := UserMessage(err); got != "3 packages match" {
		t.Errorf("UserMessage = %q, want the bare message", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage = %q, want the error string", got)
	}
}
