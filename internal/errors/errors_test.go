package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestNewUsesRegistryDefaults(t *testing.T) {
	err := New(CodeStoreFailure, "")
	if err.Message() != "store failure" {
		t.Fatalf("expected registry message, got %q", err.Message())
	}
	if !err.Retryable() {
		t.Fatal("store failures default to retryable")
	}
	if err.Severity() != SeverityCritical {
		t.Fatalf("expected critical severity, got %s", err.Severity())
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	err := New(CodeStoreFailure, "down",
		WithRetryable(false),
		WithSeverity(SeverityWarning),
		WithMetadata("address", "localhost:6379"),
	)
	if err.Retryable() {
		t.Fatal("expected retryable override")
	}
	if err.Severity() != SeverityWarning {
		t.Fatalf("expected warning severity, got %s", err.Severity())
	}
	meta := err.Metadata()
	if meta["address"] != "localhost:6379" {
		t.Fatalf("unexpected metadata: %v", meta)
	}
	meta["address"] = "mutated"
	if err.Metadata()["address"] != "localhost:6379" {
		t.Fatal("metadata must be copied on read")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeStoreFailure, cause, "redis unavailable")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped cause must be reachable via errors.Is")
	}
	if err.Error() != "[STORE_FAILURE] redis unavailable: connection refused" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestIsComparesCodes(t *testing.T) {
	a := New(CodeNotFound, "key not found")
	b := New(CodeNotFound, "member not found")
	if !stdErrors.Is(a, b) {
		t.Fatal("errors with the same code must match")
	}
	if stdErrors.Is(a, New(CodeTimeout, "")) {
		t.Fatal("errors with different codes must not match")
	}
}

func TestFromUnwrapsNestedErrors(t *testing.T) {
	inner := New(CodeInvalidArgument, "bad index")
	wrapped := fmt.Errorf("handling request: %w", inner)

	e, ok := From(wrapped)
	if !ok {
		t.Fatal("expected to recover the typed error")
	}
	if e.Code() != CodeInvalidArgument {
		t.Fatalf("unexpected code: %s", e.Code())
	}
	if CodeOf(wrapped) != CodeInvalidArgument {
		t.Fatalf("unexpected CodeOf: %s", CodeOf(wrapped))
	}
	if CodeOf(stdErrors.New("plain")) != CodeUnknown {
		t.Fatal("untyped errors map to UNKNOWN")
	}
}

func TestRegisterNewCode(t *testing.T) {
	const code Code = "QUOTA_EXCEEDED"
	Register(code, Attributes{Message: "quota exceeded", Severity: SeverityWarning, Retryable: true})

	err := New(code, "")
	if err.Message() != "quota exceeded" || err.Severity() != SeverityWarning || !err.Retryable() {
		t.Fatalf("registered attributes not applied: %v", err)
	}
	if AttributesOf("NEVER_REGISTERED").Message != "unknown error" {
		t.Fatal("unregistered codes fall back to UNKNOWN attributes")
	}
}
