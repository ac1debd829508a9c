package model

import "testing"

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "Route '/x' not found"}
	want := "NOT_FOUND: Route '/x' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Route", "/x")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "Route '/x' not found" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Invalid request",
		FieldError{Field: "pageNo", Message: "must be a number"},
		FieldError{Field: "numOfRows", Message: "must be a number"},
	)
	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if len(err.Details) != 2 {
		t.Errorf("Details length = %d, want 2", len(err.Details))
	}
}

func TestNewUpstreamError(t *testing.T) {
	err := NewUpstreamError("upstream request failed", "HTTP 500", "https://apis.example/x")
	if err.Code != ErrUpstream {
		t.Errorf("Code = %q, want %q", err.Code, ErrUpstream)
	}
	if err.Detail != "HTTP 500" || err.UpstreamURL != "https://apis.example/x" {
		t.Errorf("APIError = %+v", err)
	}
}
