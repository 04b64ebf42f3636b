package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if New(ErrCodeNotFound, "missing", http.StatusNotFound).Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestProviderErrors_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"unsupported", UnsupportedProvider("foo", []string{"gpt", "claude"}), ErrCodeUnsupportedProvider, http.StatusBadRequest},
		{"unavailable", ProviderUnavailable("groq", "missing API key"), ErrCodeProviderUnavailable, http.StatusServiceUnavailable},
		{"upstream", UpstreamStream("gpt", "gpt-4o", fmt.Errorf("reset")), ErrCodeUpstreamStream, http.StatusBadGateway},
		{"exhausted", FallbackExhausted("gpt", "a", nil, "b", nil), ErrCodeFallbackExhausted, http.StatusBadGateway},
		{"validation", Validation("bad"), ErrCodeValidation, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.status)
			}
		})
	}
}

func TestUnsupportedProvider_Message(t *testing.T) {
	err := UnsupportedProvider("foo", []string{"gpt", "claude"})
	want := "Invalid provider. Supported providers are: gpt, claude"
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}

func TestFallbackExhausted_CarriesBothCauses(t *testing.T) {
	first := UpstreamStream("claude", "sonnet", fmt.Errorf("connection reset"))
	second := UpstreamStream("claude", "haiku", fmt.Errorf("status 529"))
	err := FallbackExhausted("claude", "sonnet", first, "haiku", second)

	for _, part := range []string{"provider claude", "connection reset", "status 529", "sonnet", "haiku"} {
		if !strings.Contains(err.Message, part) {
			t.Errorf("Message %q missing %q", err.Message, part)
		}
	}
	if !stderrors.Is(err, ErrUpstreamStream) {
		t.Error("expected fallback cause to remain reachable via errors.Is")
	}
}

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("get adapter: %w", ProviderUnavailable("gpt", "missing API key"))
	if !stderrors.Is(wrapped, ErrProviderUnavailable) {
		t.Error("expected errors.Is to match PROVIDER_UNAVAILABLE")
	}
	if stderrors.Is(wrapped, ErrUnsupportedProvider) {
		t.Error("did not expect UNSUPPORTED_PROVIDER match")
	}
	if !HasCode(wrapped, ErrCodeProviderUnavailable) {
		t.Error("HasCode should see through wrapping")
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Internal(fmt.Errorf("boom"))
	if !strings.Contains(err.Error(), "INTERNAL_ERROR") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestAppError_ToResponse(t *testing.T) {
	err := Validation("Conversation exceeds maximum of 50 messages").WithDetail("field", "messages")
	resp := err.ToResponse("req-1")
	if resp.Status != "error" {
		t.Errorf("Status = %q, want %q", resp.Status, "error")
	}
	if resp.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want %q", resp.RequestID, "req-1")
	}
	if resp.Error.Code != ErrCodeValidation {
		t.Errorf("Code = %s, want %s", resp.Error.Code, ErrCodeValidation)
	}
	if resp.Error.Details["field"] != "messages" {
		t.Errorf("Details[field] = %v", resp.Error.Details["field"])
	}
	if resp.Timestamp == "" {
		t.Error("expected timestamp")
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error should not convert")
	}
	appErr, ok := AsAppError(fmt.Errorf("wrap: %w", RateLimited()))
	if !ok || appErr.Code != ErrCodeRateLimited {
		t.Errorf("AsAppError = %v, %v", appErr, ok)
	}
}
