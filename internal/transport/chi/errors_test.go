package chi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/glyphdex/glyphdex/internal/domain"
)

func errorServer() *Server {
	return NewServer(nil, nil, nil, nil, nil, zap.NewNop())
}

func TestHandleDomainError_SentinelMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   ErrorCode
		retryable  bool
	}{
		{domain.ErrInvalidParams, http.StatusBadRequest, CodeInvalidParams, false},
		{fmt.Errorf("limit out of range: %w", domain.ErrInvalidParams), http.StatusBadRequest, CodeInvalidParams, false},
		{domain.ErrNotFound, http.StatusNotFound, CodeNotFound, false},
		{domain.ErrAuthRequired, http.StatusUnauthorized, CodeAuthRequired, false},
		{domain.ErrAuthInvalid, http.StatusUnauthorized, CodeAuthInvalid, false},
		{errors.New("something exploded"), http.StatusInternalServerError, CodeInternal, true},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		errorServer().handleDomainError(rr, tt.err)

		if rr.Code != tt.wantStatus {
			t.Errorf("%v: status %d, want %d", tt.err, rr.Code, tt.wantStatus)
		}
		resp := decodeError(t, rr)
		if resp.Code != tt.wantCode {
			t.Errorf("%v: code %s, want %s", tt.err, resp.Code, tt.wantCode)
		}
		if resp.Retryable != tt.retryable {
			t.Errorf("%v: retryable %v, want %v", tt.err, resp.Retryable, tt.retryable)
		}
	}
}

func TestHandleDomainError_RateLimit(t *testing.T) {
	resetsAt := time.Now().Add(3 * time.Hour).Truncate(time.Second)
	rr := httptest.NewRecorder()
	errorServer().handleDomainError(rr, domain.NewRateLimit(100, resetsAt))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want %d", rr.Code, http.StatusTooManyRequests)
	}

	resp := decodeError(t, rr)
	if resp.Code != CodeRateLimit {
		t.Errorf("code %s, want %s", resp.Code, CodeRateLimit)
	}
	if !resp.Retryable {
		t.Error("a rate-limited request is retryable after the reset")
	}
	if resp.Hint == "" {
		t.Error("expected a reset-time hint")
	}

	retryAfter, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	if err != nil {
		t.Fatalf("Retry-After header not numeric: %v", err)
	}
	if retryAfter <= 0 || retryAfter > 3*3600 {
		t.Errorf("implausible Retry-After: %d", retryAfter)
	}
}

func TestHandleDomainError_NoSearchableTerms(t *testing.T) {
	rr := httptest.NewRecorder()
	errorServer().handleDomainError(rr,
		fmt.Errorf("%w: query %q", domain.ErrNoSearchableTerms, "***"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeError(t, rr)
	if resp.Code != CodeInvalidParams {
		t.Errorf("code %s, want %s", resp.Code, CodeInvalidParams)
	}
	if resp.Hint == "" {
		t.Error("expected a normalization hint")
	}
}

func TestSafeDomainMessage_HidesInternals(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.5:6379: connection refused")
	if msg := safeDomainMessage(err); msg != "internal error" {
		t.Errorf("internal detail leaked: %q", msg)
	}

	wrapped := fmt.Errorf("collection nope: %w", domain.ErrNotFound)
	if msg := safeDomainMessage(wrapped); msg != domain.ErrNotFound.Error() {
		t.Errorf("expected sentinel message, got %q", msg)
	}
}

func TestRetryable(t *testing.T) {
	if retryable(CodeInvalidParams) || retryable(CodeNotFound) ||
		retryable(CodeAuthRequired) || retryable(CodeAuthInvalid) {
		t.Error("client errors are not retryable")
	}
	if !retryable(CodeRateLimit) || !retryable(CodeInternal) {
		t.Error("rate limits and internal failures are retryable")
	}
}
