package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// ErrorCode is the machine-readable error class in failure responses.
type ErrorCode string

// Error codes of the public API.
const (
	CodeInvalidParams ErrorCode = "INVALID_PARAMS"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeAuthRequired  ErrorCode = "AUTH_REQUIRED"
	CodeAuthInvalid   ErrorCode = "AUTH_INVALID"
	CodeRateLimit     ErrorCode = "RATE_LIMIT"
	CodeInternal      ErrorCode = "INTERNAL"
)

// ErrorResponse is the failure envelope of every endpoint.
type ErrorResponse struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Hint      string    `json:"hint,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		Retryable: retryable(code),
	})
}

func writeErrorHint(w http.ResponseWriter, status int, code ErrorCode, message, hint string) {
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		Retryable: retryable(code),
		Hint:      hint,
	})
}

// retryable marks error classes where the same request can succeed later
// without modification.
func retryable(code ErrorCode) bool {
	return code == CodeRateLimit || code == CodeInternal
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidParams,
		domain.ErrNoSearchableTerms,
		domain.ErrNotFound,
		domain.ErrAuthRequired,
		domain.ErrAuthInvalid,
		domain.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// rateLimitHandler handles quota exhaustion with the reset time surfaced in
// both the Retry-After header and the hint.
func rateLimitHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrRateLimited) {
		return false
	}
	var rle *domain.RateLimitError
	if errors.As(err, &rle) {
		retryAfter := time.Until(rle.ResetsAt).Seconds()
		if retryAfter < 0 {
			retryAfter = 0
		}
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
		writeErrorHint(w, http.StatusTooManyRequests, CodeRateLimit, msg,
			"daily quota resets at "+rle.ResetsAt.Format(time.RFC3339))
		return true
	}
	writeError(w, http.StatusTooManyRequests, CodeRateLimit, msg)
	return true
}

// noSearchableTermsHandler distinguishes a query with no usable signal from
// a plain validation failure by attaching a hint.
func noSearchableTermsHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrNoSearchableTerms) {
		return false
	}
	writeErrorHint(w, http.StatusBadRequest, CodeInvalidParams, msg,
		"the query contains no searchable terms after normalization")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
