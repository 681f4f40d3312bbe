package vecagent

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by APIError.Is. Use errors.Is() to check.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("rate limited")
	ErrQuotaExceeded  = errors.New("token quota exceeded")
	ErrPlannerFailed  = errors.New("planner failed")
	ErrProvider       = errors.New("model provider error")
	ErrBusy           = errors.New("server busy")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vecagent: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is maps server error codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case "bad_request", "validation_failed":
		return target == ErrInvalidRequest
	case "unauthorized":
		return target == ErrUnauthorized
	case "rate_limited":
		return target == ErrRateLimited
	case "quota_exceeded":
		return target == ErrQuotaExceeded
	case "planner_failed":
		return target == ErrPlannerFailed
	case "embedding_provider_error", "chat_provider_error":
		return target == ErrProvider
	case "busy":
		return target == ErrBusy
	}
	return false
}
