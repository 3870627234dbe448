package dto

import (
	"net/http"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
)

// Error codes returned in the envelope's code field
const (
	ErrCodeValidation   = shared.CodeValidation
	ErrCodeNotFound     = shared.CodeNotFound
	ErrCodeConflict     = shared.CodeConflict
	ErrCodeLimit        = shared.CodeLimit
	ErrCodeInternal     = shared.CodeInternal
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeRouteMissing = "ROUTE_NOT_FOUND"
)

// Messages shared by handlers and middleware
const (
	MsgInternalError = "Internal server error"
	MsgRateLimited   = "Too many requests. Please try again later."
	MsgTooLarge      = "Request body exceeds maximum allowed size"
)

var errorCodeToHTTPStatus = map[string]int{
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRouteMissing: http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeLimit:        http.StatusTooManyRequests,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
