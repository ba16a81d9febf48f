package handler

import "github.com/gradguide/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// DeletedData confirms a deletion
type DeletedData struct {
	ID      int64 `json:"id" example:"12"`
	Deleted bool  `json:"deleted" example:"true"`
}

// SignedOutData confirms a sign-out
type SignedOutData struct {
	SignedOut bool `json:"signed_out" example:"true"`
}
