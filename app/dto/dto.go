// Package dto contains request and response shapes for the HTTP API
package dto

// APIResponse is the envelope every endpoint returns
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail carries the machine-readable error code plus optional detail,
// e.g. the field-path map of a failed listing validation.
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
