// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// SuccessResponse is the generic success message body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse documents the error body shape produced by the error
// middleware.
type ErrorResponse struct {
	Error string `json:"error"`
}
