package dto

// SuccessResponse is the standard success envelope
// @Description Standard success envelope
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewSuccess wraps data in the standard envelope.
func NewSuccess(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}
