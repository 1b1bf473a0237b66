package dto

import "time"

// StructuredResponse provides a base structured API response with nested objects
type StructuredResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewStructuredResponse creates a standard structured API response
func NewStructuredResponse(data interface{}, message string) StructuredResponse {
	return StructuredResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// CursorInfo describes a keyset page; pass LastID back as lastId for the next page
type CursorInfo struct {
	PageSize int    `json:"pageSize" example:"20"`
	HasNext  bool   `json:"hasNext" example:"true"`
	LastID   *int64 `json:"lastId,omitempty" example:"120"`
}

// CursorPage is a list payload with keyset pagination metadata
type CursorPage struct {
	Items      interface{} `json:"items"`
	Pagination CursorInfo  `json:"pagination"`
}
