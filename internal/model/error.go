package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeEmptyOrder        = "EMPTY_ORDER"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeTerminalStatus    = "TERMINAL_STATUS"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation surfaced to the caller with a
// descriptive message. Anything that is not a DomainError is treated as an
// internal failure and reported generically.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NotFound reports whether the error describes a missing resource rather
// than an invalid request.
func (e *DomainError) NotFound() bool {
	return e.Code == ErrCodeOrderNotFound
}

// Common domain errors
var (
	ErrEmptyOrder      = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidStatus   = NewDomainError(ErrCodeInvalidStatus, "Invalid order status")
	ErrTerminalStatus  = NewDomainError(ErrCodeTerminalStatus, "Order is already in a terminal status")
)
