package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrTokenExpired  = NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenUsed     = NewDomainError("TOKEN_USED", "Token has already been used")
)
