package httputil

// Machine-readable error codes returned alongside error messages.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationError    = "validation_error"
	CodeDuplicateResource  = "duplicate_resource"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeNotFound           = "not_found"
	CodeTooManyRequests    = "too_many_requests"
	CodeTimeout            = "timeout"
	CodeInternalError      = "internal_error"
)
