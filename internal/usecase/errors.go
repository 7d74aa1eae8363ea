package usecase

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// Sentinel domain errors. Handlers compare against these directly; the token
// trio is collapsed into one generic message before it reaches a caller so
// the cause cannot be probed.
var (
	ErrConsentRequired     = &DomainError{Code: "CONSENT_REQUIRED", Message: "consent is required"}
	ErrRateLimited         = &DomainError{Code: "RATE_LIMITED", Message: "too many requests, please try again later"}
	ErrSecurityCheck       = &DomainError{Code: "SECURITY_CHECK_FAILED", Message: "request could not be verified"}
	ErrTokenNotFound       = &DomainError{Code: "TOKEN_NOT_FOUND", Message: "link invalid or expired"}
	ErrTokenExpired        = &DomainError{Code: "TOKEN_EXPIRED", Message: "link invalid or expired"}
	ErrResourceUnavailable = &DomainError{Code: "RESOURCE_UNAVAILABLE", Message: "link invalid or expired"}
	ErrLeadNotFound        = &DomainError{Code: "LEAD_NOT_FOUND", Message: "lead not found"}
)

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// DispatchError marks a single-channel delivery failure. It stays inside the
// audit trail and the dispatch summary; submitters never see it.
type DispatchError struct {
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch via %s failed: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
