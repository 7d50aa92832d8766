// Package errors provides structured error handling with machine-readable
// codes and HTTP status mapping.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeUnauthenticated means no valid session exists; surfaced as a
	// redirect to the login entry point, not as an in-page error.
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// CodeOperationFailed means a query or mutation settled with an error;
	// local state is left unchanged.
	CodeOperationFailed Code = "OPERATION_FAILED"

	// CodePreferenceInvalid means a stored preference referenced a provider
	// the server no longer offers; auto-corrected, not fatal.
	CodePreferenceInvalid Code = "PREFERENCE_INVALID"

	// CodeProviderUnknown means a route parameter named a provider unknown
	// to this client; a client error distinct from server errors.
	CodeProviderUnknown Code = "PROVIDER_UNKNOWN"

	// CodeCacheConfig means the cache identity table failed validation at
	// startup.
	CodeCacheConfig Code = "CACHE_CONFIG"
)

// HTTPStatus maps a code to the status class used when the error reaches an
// HTTP boundary.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated, CodeProviderUnknown:
		return http.StatusUnauthorized
	case CodePreferenceInvalid:
		return http.StatusUnprocessableEntity
	case CodeOperationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
