// Package api implements the shared core of the RoboCompute SDK: the error
// taxonomy, request signing, and the HTTP transport used by both the consumer
// client and the provider agent.
package api

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind discriminates the failure categories surfaced by the marketplace
// API. Every server-originated failure is an *Error carrying one of these
// kinds; callers switch on Kind instead of matching exception types.
type ErrorKind int

const (
	// KindAPI is the generic fallback for error codes the SDK does not
	// recognize. Code carries the server-supplied code verbatim.
	KindAPI ErrorKind = iota
	KindAuthentication
	KindInsufficientFunds
	KindTaskNotFound
	KindProviderUnavailable
	KindInvalidRequirements
	KindSignatureInvalid
	KindRateLimited
	KindNetwork
	KindInsufficientStake
	KindResourceUnavailable
	KindTaskAlreadyAccepted
	KindVerificationFailed
	KindSlashing
)

func (k ErrorKind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindAuthentication:
		return "authentication"
	case KindInsufficientFunds:
		return "insufficient-funds"
	case KindTaskNotFound:
		return "task-not-found"
	case KindProviderUnavailable:
		return "provider-unavailable"
	case KindInvalidRequirements:
		return "invalid-requirements"
	case KindSignatureInvalid:
		return "signature-invalid"
	case KindRateLimited:
		return "rate-limited"
	case KindNetwork:
		return "network"
	case KindInsufficientStake:
		return "insufficient-stake"
	case KindResourceUnavailable:
		return "resource-unavailable"
	case KindTaskAlreadyAccepted:
		return "task-already-accepted"
	case KindVerificationFailed:
		return "verification-failed"
	case KindSlashing:
		return "slashing"
	default:
		return "unknown"
	}
}

// kindByCode maps server error codes to kinds. Consumer and provider codes
// share one table; the two façades use the same transport.
var kindByCode = map[string]ErrorKind{
	"AUTHENTICATION_FAILED":         KindAuthentication,
	"INSUFFICIENT_FUNDS":            KindInsufficientFunds,
	"TASK_NOT_FOUND":                KindTaskNotFound,
	"PROVIDER_UNAVAILABLE":          KindProviderUnavailable,
	"INVALID_RESOURCE_REQUIREMENTS": KindInvalidRequirements,
	"WALLET_SIGNATURE_INVALID":      KindSignatureInvalid,
	"RATE_LIMIT_EXCEEDED":           KindRateLimited,
	"NETWORK_ERROR":                 KindNetwork,
	"INSUFFICIENT_STAKE":            KindInsufficientStake,
	"RESOURCE_UNAVAILABLE":          KindResourceUnavailable,
	"TASK_ALREADY_ACCEPTED":         KindTaskAlreadyAccepted,
	"VERIFICATION_FAILED":           KindVerificationFailed,
	"SLASHING_EVENT":                KindSlashing,
}

// KindForCode returns the kind a server error code maps to. Unrecognized
// codes map to KindAPI.
func KindForCode(code string) ErrorKind {
	if k, ok := kindByCode[code]; ok {
		return k
	}
	return KindAPI
}

// Error is the failure value returned by every SDK operation that reaches the
// server. Details echoes the server-supplied detail map unchanged.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]any

	// StatusCode is the HTTP status of the failed response, 0 when no
	// response was obtained.
	StatusCode int

	// RetryAfter is set when Kind is KindRateLimited; the server's hint for
	// when the caller may retry.
	RetryAfter time.Duration

	cause error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("robocompute: %s (%s)", e.Message, e.Code)
	}
	return "robocompute: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Detail returns the named detail as a string. Numeric details are formatted
// with %v.
func (e *Error) Detail(key string) (string, bool) {
	v, ok := e.Details[key]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprintf("%v", v), true
}

// AsError unwraps err into an *Error if it carries one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == kind
}

// NetworkError builds a KindNetwork failure for a transport-level problem.
// cause may be nil.
func NetworkError(message string, cause error) *Error {
	return networkError(message, 0, cause)
}

// networkError builds a KindNetwork failure. status is the HTTP status code
// if a response was obtained, 0 otherwise.
func networkError(message string, status int, cause error) *Error {
	return &Error{
		Kind:       KindNetwork,
		Code:       "NETWORK_ERROR",
		Message:    message,
		Details:    map[string]any{},
		StatusCode: status,
		cause:      cause,
	}
}
