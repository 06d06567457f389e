// Package aiderr defines the single error taxonomy shared by every layer of
// the identity engine. Verification results (signature/chain/trust validity)
// never travel through this channel — it is reserved for malformed input,
// I/O faults, and cryptographic primitive failures.
package aiderr

import (
	"errors"
	"fmt"
)

// Code identifies the class of failure. Callers should match on Code via
// errors.As, not on the formatted message.
type Code string

const (
	// Crypto
	CodeInvalidKey        Code = "invalid_key"
	CodeSignatureInvalid  Code = "signature_invalid"
	CodeDerivationFailed  Code = "derivation_failed"
	CodeEncryptionFailed  Code = "encryption_failed"
	CodeDecryptionFailed  Code = "decryption_failed"
	CodeInvalidPassphrase Code = "invalid_passphrase"

	// Trust logic
	CodeTrustNotGranted        Code = "trust_not_granted"
	CodeTrustRevoked           Code = "trust_revoked"
	CodeTrustExpired           Code = "trust_expired"
	CodeTrustNotYetValid       Code = "trust_not_yet_valid"
	CodeMaxUsesExceeded        Code = "max_uses_exceeded"
	CodeDelegationNotAllowed   Code = "delegation_not_allowed"
	CodeDelegationDepthExceed  Code = "delegation_depth_exceeded"

	// Chain
	CodeInvalidChain Code = "invalid_chain"

	// Storage / serialization
	CodeNotFound           Code = "not_found"
	CodeStorageError       Code = "storage_error"
	CodeInvalidFileFormat  Code = "invalid_file_format"
	CodeSerializationError Code = "serialization_error"
	CodeIO                 Code = "io"
)

// Error is the concrete error type returned by this module. It never carries
// secret key material — Detail must be populated only from public fields
// (IDs, URIs, timestamps).
type Error struct {
	Code    Code
	Message string
	Detail  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is allows errors.Is(err, aiderr.New(code, "")) style comparisons by Code.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// New constructs an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs an Error with a detail string.
func Newf(code Code, message, detailFormat string, args ...any) *Error {
	return &Error{Code: code, Message: message, Detail: fmt.Sprintf(detailFormat, args...)}
}

// Wrap attaches an underlying cause to a new Error of the given code.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Wrapped: cause}
}

// WithURI is shorthand for trust-logic errors that carry a capability URI
// (TrustNotGranted(uri)) or an object ID (TrustRevoked(id)).
func WithURI(code Code, message, uri string) *Error {
	return &Error{Code: code, Message: message, Detail: uri}
}

// CodeOf extracts the Code from err if it is (or wraps) an *Error.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
