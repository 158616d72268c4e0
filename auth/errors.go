package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced to clients next to the mapped HTTP status.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeNotResourceOwner   = "NOT_RESOURCE_OWNER"
	TextCodeValidationFailed   = "VALIDATION_FAILED"
	TextCodeClaimsMappingError = "CLAIMS_MAPPING_ERROR"
)

// ErrIdentityNotFound is returned when no identity matches a lookup.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword covers both an unknown identifier and a
// wrong password so responses cannot be used for account enumeration.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token's expiry has passed. Expiry
// is compared against the verifying process's clock; skew is not
// compensated.
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures and undecodable tokens. Both
// map to unauthenticated, never to a server fault.
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims is returned when a verified token carries claims
// we cannot decode into our structured type.
var ErrUnableToMapClaims = errors.New("unable to map token claims", errors.CategoryAuth).
	WithTextCode(TextCodeClaimsMappingError).
	WithCode(errors.CodeUnauthorized)

// ErrEmailTaken signals a signup collision on the unique email column.
var ErrEmailTaken = errors.New("an account with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrNotResourceOwner is the fail-closed ownership verdict: any
// mismatch, including an unparseable requester id, ends up here.
var ErrNotResourceOwner = errors.New("not authorized to modify this resource", errors.CategoryAuth).
	WithTextCode(TextCodeNotResourceOwner).
	WithCode(errors.CodeForbidden)

// IsTokenExpiredError will check for expired tokens.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed or missing tokens.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
