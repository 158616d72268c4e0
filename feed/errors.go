package feed

import "github.com/goliatone/go-errors"

// ErrPostNotFound is returned when no post matches a lookup.
var ErrPostNotFound = errors.New("could not find post", errors.CategoryNotFound).
	WithTextCode("POST_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrImageRequired rejects a post creation without an image.
var ErrImageRequired = errors.New("no image provided", errors.CategoryValidation).
	WithTextCode("IMAGE_REQUIRED")

// ErrInvalidRequester is returned when the requester identity cannot be
// resolved to a user id.
var ErrInvalidRequester = errors.New("requester identity is not valid", errors.CategoryAuth).
	WithTextCode("INVALID_REQUESTER").
	WithCode(errors.CodeUnauthorized)
