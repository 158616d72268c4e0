package feed

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/socialbase/socialbase/auth"
)

// PostInput is the writable part of a post.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate enforces the minimum lengths on title and content. All
// failing fields are reported together.
func (p PostInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Title,
			validation.Required,
			validation.Length(5, 200),
		),
		validation.Field(
			&p.Content,
			validation.Required,
			validation.Length(5, 0),
		),
	)
}

// asValidationError reuses the auth package's rich wrapping so the
// boundary renders feed and signup validation identically.
func asValidationError(err error) error {
	return auth.AsValidationError(err)
}
