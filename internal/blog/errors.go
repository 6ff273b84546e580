package blog

import "errors"

var (
	// ErrNotFound is returned when no post matches the given slug or id.
	ErrNotFound = errors.New("post not found")

	// ErrDuplicateSlug is returned when a create or rename would collide
	// with another post's slug.
	ErrDuplicateSlug = errors.New("a post with this slug already exists")
)

// ValidationError rejects malformed form input. The reason is meant to be
// shown to the user as-is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
