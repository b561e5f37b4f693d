package service

import "errors"

// Error taxonomy for the feed core. Callers select behavior with errors.Is;
// wrapped causes stay inspectable through errors.Unwrap.
var (
	// ErrValidation marks out-of-contract input caught before any store or
	// network call (empty image, oversized comment/password).
	ErrValidation = errors.New("invalid input")

	// ErrUpload marks a failed media blob write.
	ErrUpload = errors.New("media upload failed")

	// ErrPersistence marks a failed record store read or write.
	ErrPersistence = errors.New("post store failed")

	// ErrNotFound marks a post id that does not exist: already deleted,
	// expired and purged, or never created.
	ErrNotFound = errors.New("post not found")

	// ErrUnauthorized marks a delete credential mismatch, including the
	// case where the post was created without a password.
	ErrUnauthorized = errors.New("delete not authorized")
)
