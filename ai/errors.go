package ai

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when a retry policy allows no attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmptyResponse is returned when a model answers with no content.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrBatchSizeMismatch is returned when a batch embedding call returns a
	// different number of vectors than texts sent.
	ErrBatchSizeMismatch = errors.New("embedding batch size mismatch")
)
