package vectorize

import "errors"

var (
	// ErrModelUnavailable is returned by Dense.Fit when the embedding model
	// cannot produce a sample vector. It is fatal at startup.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrDimensionMismatch is returned when the model returns a vector whose
	// length differs from the dimension learned at fit time.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbedderRequired is returned when a Dense vectorizer is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrUnknownVectorizer is returned for an unsupported vectorizer name.
	ErrUnknownVectorizer = errors.New("unknown vectorizer")
)
