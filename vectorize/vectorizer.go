package vectorize

import "context"

// Names accepted in configuration.
const (
	NameTFIDF = "tfidf"
	NameDense = "dense"
)

// Encoder maps text to a vector of fixed dimension.
// Implementations must be safe for concurrent use once constructed.
type Encoder interface {
	// Encode vectorizes a single text. Empty text yields a zero vector.
	Encode(ctx context.Context, text string) ([]float32, error)

	// EncodeAll vectorizes texts, preserving order.
	EncodeAll(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of every vector this encoder returns.
	Dimension() int
}

// Vectorizer builds an Encoder for a corpus.
type Vectorizer interface {
	// Name identifies the strategy, e.g. in logs.
	Name() string

	// Fit prepares an Encoder for the given corpus texts. Strategies that
	// need no fitting may ignore corpus but still validate their model.
	Fit(ctx context.Context, corpus []string) (Encoder, error)
}
