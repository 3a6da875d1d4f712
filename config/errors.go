package config

import "errors"

// Configuration validation errors.
var (
	ErrUnknownSource       = errors.New("corpus.source must be one of: file, blob, postgres")
	ErrMissingCorpusPath   = errors.New("corpus.path is required for the file source")
	ErrMissingBlobSettings = errors.New("corpus.blob needs base_url, bucket and object")
	ErrMissingDSN          = errors.New("corpus.postgres.dsn is required for the postgres source")
	ErrUnknownVectorizer   = errors.New("vectorizer must be tfidf or dense")
	ErrDenseNeedsAI        = errors.New("the dense vectorizer requires ai.enabled")
	ErrInvalidSearch       = errors.New("search.related_pool and search.suggestions must be positive and search.related_limit non-negative")
	ErrInvalidIngestion    = errors.New("ingestion.burst and ingestion.pool_size must be positive")
	ErrInvalidTimeout      = errors.New("startup.timeout must be positive")
	ErrMissingAddr         = errors.New("server.addr is required")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)
