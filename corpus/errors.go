package corpus

import "errors"

var (
	// ErrCorpusUnavailable is returned when a source cannot be read. It is
	// fatal at startup.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrMissingHeader is returned for a table without a header row.
	ErrMissingHeader = errors.New("missing header row")

	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported corpus format")

	// ErrClassifierRequired is returned when Load is called without a classifier.
	ErrClassifierRequired = errors.New("classifier required")
)
