package ingestion

import "errors"

var (
	// ErrNoSeeds is returned when a run has neither index pages nor articles.
	ErrNoSeeds = errors.New("no seed URLs")

	// ErrDisallowed is returned when robots.txt forbids fetching a URL.
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrUnexpectedStatus is returned for non-200 responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid URL")
)
