package models

import "errors"

var (
	// ErrNotFound means no matching record exists. It is a normal negative
	// result, not a failure.
	ErrNotFound = errors.New("icon not found")

	// ErrStoreUnavailable means the primary metadata store exhausted its
	// retries without a successful query.
	ErrStoreUnavailable = errors.New("metadata store unavailable")

	// ErrMalformedCatalog means the fallback catalog file was readable but
	// could not be parsed.
	ErrMalformedCatalog = errors.New("malformed catalog file")

	// ErrDataUnavailable means both the primary store and the catalog
	// fallback failed. Fatal to the request.
	ErrDataUnavailable = errors.New("icon data unavailable")
)
