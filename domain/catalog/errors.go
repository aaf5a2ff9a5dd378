package catalog

import "errors"

var (
	// ErrUnknownSort is returned for a sort key outside the supported set.
	ErrUnknownSort = errors.New("unknown sort option")
	// ErrInvalidFixture is returned when a fixture document cannot be used.
	ErrInvalidFixture = errors.New("invalid catalog fixture")
)
