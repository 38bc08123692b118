package internal

import "github.com/cockroachdb/errors"

// Error taxonomy for the API surface. Anything not marked with one of these
// sentinels is treated as an internal failure: logged with context and
// surfaced as a generic message.
var (
	// ErrNotFound: the requested station/region has no matching data.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest: the input is malformed or semantically
	// inconsistent, e.g. a fuel type the station does not sell.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrValidationRejected: the protection layer declined a write; the
	// wrapped message is shown to the caller verbatim.
	ErrValidationRejected = errors.New("validation rejected")
)

func NotFoundf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func InvalidRequestf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidRequest)
}

func ValidationRejectedf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidationRejected)
}
