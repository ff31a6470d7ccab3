package rule

import "errors"

var (
	// ErrSourceUnavailable is returned when a rule source cannot be read.
	ErrSourceUnavailable = errors.New("rule source unavailable")

	// ErrMalformedDescriptor is returned when a rule source is not valid YAML
	// or a descriptor lacks its regex.
	ErrMalformedDescriptor = errors.New("malformed rule descriptor")
)
