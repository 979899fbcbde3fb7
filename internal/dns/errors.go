package dns

import (
	"errors"
	"fmt"
)

// Error Handling:
//
// All errors are wrapped with context using fmt.Errorf("...: %w", err).
// This preserves error chains while adding operational context, and lets
// callers use errors.Is against the specific sentinels below. Every
// sentinel wraps ErrDNSError, so errors.Is(err, ErrDNSError) matches any
// wire-format violation regardless of kind.
var (
	// ErrDNSError is the base sentinel for every wire-format violation.
	// Wrap this with fmt.Errorf("context: %w", ErrDNSError) to add context.
	ErrDNSError = errors.New("dns wire error")

	// ErrShortRead means fewer bytes remained than the field being read requires.
	ErrShortRead = fmt.Errorf("%w: short read", ErrDNSError)

	// ErrTruncated means a datagram ended before a declared section did.
	ErrTruncated = fmt.Errorf("%w: truncated message", ErrDNSError)

	// ErrInvalidLabel means a label length byte had reserved top bits (01 or 10).
	ErrInvalidLabel = fmt.Errorf("%w: invalid label", ErrDNSError)

	// ErrUnsupportedType means a QTYPE/TYPE value is outside the recognized set.
	ErrUnsupportedType = fmt.Errorf("%w: unsupported type", ErrDNSError)

	// ErrUnsupportedClass means a QCLASS/CLASS value is outside the recognized set.
	ErrUnsupportedClass = fmt.Errorf("%w: unsupported class", ErrDNSError)

	// ErrUnsupportedRData means RDATA could not be constructed for its type
	// (currently: anything other than A).
	ErrUnsupportedRData = fmt.Errorf("%w: unsupported rdata", ErrDNSError)
)
