package fpe

import "errors"

// Every failure returned by this package wraps one of these three kinds, so
// callers can classify with errors.Is regardless of the specific message.
var (
	// ErrInvalidArgument covers bad parameters: numeral string length,
	// radix, key length, tweak length, numerals at or above the radix,
	// unknown alphabet characters, malformed alphabets, and use of a
	// closed context.
	ErrInvalidArgument = errors.New("fpe: invalid argument")

	// ErrInternalCipher is returned when the block cipher primitive fails.
	// This is unexpected and fatal for the call; the context is unchanged.
	ErrInternalCipher = errors.New("fpe: internal cipher failure")

	// ErrUnsupported is returned for an algorithm or algorithm/key-size
	// combination that is not built.
	ErrUnsupported = errors.New("fpe: unsupported algorithm")
)
