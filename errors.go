package pp

import "errors"

// Errors reported by Compress, Decompress, and Stat. Decoding errors
// identify the first structural problem encountered; nothing is
// retried or silently repaired, and on error no partial output is
// returned.
var (
	// ErrInvalidInput means the encoder was given an empty input,
	// an input over 1 GiB, or an envelope the core cannot open.
	ErrInvalidInput = errors.New("pp: invalid input")

	// ErrBadMagic means the container does not start with the bytes "PP".
	ErrBadMagic = errors.New("pp: bad magic")

	// ErrUnsupportedVersion means the container's major version is not 2, 3, or 4.
	ErrUnsupportedVersion = errors.New("pp: unsupported version")

	// ErrTruncatedHeader means the container is too short for the header
	// layout implied by its version.
	ErrTruncatedHeader = errors.New("pp: truncated header")

	// ErrInvalidSize means the declared uncompressed size is zero or over
	// 1 GiB, or the declared tree size is zero or overruns the container.
	ErrInvalidSize = errors.New("pp: invalid size")

	// ErrMalformedTree means the serialized Huffman tree could not be
	// rebuilt: it ran out of bits, exceeded depth 32, or is a bare leaf
	// at the root.
	ErrMalformedTree = errors.New("pp: malformed huffman tree")

	// ErrBadToken means the token stream contains the reserved flag, a
	// back-reference into data that does not exist yet, or a token that
	// would write past the declared output size.
	ErrBadToken = errors.New("pp: bad token")

	// ErrOverrun means the decoder needed bits past the end of the token
	// stream.
	ErrOverrun = errors.New("pp: token stream overrun")

	// ErrChecksumMismatch means the decoded bytes do not sum to the
	// checksum recorded in the header.
	ErrChecksumMismatch = errors.New("pp: checksum mismatch")

	// ErrInternalLimit means the encoder produced a Huffman code longer
	// than 32 bits.
	ErrInternalLimit = errors.New("pp: huffman code depth limit exceeded")
)
