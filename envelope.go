package pp

import "fmt"

// Envelope prefixes. A container may travel wrapped in a one-byte
// envelope: 0x00 means the raw container follows, 0x01 means an
// enciphered container follows. The cipher belongs to an outer layer;
// this package only recognizes the prefix.
const (
	envelopeRaw        = 0x00
	envelopeEnciphered = 0x01
)

// WrapEnvelope marks container as a raw (unenciphered) payload.
func WrapEnvelope(container []byte) []byte {
	out := make([]byte, 0, len(container)+1)
	out = append(out, envelopeRaw)
	return append(out, container...)
}

// OpenEnvelope strips the envelope prefix from b and returns the
// container. Enciphered envelopes are rejected; the caller must
// decrypt before handing the payload to this package.
func OpenEnvelope(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty envelope", ErrInvalidInput)
	}
	switch b[0] {
	case envelopeRaw:
		return b[1:], nil
	case envelopeEnciphered:
		return nil, fmt.Errorf("%w: enciphered envelope, decrypt first", ErrInvalidInput)
	}
	return nil, fmt.Errorf("%w: unknown envelope prefix 0x%02x", ErrInvalidInput, b[0])
}
