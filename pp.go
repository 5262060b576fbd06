// The pp package implements the PP lossless compression format.
//
// A PP container has three parts: a fixed little-endian header, a
// serialized Huffman tree for the literal alphabet, and a bit-packed
// token stream of literal runs and LZ77 back-references. The encoder
// always writes the current generation of the format (version 4);
// the decoder also reads the two older generations still found in
// archived artifacts.
//
// Compression is split into two stages that are only loosely coupled:
// a MatchFinder scans the input for repeated byte sequences and
// produces a list of Matches, and the container encoder turns that
// list plus the original bytes into the final token stream. The
// stages communicate through the Match intermediate representation,
// so a custom MatchFinder can be plugged into a Compressor.
package pp

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

const (
	// magicPP is the two-byte signature at the start of every container
	// ("PP" in ASCII, stored little-endian).
	magicPP = 0x5050

	versionMajor = 4
	versionMinor = 0

	// maxInputSize caps both the encoder's input and the decoder's
	// declared output at 1 GiB.
	maxInputSize = 1 << 30
)
