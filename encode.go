package pp

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Token stream flags, two bits each, read and written LSB-first.
const (
	flagEnd     = 0x0 // 00: end of stream
	flagReserve = 0x1 // 01: reserved, never written
	flagLiteral = 0x2 // 10: literal run
	flagMatch   = 0x3 // 11: back-reference
)

const (
	offsetBitsV4 = 17
	lengthBitsV4 = 10
	minMatchV4   = 4
)

// DefaultLevel is used when a Compressor is left at its zero value.
const DefaultLevel = 6

// A Compressor encodes inputs into version-4 PP containers. The zero
// value compresses at DefaultLevel with no progress reporting. A
// Compressor holds no state between calls; every Compress call builds
// and discards its own index and bit buffers, so one value may be
// reused sequentially.
type Compressor struct {
	// Level steers the mode selection, 1 (fastest) to 9 (smallest).
	// Values outside the range are clamped.
	Level int

	// Progress, if set, receives periodic reports during the encode.
	Progress Progress

	// MatchFinder overrides the level-selected hash-chain finder.
	MatchFinder MatchFinder
}

// Compress encodes input into a self-contained container.
func (c *Compressor) Compress(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}
	if len(input) > maxInputSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds the 1 GiB limit", ErrInvalidInput, len(input))
	}

	level := c.Level
	if level == 0 {
		level = DefaultLevel
	}
	if level < 1 {
		level = 1
	}
	if level > 9 {
		level = 9
	}

	rep := newReporter(c.Progress)
	fileType := DetectFileType(input)
	mode := modeFor(level, fileType)

	// One pass over the input gathers both the symbol frequencies and
	// the header checksum.
	var freq [256]uint32
	var sum uint16
	const step = 1 << 20
	next := step
	for i, b := range input {
		freq[b]++
		sum += uint16(b)
		if i >= next {
			rep.report(StageAnalyze, i*100/len(input), "analyzing")
			next += step
		}
	}
	rep.report(StageAnalyze, 100, "analyzing")

	tree := buildHuffTree(&freq)
	codes, err := buildCodes(tree)
	if err != nil {
		return nil, err
	}
	treeBlob, err := serializeTree(tree)
	if err != nil {
		return nil, err
	}

	finder := c.MatchFinder
	if finder == nil {
		finder = newHashChain(mode, rep)
	}
	finder.Reset()
	matches := finder.FindMatches(nil, input)

	tokens := emitTokens(input, matches, codes, modes[mode].maxRun)

	h := Header{
		VersionMajor:     versionMajor,
		VersionMinor:     versionMinor,
		UncompressedSize: uint32(len(input)),
		CompressedSize:   uint32(len(tokens)),
		Level:            uint8(level),
		FileType:         fileType,
		Mode:             mode,
		Checksum:         sum,
	}

	out := make([]byte, 0, headerSizeV4+4+len(treeBlob)+len(tokens))
	out = h.marshal(out)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(treeBlob)))
	out = append(out, treeBlob...)
	out = append(out, tokens...)
	return out, nil
}

// emitTokens serializes the match list into the version-4 token
// stream: literal runs of at most maxRun Huffman-coded symbols,
// back-references as (offset-1, length-minMatch) fields, and the end
// marker, zero-padded to a byte boundary.
func emitTokens(src []byte, matches []Match, codes *[256]hcode, maxRun int) []byte {
	var bw bitWriter
	pos := 0
	for _, m := range matches {
		for run := m.Unmatched; run > 0; {
			l := run
			if l > maxRun {
				l = maxRun
			}
			bw.writeBits(flagLiteral, 2)
			bw.writeBits(uint32(l), 8)
			for _, b := range src[pos : pos+l] {
				writeCode(&bw, codes[b])
			}
			pos += l
			run -= l
		}
		if m.Length > 0 {
			bw.writeBits(flagMatch, 2)
			bw.writeBits(uint32(m.Distance-1), offsetBitsV4)
			bw.writeBits(uint32(m.Length-minMatchV4), lengthBitsV4)
			pos += m.Length
		}
	}
	bw.writeBits(flagEnd, 2)
	bw.flush()
	return bw.buf
}

// writeCode emits one Huffman code. Codes store the root-level choice
// in their highest bit, but the stream wants it first, so the bits go
// out reversed.
func writeCode(bw *bitWriter, c hcode) {
	rev := bits.Reverse32(c.bits) >> (32 - uint(c.length))
	if c.length <= 16 {
		bw.writeBits(rev, uint(c.length))
		return
	}
	// Codes near the depth limit exceed the writer's field width.
	bw.writeBits(rev&0xFFFF, 16)
	bw.writeBits(rev>>16, uint(c.length)-16)
}

// Compress encodes input at the given level into a version-4 container.
func Compress(input []byte, level int) ([]byte, error) {
	c := Compressor{Level: level}
	return c.Compress(input)
}
