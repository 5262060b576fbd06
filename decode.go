package pp

import "fmt"

// A grammar describes the token stream of one format generation. The
// decoder has a single replay loop parameterized by the grammar its
// version byte selects.
type grammar struct {
	headerSize int
	flagBits   uint
	offsetBits uint
	lengthBits uint
	minMatch   int
	endMarker  bool
}

// grammarFor returns the grammar for a major version.
//
// Version 4 widened the offset to 17 bits (128 KiB window) and the
// length to 10 bits, and raised the minimum match to 4. Version 3 used
// the same two-bit flags over a 64 KiB window. Version 2 predates the
// end marker and literal runs: a one-bit flag selects between a single
// Huffman literal and a back-reference, and the stream simply ends
// when the output is full.
func grammarFor(version uint8) (grammar, bool) {
	switch version {
	case 4:
		return grammar{headerSize: headerSizeV4, flagBits: 2, offsetBits: 17, lengthBits: 10, minMatch: 4, endMarker: true}, true
	case 3:
		return grammar{headerSize: headerSizeLegacy, flagBits: 2, offsetBits: 16, lengthBits: 9, minMatch: 3, endMarker: true}, true
	case 2:
		return grammar{headerSize: headerSizeLegacy, flagBits: 1, offsetBits: 16, lengthBits: 8, minMatch: 3, endMarker: false}, true
	}
	return grammar{}, false
}

// A Decompressor decodes PP containers of any supported generation.
// The zero value is ready to use.
type Decompressor struct {
	// Progress, if set, receives a report for every 5% decoded.
	Progress Progress
}

// Decompress decodes container and returns the original bytes. The
// recomputed checksum must equal the header checksum or the whole
// decode fails.
func (d *Decompressor) Decompress(container []byte) ([]byte, error) {
	h, g, err := parseHeader(container)
	if err != nil {
		return nil, err
	}
	if h.UncompressedSize == 0 || h.UncompressedSize > maxInputSize {
		return nil, fmt.Errorf("%w: uncompressed size %d", ErrInvalidSize, h.UncompressedSize)
	}
	treeBlob, tokens, err := splitContainer(container, g)
	if err != nil {
		return nil, err
	}
	tree, err := parseTree(treeBlob)
	if err != nil {
		return nil, err
	}

	rep := newReporter(d.Progress)
	out := make([]byte, h.UncompressedSize)
	br := bitReader{data: tokens}

	var pos int
	if g.flagBits == 1 {
		pos, err = replayV2(&br, g, tree, out, rep)
	} else {
		pos, err = replay(&br, g, tree, out, rep)
	}
	if err != nil {
		return nil, err
	}

	out = out[:pos]
	if checksum16(out) != h.Checksum {
		return nil, ErrChecksumMismatch
	}
	rep.report(StageDecompress, 100, "decompressing")
	return out, nil
}

// replay runs the two-bit-flag grammars (versions 3 and 4).
func replay(br *bitReader, g grammar, tree *huffNode, out []byte, rep *reporter) (int, error) {
	pos := 0
	lastTick := 0
	for {
		flag, err := br.readBits(g.flagBits)
		if err != nil {
			return 0, err
		}
		switch flag {
		case flagEnd:
			return pos, nil
		case flagLiteral:
			l, err := br.readBits(8)
			if err != nil {
				return 0, err
			}
			if l == 0 {
				return 0, fmt.Errorf("%w: empty literal run", ErrBadToken)
			}
			if pos+int(l) > len(out) {
				return 0, fmt.Errorf("%w: literal run past end of output", ErrBadToken)
			}
			for i := 0; i < int(l); i++ {
				sym, err := decodeSymbol(br, tree)
				if err != nil {
					return 0, err
				}
				out[pos] = sym
				pos++
			}
		case flagMatch:
			var err error
			pos, err = copyMatch(br, g, out, pos, 1)
			if err != nil {
				return 0, err
			}
		default:
			return 0, fmt.Errorf("%w: reserved flag", ErrBadToken)
		}
		lastTick = tick(rep, pos, len(out), lastTick)
	}
}

// replayV2 runs the version-2 grammar, which has no end marker:
// decoding stops when the output buffer is full.
func replayV2(br *bitReader, g grammar, tree *huffNode, out []byte, rep *reporter) (int, error) {
	pos := 0
	lastTick := 0
	for pos < len(out) {
		flag, err := br.readBits(1)
		if err != nil {
			return 0, err
		}
		if flag == 1 {
			pos, err = copyMatch(br, g, out, pos, 0)
			if err != nil {
				return 0, err
			}
		} else {
			sym, err := decodeSymbol(br, tree)
			if err != nil {
				return 0, err
			}
			out[pos] = sym
			pos++
		}
		lastTick = tick(rep, pos, len(out), lastTick)
	}
	return pos, nil
}

// copyMatch reads one back-reference and replays it. offsetBias is the
// amount added to the raw offset field (1 for the generations that
// store offset-1, 0 for version 2). The copy is byte-by-byte and
// forward so that references with offset < length propagate runs the
// way the encoder meant them to.
func copyMatch(br *bitReader, g grammar, out []byte, pos, offsetBias int) (int, error) {
	rawOff, err := br.readBits(g.offsetBits)
	if err != nil {
		return 0, err
	}
	rawLen, err := br.readBits(g.lengthBits)
	if err != nil {
		return 0, err
	}
	offset := int(rawOff) + offsetBias
	length := int(rawLen) + g.minMatch
	if offset == 0 || offset > pos {
		return 0, fmt.Errorf("%w: offset %d at position %d", ErrBadToken, offset, pos)
	}
	if pos+length > len(out) {
		if g.endMarker {
			return 0, fmt.Errorf("%w: match past end of output", ErrBadToken)
		}
		// Version 2 streams may overshoot their last match; the
		// output size bounds the copy.
		length = len(out) - pos
	}
	src := pos - offset
	for i := 0; i < length; i++ {
		out[pos] = out[src]
		pos++
		src++
	}
	return pos, nil
}

// tick reports decode progress in 5% steps.
func tick(rep *reporter, pos, total, last int) int {
	if rep == nil {
		return last
	}
	pct := pos * 100 / total
	if pct/5 > last/5 {
		rep.report(StageDecompress, pct, "decompressing")
		return pct
	}
	return last
}

// Decompress decodes a version 2, 3, or 4 container.
func Decompress(container []byte) ([]byte, error) {
	var d Decompressor
	return d.Decompress(container)
}
