package pp

import (
	"encoding/binary"
	"math/bits"

	"github.com/pierrec/xxHash/xxHash32"
)

// hashChain is an implementation of the MatchFinder interface that
// indexes every position of the input in a hash chain before the
// parse begins. head maps a bucket to the most recent position with
// that hash; link maps a position to the prior position in the same
// bucket, so link[pos] starts a chain of exactly the candidates that
// precede pos.
type hashChain struct {
	mode Mode
	p    modeParams

	head []int32
	link []int32

	rep *reporter
}

func newHashChain(mode Mode, rep *reporter) *hashChain {
	return &hashChain{mode: mode, p: modes[mode], rep: rep}
}

func (h *hashChain) Reset() {
	h.head = nil
	h.link = nil
}

const fastHashMul = 0x1e35a7bd // multiplicative 4-byte hash, as in snappy and flate

// hash4 folds the 4 bytes at src into the table width. The fast mode
// uses the multiplicative hash; the others pay for the
// better-distributing xxHash32 mix. Either way the function only has
// to be stable within one encode.
func (h *hashChain) hash4(src []byte) uint32 {
	if h.p.fastHash {
		return binary.LittleEndian.Uint32(src) * fastHashMul >> (32 - h.p.hashBits)
	}
	return xxHash32.Checksum(src[:4], 0) & (1<<h.p.hashBits - 1)
}

// index builds head and link over positions 0 .. len(src)-4.
func (h *hashChain) index(src []byte) {
	h.head = make([]int32, 1<<h.p.hashBits)
	for i := range h.head {
		h.head[i] = -1
	}
	h.link = make([]int32, len(src))
	for i := range h.link {
		h.link[i] = -1
	}

	const step = 1 << 20
	next := step
	for i := 0; i+4 <= len(src); i++ {
		b := h.hash4(src[i:])
		h.link[i] = h.head[b]
		h.head[b] = int32(i)
		if i >= next {
			h.rep.report(StageIndex, i*100/len(src), "indexing")
			next += step
		}
	}
	h.rep.report(StageIndex, 100, "indexing")
}

// search returns the longest match for pos, or (0, 0) if nothing of at
// least minMatch length is in reach.
func (h *hashChain) search(src []byte, pos int) (distance, length int) {
	n := len(src)
	if pos+4 > n {
		return 0, 0
	}
	limit := h.p.maxMatch
	if n-pos < limit {
		limit = n - pos
	}
	seq := binary.LittleEndian.Uint32(src[pos:])

	best := 0
	bestPos := -1
	depth := h.p.chainDepth
	for c := h.link[pos]; c >= 0 && depth > 0; depth-- {
		ci := int(c)
		if pos-ci > h.p.window {
			break
		}
		c = h.link[ci]
		// A candidate that cannot beat the current best is not
		// worth extending.
		if best > 0 && src[ci+best] != src[pos+best] {
			continue
		}
		if binary.LittleEndian.Uint32(src[ci:]) != seq {
			continue
		}
		l := 4 + matchLen(src[ci+4:ci+limit], src[pos+4:pos+limit])
		if l > best {
			best = l
			bestPos = ci
			if best >= limit || best >= h.p.niceLen {
				break
			}
		}
	}

	if best >= h.p.minMatch {
		return pos - bestPos, best
	}
	return 0, 0
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (h *hashChain) FindMatches(dst []Match, src []byte) []Match {
	h.index(src)
	p := h.p
	n := len(src)

	const step = 4 << 20
	next := step

	pos := 0
	unmatched := 0
	for pos < n {
		if pos >= next {
			h.rep.report(StageCompress, pos*100/n, "compressing")
			next += step
		}

		distance, length := h.search(src, pos)

		if p.optimal && length >= p.minMatch {
			// Look a few positions ahead and pick the start whose
			// match pays best after charging one literal per skipped
			// byte and a flat cost for the match itself.
			bestK := 0
			bestScore := length - 4
			for k := 1; k <= 4 && pos+k < n; k++ {
				d2, l2 := h.search(src, pos+k)
				if l2 >= p.minMatch && l2-k-4 > bestScore {
					bestK, bestScore = k, l2-k-4
					distance, length = d2, l2
				}
			}
			unmatched += bestK
			pos += bestK
		} else if p.lazy && length >= p.minMatch && pos+1 < n {
			// Defer by one byte when a clearly better match starts
			// at the next position.
			if _, l2 := h.search(src, pos+1); l2 > length+1 {
				unmatched++
				pos++
				continue
			}
		}

		if length >= p.minMatch {
			dst = append(dst, Match{Unmatched: unmatched, Length: length, Distance: distance})
			unmatched = 0
			pos += length
		} else {
			unmatched++
			pos++
		}
	}
	if unmatched > 0 {
		dst = append(dst, Match{Unmatched: unmatched})
	}
	h.rep.report(StageCompress, 100, "compressing")
	return dst
}

// matchLen returns the length of the common prefix of a and b.
// The slices must be the same length.
func matchLen(a, b []byte) int {
	var checked int
	for len(a) >= 8 {
		if diff := binary.LittleEndian.Uint64(a) ^ binary.LittleEndian.Uint64(b); diff != 0 {
			return checked + bits.TrailingZeros64(diff)>>3
		}
		checked += 8
		a = a[8:]
		b = b[8:]
	}
	for i := range a {
		if a[i] != b[i] {
			return checked + i
		}
	}
	return checked + len(a)
}
