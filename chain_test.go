package pp

import (
	"bytes"
	"math/rand"
	"testing"
)

func sampleText() []byte {
	return bytes.Repeat([]byte("it was the best of times, it was the worst of times. "), 200)
}

// checkMatches verifies that a match list tiles the input exactly and
// that every back-reference really points at an identical byte range.
func checkMatches(t *testing.T, mode Mode, src []byte, matches []Match) {
	t.Helper()
	p := modes[mode]
	pos := 0
	for i, m := range matches {
		if m.Unmatched < 0 || m.Length < 0 {
			t.Fatalf("match %d: negative fields %+v", i, m)
		}
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}
		if m.Length < p.minMatch || m.Length > p.maxMatch {
			t.Fatalf("match %d: length %d outside [%d, %d]", i, m.Length, p.minMatch, p.maxMatch)
		}
		if m.Distance < 1 || m.Distance > p.window || m.Distance > pos {
			t.Fatalf("match %d: distance %d at position %d", i, m.Distance, pos)
		}
		if !bytes.Equal(src[pos:pos+m.Length], src[pos-m.Distance:pos-m.Distance+m.Length]) {
			t.Fatalf("match %d: bytes at %d do not equal bytes at distance %d", i, pos, m.Distance)
		}
		pos += m.Length
	}
	if pos != len(src) {
		t.Fatalf("matches cover %d bytes of %d", pos, len(src))
	}
}

func TestFindMatchesInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := make([]byte, 32768)
	rng.Read(random)

	inputs := map[string][]byte{
		"text":   sampleText(),
		"zeros":  make([]byte, 100000),
		"random": random,
		"short":  []byte("abc"),
		"ramp":   rampBytes(),
	}
	for name, src := range inputs {
		for _, mode := range []Mode{ModeFast, ModeBalanced, ModeWeb, ModeUltra} {
			src, mode := src, mode
			t.Run(name+"/"+mode.String(), func(t *testing.T) {
				h := newHashChain(mode, nil)
				checkMatches(t, mode, src, h.FindMatches(nil, src))
			})
		}
	}
}

func rampBytes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestFindMatchesRepetitive(t *testing.T) {
	src := make([]byte, 100000)
	h := newHashChain(ModeBalanced, nil)
	matches := h.FindMatches(nil, src)

	var matched int
	for _, m := range matches {
		if m.Length > 0 {
			matched += m.Length
			if m.Distance != 1 {
				t.Fatalf("zero run produced distance %d, want 1", m.Distance)
			}
		}
	}
	if matched < len(src)*9/10 {
		t.Fatalf("only %d of %d bytes matched", matched, len(src))
	}
}

func TestFindMatchesShortInput(t *testing.T) {
	h := newHashChain(ModeFast, nil)
	matches := h.FindMatches(nil, []byte("ab"))
	if len(matches) != 1 || matches[0].Length != 0 || matches[0].Unmatched != 2 {
		t.Fatalf("got %+v, want one all-literal match", matches)
	}
}

func TestSearchHonorsWindow(t *testing.T) {
	// Two copies of a marker separated by more than the window must
	// not match each other.
	p := modes[ModeFast]
	marker := []byte("0123456789abcdef")
	src := make([]byte, p.window+2*len(marker)+64)
	copy(src, marker)
	for i := len(marker); i < len(src)-len(marker); i++ {
		src[i] = byte(i%251) ^ 0x80 // keep the gap from matching the marker
	}
	copy(src[len(src)-len(marker):], marker)

	h := newHashChain(ModeFast, nil)
	matches := h.FindMatches(nil, src)
	pos := 0
	for _, m := range matches {
		pos += m.Unmatched
		if m.Length > 0 {
			if m.Distance > p.window {
				t.Fatalf("distance %d exceeds window %d", m.Distance, p.window)
			}
			pos += m.Length
		}
	}
}
