package pp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderMarshalParse(t *testing.T) {
	h := Header{
		VersionMajor:     versionMajor,
		VersionMinor:     versionMinor,
		UncompressedSize: 123456,
		CompressedSize:   7890,
		Level:            9,
		FileType:         FileText,
		Mode:             ModeUltra,
		Checksum:         0xBEEF,
	}
	buf := h.marshal(nil)
	require.Len(t, buf, headerSizeV4)
	assert.Equal(t, []byte{0x50, 0x50}, buf[:2])

	// parseHeader needs the tree_size word to be in bounds only for
	// splitContainer, not for the header itself.
	got, g, err := parseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, headerSizeV4, g.headerSize)
	assert.Equal(t, uint(2), g.flagBits)
}

func TestParseHeaderErrors(t *testing.T) {
	valid, err := Compress([]byte("abracadabra"), 5)
	require.NoError(t, err)

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte{}, valid...)
		bad[0] = 'Q'
		_, err := Decompress(bad)
		assert.ErrorIs(t, err, ErrBadMagic)
	})
	t.Run("unsupported version", func(t *testing.T) {
		for _, v := range []byte{0, 1, 5, 0xFF} {
			bad := append([]byte{}, valid...)
			bad[2] = v
			_, err := Decompress(bad)
			assert.ErrorIs(t, err, ErrUnsupportedVersion)
		}
	})
	t.Run("truncated header", func(t *testing.T) {
		for _, n := range []int{0, 1, 3, 10, headerSizeV4 - 1} {
			_, err := Decompress(valid[:n])
			assert.ErrorIs(t, err, ErrTruncatedHeader, "length %d", n)
		}
	})
	t.Run("zero uncompressed size", func(t *testing.T) {
		bad := append([]byte{}, valid...)
		binary.LittleEndian.PutUint32(bad[4:], 0)
		_, err := Decompress(bad)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
	t.Run("huge uncompressed size", func(t *testing.T) {
		bad := append([]byte{}, valid...)
		binary.LittleEndian.PutUint32(bad[4:], maxInputSize+1)
		_, err := Decompress(bad)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
	t.Run("zero tree size", func(t *testing.T) {
		bad := append([]byte{}, valid...)
		binary.LittleEndian.PutUint32(bad[headerSizeV4:], 0)
		_, err := Decompress(bad)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
	t.Run("tree overruns container", func(t *testing.T) {
		bad := append([]byte{}, valid...)
		binary.LittleEndian.PutUint32(bad[headerSizeV4:], uint32(len(bad)))
		_, err := Decompress(bad)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
	t.Run("missing tree size word", func(t *testing.T) {
		_, err := Decompress(valid[:headerSizeV4+2])
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
}

func TestStat(t *testing.T) {
	input := []byte("some text that the sniffer should call text, repeated a little bit to be sure")
	container, err := Compress(input, 9)
	require.NoError(t, err)

	h, err := Stat(container)
	require.NoError(t, err)
	assert.Equal(t, uint8(versionMajor), h.VersionMajor)
	assert.Equal(t, uint32(len(input)), h.UncompressedSize)
	assert.Equal(t, uint8(9), h.Level)
	assert.Equal(t, ModeUltra, h.Mode)
	assert.Equal(t, FileText, h.FileType)
	assert.Equal(t, checksum16(input), h.Checksum)
	assert.Equal(t, int(headerSizeV4+4+h.CompressedSize), len(container)-treeSizeOf(t, container))
}

func treeSizeOf(t *testing.T, container []byte) int {
	t.Helper()
	require.True(t, len(container) >= headerSizeV4+4)
	return int(binary.LittleEndian.Uint32(container[headerSizeV4:]))
}

func TestModeSelection(t *testing.T) {
	text := []byte("text text text text text text text text")
	binaryIsh := append([]byte{0x00, 0x01, 0x02, 0xFE}, make([]byte, 64)...)

	cases := []struct {
		level int
		data  []byte
		want  Mode
	}{
		{1, text, ModeFast},
		{2, binaryIsh, ModeFast},
		{5, text, ModeWeb},
		{5, binaryIsh, ModeBalanced},
		{9, text, ModeUltra},
		{9, binaryIsh, ModeUltra},
	}
	for _, tc := range cases {
		container, err := Compress(tc.data, tc.level)
		require.NoError(t, err)
		h, err := Stat(container)
		require.NoError(t, err)
		assert.Equal(t, tc.want, h.Mode, "level %d on %s", tc.level, DetectFileType(tc.data))
	}
}
