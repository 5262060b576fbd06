package pp

import "encoding/binary"

// A Header holds the fixed fields at the front of a container.
//
// Version 4 containers use a 20-byte layout:
//
//	magic u16, version_major u8, version_minor u8,
//	uncompressed_size u32, compressed_size u32,
//	level u8, filetype u8, mode u8, reserved u8,
//	checksum u16, reserved u16
//
// Versions 2 and 3 use the older 16-byte layout, which has no mode
// byte and keeps the checksum at offset 14. compressed_size counts the
// token stream bytes, padding included; it does not cover the tree
// blob.
type Header struct {
	VersionMajor     uint8
	VersionMinor     uint8
	UncompressedSize uint32
	CompressedSize   uint32
	Level            uint8
	FileType         FileType
	Mode             Mode // zero for legacy versions
	Checksum         uint16
}

const (
	headerSizeV4     = 20
	headerSizeLegacy = 16
)

// marshal appends the version-4 layout of h to dst.
func (h *Header) marshal(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, magicPP)
	dst = append(dst, h.VersionMajor, h.VersionMinor)
	dst = binary.LittleEndian.AppendUint32(dst, h.UncompressedSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.CompressedSize)
	dst = append(dst, h.Level, byte(h.FileType), byte(h.Mode), 0)
	dst = binary.LittleEndian.AppendUint16(dst, h.Checksum)
	dst = binary.LittleEndian.AppendUint16(dst, 0)
	return dst
}

// parseHeader reads the header fields of container and the grammar its
// version byte implies.
func parseHeader(container []byte) (Header, grammar, error) {
	var h Header
	if len(container) < 4 {
		return h, grammar{}, ErrTruncatedHeader
	}
	if binary.LittleEndian.Uint16(container) != magicPP {
		return h, grammar{}, ErrBadMagic
	}
	h.VersionMajor = container[2]
	h.VersionMinor = container[3]
	g, ok := grammarFor(h.VersionMajor)
	if !ok {
		return h, grammar{}, ErrUnsupportedVersion
	}
	if len(container) < g.headerSize {
		return h, grammar{}, ErrTruncatedHeader
	}
	h.UncompressedSize = binary.LittleEndian.Uint32(container[4:])
	h.CompressedSize = binary.LittleEndian.Uint32(container[8:])
	h.Level = container[12]
	h.FileType = FileType(container[13])
	if g.headerSize == headerSizeV4 {
		h.Mode = Mode(container[14])
		h.Checksum = binary.LittleEndian.Uint16(container[16:])
	} else {
		h.Checksum = binary.LittleEndian.Uint16(container[14:])
	}
	return h, g, nil
}

// Stat parses just the framing of a container: header fields and the
// tree size, without decoding anything. It reports the same errors
// Decompress would for a container damaged that early.
func Stat(container []byte) (Header, error) {
	h, g, err := parseHeader(container)
	if err != nil {
		return Header{}, err
	}
	if h.UncompressedSize == 0 || h.UncompressedSize > maxInputSize {
		return Header{}, ErrInvalidSize
	}
	if _, _, err := splitContainer(container, g); err != nil {
		return Header{}, err
	}
	return h, nil
}

// splitContainer slices a container into its tree blob and token
// stream, validating the tree_size field against the container bounds.
func splitContainer(container []byte, g grammar) (tree, tokens []byte, err error) {
	if len(container) < g.headerSize+4 {
		return nil, nil, ErrInvalidSize
	}
	treeSize := int(binary.LittleEndian.Uint32(container[g.headerSize:]))
	body := container[g.headerSize+4:]
	if treeSize == 0 || treeSize > len(body) {
		return nil, nil, ErrInvalidSize
	}
	return body[:treeSize], body[treeSize:], nil
}
