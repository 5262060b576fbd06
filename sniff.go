package pp

import "bytes"

// A FileType classifies the input from its first few bytes. It is
// recorded in the container header for tooling to display, and feeds
// the mode selection on the encoder side, but it never changes how a
// container is decoded.
type FileType uint8

const (
	FileBinary FileType = iota
	FilePNG
	FileJPEG
	FileGIF
	FileZIP
	FilePDF
	FileGZIP
	FileText
)

func (t FileType) String() string {
	switch t {
	case FileBinary:
		return "binary"
	case FilePNG:
		return "png"
	case FileJPEG:
		return "jpeg"
	case FileGIF:
		return "gif"
	case FileZIP:
		return "zip"
	case FilePDF:
		return "pdf"
	case FileGZIP:
		return "gzip"
	case FileText:
		return "text"
	}
	return "unknown"
}

var magicTable = []struct {
	prefix []byte
	t      FileType
}{
	{[]byte{0x89, 0x50, 0x4E, 0x47}, FilePNG},
	{[]byte{0xFF, 0xD8, 0xFF}, FileJPEG},
	{[]byte{0x47, 0x49, 0x46}, FileGIF},
	{[]byte{0x50, 0x4B}, FileZIP},
	{[]byte{0x25, 0x50, 0x44, 0x46}, FilePDF},
	{[]byte{0x1F, 0x8B}, FileGZIP},
}

// DetectFileType sniffs b and returns its classification. If no known
// magic matches, up to the first 2048 bytes are sampled; a sample that
// is at least 85% printable ASCII (plus tab, CR, LF) counts as text.
func DetectFileType(b []byte) FileType {
	for _, m := range magicTable {
		if bytes.HasPrefix(b, m.prefix) {
			return m.t
		}
	}

	sample := b
	if len(sample) > 2048 {
		sample = sample[:2048]
	}
	if len(sample) == 0 {
		return FileBinary
	}
	printable := 0
	for _, c := range sample {
		if c >= 0x20 && c <= 0x7E || c == '\t' || c == '\r' || c == '\n' {
			printable++
		}
	}
	if printable*100 >= 85*len(sample) {
		return FileText
	}
	return FileBinary
}
