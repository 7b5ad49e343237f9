package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordcheck/pkg/trieio"
	"github.com/charmbracelet/log"
)

// FileFormat represents the dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatWordList            // One word per line
	FormatTrieX               // TrieXv1 text
	FormatTrieXZst            // zstd compressed TrieXv1
	FormatBlob                // TrieBlob binary
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	Magic       []byte
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Word list",
		Extensions:  []string{".txt", ".dic", ".words"},
	},
	FormatTrieX: {
		Format:      FormatTrieX,
		Description: "TrieXv1 text trie",
		Extensions:  []string{".trie"},
		Magic:       []byte("TrieXv1"),
	},
	FormatTrieXZst: {
		Format:      FormatTrieXZst,
		Description: "Compressed TrieXv1 text trie",
		Extensions:  []string{".trie" + trieio.ZstdExt},
		Magic:       []byte{0x28, 0xb5, 0x2f, 0xfd},
	},
	FormatBlob: {
		Format:      FormatBlob,
		Description: "Binary trie blob",
		Extensions:  []string{".btrie"},
		Magic:       []byte("TrieBlob"),
	},
}

// sniffSize is enough to see the TrieXv1 header after a shebang line.
const sniffSize = 256

// FormatFromName returns the format implied by the file extension.
func FormatFromName(filename string) FileFormat {
	name := strings.ToLower(filepath.Base(filename))
	// Longest extension first so ".trie.zst" is not read as ".zst".
	best, bestLen := FormatUnknown, 0
	for format, info := range supportedFormats {
		for _, ext := range info.Extensions {
			if strings.HasSuffix(name, ext) && len(ext) > bestLen {
				best, bestLen = format, len(ext)
			}
		}
	}
	return best
}

// ValidateFileFormat checks that a file looks like the expected format.
func ValidateFileFormat(filename string, expected FileFormat) error {
	info, ok := supportedFormats[expected]
	if !ok {
		return fmt.Errorf("unknown format: %v", expected)
	}
	head, err := readHead(filename)
	if err != nil {
		return err
	}
	if len(head) == 0 {
		return fmt.Errorf("file %s is empty", filename)
	}
	if info.Magic != nil && !hasMagic(head, expected) {
		return fmt.Errorf("file %s is not a %s", filename, info.Description)
	}
	log.Debugf("File %s validated as %s", filename, info.Description)
	return nil
}

// DetectFileFormat finds the format of a file from its content, falling
// back to its extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	head, err := readHead(filename)
	if err != nil {
		return FormatUnknown, err
	}
	for _, f := range []FileFormat{FormatBlob, FormatTrieXZst, FormatTrieX} {
		if hasMagic(head, f) {
			return f, nil
		}
	}
	if f := FormatFromName(filename); f == FormatWordList {
		return f, nil
	}
	if len(head) > 0 && bytes.IndexByte(head, 0) < 0 {
		return FormatWordList, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

func hasMagic(head []byte, f FileFormat) bool {
	magic := supportedFormats[f].Magic
	if f == FormatTrieX {
		return bytes.Contains(head, magic)
	}
	return bytes.HasPrefix(head, magic)
}

func readHead(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()
	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read from %s: %w", filename, err)
	}
	return buf[:n], nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats ordered by format id
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for f := FormatWordList; f <= FormatBlob; f++ {
		formats = append(formats, supportedFormats[f])
	}
	return formats
}
