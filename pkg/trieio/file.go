package trieio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

// ZstdExt marks compressed TrieXv1 files.
const ZstdExt = ".zst"

const maxLineSize = 16 << 20

// Write serializes t to w.
func Write(w io.Writer, t *trie.Trie, opts ExportOptions) error {
	bw := bufio.NewWriter(w)
	for line := range Serialize(t, opts) {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read imports a trie from r.
func Read(r io.Reader) (*trie.Trie, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var scanErr error
	lines := iter.Seq[string](func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
		scanErr = sc.Err()
	})
	t, err := Import(lines)
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, fmt.Errorf("trieio: read: %w", scanErr)
	}
	return t, nil
}

// WriteFile writes t to path, zstd compressed when path ends in ".zst".
func WriteFile(path string, t *trie.Trie, opts ExportOptions) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, t, opts); err != nil {
		return err
	}
	data := buf.Bytes()
	if strings.HasSuffix(path, ZstdExt) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("trieio: write %s: %w", path, err)
	}
	log.Debugf("wrote %s (%d bytes)", path, len(data))
	return nil
}

// ReadFile reads a trie from path, decompressing ".zst" files.
func ReadFile(path string) (*trie.Trie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trieio: %w", err)
	}
	if strings.HasSuffix(path, ZstdExt) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("trieio: decompress %s: %w", path, err)
		}
	}
	t, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
