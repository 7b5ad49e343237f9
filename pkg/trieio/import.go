package trieio

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/bastiangx/wordcheck/pkg/utf8codec"
	"github.com/charmbracelet/log"
)

// ErrUnknownFormat is returned when the header is not a TrieXv1 header.
var ErrUnknownFormat = errors.New("unknown file format")

type importer struct {
	base     int
	asm      *trie.Assembler
	rows     []trie.NodeRef
	pending  strings.Builder
	header   []string
	inData   bool
	lineNo   int
	keys     []rune
	children []trie.NodeRef
}

// Import reads a trie written by Serialize. Items may hold one line or
// several newline separated lines.
func Import(lines iter.Seq[string]) (*trie.Trie, error) {
	return ImportWithInfo(lines, nil)
}

// ImportWithInfo is Import with a custom reserved prefix layout.
func ImportWithInfo(lines iter.Seq[string], info *trie.TrieInfo) (*trie.Trie, error) {
	im := &importer{asm: trie.NewAssembler(info, 1024)}
	for item := range lines {
		for _, line := range strings.Split(item, "\n") {
			if err := im.line(line); err != nil {
				return nil, err
			}
		}
	}
	if im.pending.Len() > 0 {
		if err := im.row(im.pending.String()); err != nil {
			return nil, err
		}
	}
	if !im.inData {
		if err := im.parseHeader(); err != nil {
			return nil, err
		}
	}
	if len(im.rows) == 0 {
		return trie.Empty(info), nil
	}
	t, err := im.asm.Build(im.rows[len(im.rows)-1])
	if err != nil {
		return nil, err
	}
	log.Debugf("imported TrieXv1: %d rows, %d nodes", len(im.rows), im.asm.Len())
	return t, nil
}

func (im *importer) line(line string) error {
	im.lineNo++
	line = strings.TrimSuffix(line, "\r")
	if !im.inData {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		if strings.HasPrefix(line, "#") {
			if line == dataMarker && len(im.header) >= 2 {
				return im.startData()
			}
			return nil
		}
		if len(im.header) < 2 {
			im.header = append(im.header, line)
			if len(im.header) == 2 {
				return im.parseHeader()
			}
			return nil
		}
		if err := im.startData(); err != nil {
			return err
		}
	}

	if continues(line) {
		im.pending.WriteString(line[:len(line)-1])
		return nil
	}
	if im.pending.Len() > 0 {
		im.pending.WriteString(line)
		line = im.pending.String()
		im.pending.Reset()
	}
	if line == "" {
		return nil
	}
	return im.row(line)
}

func (im *importer) startData() error {
	if err := im.parseHeader(); err != nil {
		return err
	}
	im.inData = true
	return nil
}

func (im *importer) parseHeader() error {
	if len(im.header) < 2 || im.header[0] != formatID || !strings.HasPrefix(im.header[1], "base=") {
		return fmt.Errorf("trieio: %w", ErrUnknownFormat)
	}
	base, err := strconv.Atoi(strings.TrimPrefix(im.header[1], "base="))
	if err != nil || base < 2 || base > 36 {
		return fmt.Errorf("trieio: bad base %q: %w", im.header[1], ErrUnknownFormat)
	}
	im.base = base
	return nil
}

// continues reports whether line ends in an unescaped backslash.
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func (im *importer) row(line string) error {
	cur := utf8codec.NewByteCursor([]byte(line))
	eow := false
	if cur.Cur() == eowMarker {
		eow = true
		cur.Next()
	}
	im.keys = im.keys[:0]
	im.children = im.children[:0]
	var ref strings.Builder
	for !cur.Done() {
		if cur.Cur() == ',' {
			cur.Next()
			continue
		}
		if cur.Cur() == '\\' {
			cur.Next()
		}
		k := cur.DecodeRune()
		ref.Reset()
		for !cur.Done() && cur.Cur() != ',' {
			ref.WriteByte(cur.Cur())
			cur.Next()
		}
		idx := uint64(0)
		if ref.Len() > 0 {
			var err error
			idx, err = strconv.ParseUint(ref.String(), im.base, 32)
			if err != nil {
				return fmt.Errorf("trieio: line %d: bad reference %q: %w", im.lineNo, ref.String(), err)
			}
		}
		if idx >= uint64(len(im.rows)) {
			return fmt.Errorf("trieio: line %d: reference %d to a later row: %w", im.lineNo, idx, trie.ErrBadRef)
		}
		im.keys = append(im.keys, k)
		im.children = append(im.children, im.rows[idx])
	}
	n, err := im.asm.Add(eow, im.keys, im.children)
	if err != nil {
		return fmt.Errorf("trieio: line %d: %w", im.lineNo, err)
	}
	im.rows = append(im.rows, n)
	return nil
}
