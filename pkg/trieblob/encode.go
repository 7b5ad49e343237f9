/*
Package trieblob stores a trie as one flat table of uint32 values that can
be memory mapped and queried without building any node objects.

Layout, all integers in the byte order announced by the endian marker:

	"TrieBlob"         8 byte magic
	0x04030201         endian marker
	version            uint32
	info length        uint32
	info               msgpack encoded trie.TrieInfo
	root offset        uint32
	node count         uint32, number of uint32 values that follow
	nodes              uint32 table

A node is a header followed by its child entries:

	header  eow<<8 | child count
	entry   child offset<<8 | byte

Edges carry single UTF-8 bytes. A character of several bytes is stored as
a chain of intermediate nodes, so entries of a node are always sorted by
byte and a lookup is a binary search per byte.
*/
package trieblob

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/bastiangx/wordcheck/pkg/utf8codec"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	magic        = "TrieBlob"
	endianMarker = 0x04030201
	// Version of the layout written by Encode.
	Version = 1

	eowFlag   = 1 << 8
	countMask = 0xff
	byteMask  = 0xff
	offShift  = 8
	maxOffset = 1<<24 - 1
)

var (
	// ErrUnknownFormat is returned for data without the blob magic or with
	// an unknown endian marker.
	ErrUnknownFormat = errors.New("trieblob: unknown format")
	// ErrUnsupportedVersion is returned for blobs written by a newer layout.
	ErrUnsupportedVersion = errors.New("trieblob: unsupported version")
	// ErrTooLarge is returned when a node offset does not fit in 24 bits.
	ErrTooLarge = errors.New("trieblob: trie too large")
	// ErrCorrupt is returned for truncated or inconsistent blobs.
	ErrCorrupt = errors.New("trieblob: corrupt data")
)

type byteKid struct {
	bytes []byte
	off   uint32
}

type encoder struct {
	table []uint32
	memo  map[trie.NodeRef]uint32
	buf   [4]byte
}

// Encode serializes t.
func Encode(t *trie.Trie) ([]byte, error) {
	e := &encoder{memo: make(map[trie.NodeRef]uint32, t.Size())}
	var root uint32
	for n := range t.PostOrder() {
		off, err := e.node(n)
		if err != nil {
			return nil, err
		}
		root = off
	}

	info, err := msgpack.Marshal(t.Info())
	if err != nil {
		return nil, fmt.Errorf("trieblob: encode info: %w", err)
	}

	out := make([]byte, 0, len(magic)+4*6+len(info)+4*len(e.table))
	out = append(out, magic...)
	le := binary.LittleEndian
	out = le.AppendUint32(out, endianMarker)
	out = le.AppendUint32(out, Version)
	out = le.AppendUint32(out, uint32(len(info)))
	out = append(out, info...)
	out = le.AppendUint32(out, root)
	out = le.AppendUint32(out, uint32(len(e.table)))
	for _, v := range e.table {
		out = le.AppendUint32(out, v)
	}
	return out, nil
}

func (e *encoder) node(n trie.Node) (uint32, error) {
	kids := make([]byteKid, n.Len())
	for i := range kids {
		k, c := n.ChildAt(i)
		size := utf8codec.EncodeRuneInto(k, e.buf[:])
		kids[i] = byteKid{bytes: slices.Clone(e.buf[:size]), off: e.memo[c.Ref()]}
	}
	off, err := e.emit(n.IsEndOfWord(), kids, 0)
	if err != nil {
		return 0, err
	}
	e.memo[n.Ref()] = off
	return off, nil
}

// emit writes the node for kids that share their first depth bytes and
// returns its offset. Intermediate nodes are written before their parent.
func (e *encoder) emit(eow bool, kids []byteKid, depth int) (uint32, error) {
	type entry struct {
		b   byte
		off uint32
	}
	var entries []entry
	for i := 0; i < len(kids); {
		b := kids[i].bytes[depth]
		j := i + 1
		for j < len(kids) && kids[j].bytes[depth] == b {
			j++
		}
		group := kids[i:j]
		if len(group) == 1 && len(group[0].bytes) == depth+1 {
			entries = append(entries, entry{b, group[0].off})
		} else {
			sub, err := e.emit(false, group, depth+1)
			if err != nil {
				return 0, err
			}
			entries = append(entries, entry{b, sub})
		}
		i = j
	}

	off := uint32(len(e.table))
	if off > maxOffset {
		return 0, ErrTooLarge
	}
	header := uint32(len(entries))
	if eow {
		header |= eowFlag
	}
	e.table = append(e.table, header)
	for _, en := range entries {
		e.table = append(e.table, en.off<<offShift|uint32(en.b))
	}
	return off, nil
}
