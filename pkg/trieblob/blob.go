package trieblob

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"iter"
	"os"
	"sort"

	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/bastiangx/wordcheck/pkg/utf8codec"
	"github.com/charmbracelet/log"
	"github.com/edsrzf/mmap-go"
	"github.com/vmihailenco/msgpack/v5"
)

// Blob answers queries straight from an encoded table. A Blob is read only
// and safe for concurrent use until Close.
type Blob struct {
	info  trie.TrieInfo
	order binary.ByteOrder
	table []byte
	count int
	root  uint32

	mm   mmap.MMap
	file *os.File
}

// Decode parses data without copying the node table. data must stay
// unchanged while the Blob is in use.
func Decode(data []byte) (*Blob, error) {
	if len(data) < len(magic)+12 || !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return nil, ErrUnknownFormat
	}
	pos := len(magic)
	var order binary.ByteOrder
	switch binary.LittleEndian.Uint32(data[pos:]) {
	case endianMarker:
		order = binary.LittleEndian
	case 0x01020304:
		order = binary.BigEndian
	default:
		return nil, ErrUnknownFormat
	}
	pos += 4
	if v := order.Uint32(data[pos:]); v > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	pos += 4
	infoLen := int(order.Uint32(data[pos:]))
	pos += 4
	if pos+infoLen+8 > len(data) {
		return nil, fmt.Errorf("%w: info section", ErrCorrupt)
	}
	var info trie.TrieInfo
	if err := msgpack.Unmarshal(data[pos:pos+infoLen], &info); err != nil {
		return nil, fmt.Errorf("%w: info: %v", ErrCorrupt, err)
	}
	pos += infoLen
	root := order.Uint32(data[pos:])
	count := int(order.Uint32(data[pos+4:]))
	pos += 8
	if pos+4*count != len(data) || (count > 0 && int(root) >= count) {
		return nil, fmt.Errorf("%w: node table of %d entries in %d bytes", ErrCorrupt, count, len(data)-pos)
	}
	b := &Blob{
		info:  trie.MergeInfo(&info),
		order: order,
		table: data[pos:],
		count: count,
		root:  root,
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// validate checks that every header fits its entries and every entry
// points at an earlier node.
func (b *Blob) validate() error {
	for off := 0; off < b.count; {
		n := b.childCount(uint32(off))
		if off+1+n > b.count {
			return fmt.Errorf("%w: node %d overruns the table", ErrCorrupt, off)
		}
		for i := 1; i <= n; i++ {
			if child := int(b.at(uint32(off+i)) >> offShift); child >= off {
				return fmt.Errorf("%w: node %d points forward to %d", ErrCorrupt, off, child)
			}
		}
		off += 1 + n
	}
	return nil
}

// Open maps the file at path read only and decodes it.
func Open(path string) (*Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("trieblob: map %s: %w", path, err)
	}
	b, err := Decode(m)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.mm, b.file = m, f
	log.Debugf("mapped %s: %d table entries", path, b.count)
	return b, nil
}

// Close releases the mapping of a Blob returned by Open.
func (b *Blob) Close() error {
	if b.mm == nil {
		return nil
	}
	err := b.mm.Unmap()
	if cerr := b.file.Close(); err == nil {
		err = cerr
	}
	b.mm, b.file, b.table, b.count = nil, nil, nil, 0
	return err
}

// Info returns the reserved prefix layout.
func (b *Blob) Info() trie.TrieInfo { return b.info }

// Size returns the number of uint32 values in the node table.
func (b *Blob) Size() int { return b.count }

func (b *Blob) at(i uint32) uint32 {
	return b.order.Uint32(b.table[4*i:])
}

func (b *Blob) childCount(off uint32) int {
	return int(b.at(off) & countMask)
}

func (b *Blob) isEndOfWord(off uint32) bool {
	return b.at(off)&eowFlag != 0
}

// child finds the entry for c below off with a binary search.
func (b *Blob) child(off uint32, c byte) (uint32, bool) {
	n := b.childCount(off)
	i := sort.Search(n, func(i int) bool {
		return byte(b.at(off+1+uint32(i))&byteMask) >= c
	})
	if i >= n {
		return 0, false
	}
	e := b.at(off + 1 + uint32(i))
	if byte(e&byteMask) != c {
		return 0, false
	}
	return e >> offShift, true
}

func (b *Blob) find(word string) (uint32, bool) {
	if b.count == 0 {
		return 0, false
	}
	off := b.root
	cur := utf8codec.NewByteCursor([]byte(word))
	for !cur.Done() {
		next, ok := b.child(off, cur.Cur())
		if !ok {
			return 0, false
		}
		off = next
		cur.Next()
	}
	return off, true
}

// Has reports whether word is stored exactly.
func (b *Blob) Has(word string) bool {
	off, ok := b.find(word)
	return ok && b.isEndOfWord(off)
}

// HasWord is Has with an optional fallback to the case insensitive forms.
func (b *Blob) HasWord(word string, caseSensitive bool) bool {
	if b.Has(word) {
		return true
	}
	if caseSensitive {
		return false
	}
	folded := trie.NormalizeWordForCaseInsensitive(word)
	return b.Has(b.info.StripCaseAndAccentsPrefix+folded) || b.Has(folded)
}

// IsForbiddenWord reports whether word is stored with the forbidden prefix.
func (b *Blob) IsForbiddenWord(word string) bool {
	return b.Has(b.info.ForbiddenWordPrefix + word)
}

// IsNoSuggestWord reports whether word is stored with the no-suggest prefix.
func (b *Blob) IsNoSuggestWord(word string) bool {
	return b.Has(b.info.NoSuggestWordPrefix + word)
}

// Words yields every stored word in byte order.
func (b *Blob) Words() iter.Seq[string] {
	return b.CompleteWord("")
}

// ToTrie rebuilds an in-memory trie with the same words and layout.
func (b *Blob) ToTrie() (*trie.Trie, error) {
	info := b.info
	if b.count == 0 {
		return trie.Empty(&info), nil
	}
	asm := trie.NewAssembler(&info, b.count/2)
	memo := make(map[uint32]trie.NodeRef)

	type edge struct {
		r   rune
		off uint32
	}
	var gather func(off uint32, acc *utf8codec.Accumulator, out []edge) []edge
	gather = func(off uint32, acc *utf8codec.Accumulator, out []edge) []edge {
		n := uint32(b.childCount(off))
		for i := uint32(0); i < n; i++ {
			e := b.at(off + 1 + i)
			a := acc.Clone()
			if r, ok := a.Decode(byte(e & byteMask)); ok {
				out = append(out, edge{r, e >> offShift})
			} else {
				out = gather(e>>offShift, a, out)
			}
		}
		return out
	}

	var visit func(off uint32) (trie.NodeRef, error)
	visit = func(off uint32) (trie.NodeRef, error) {
		if ref, ok := memo[off]; ok {
			return ref, nil
		}
		edges := gather(off, &utf8codec.Accumulator{}, nil)
		keys := make([]rune, len(edges))
		kids := make([]trie.NodeRef, len(edges))
		for i, e := range edges {
			ref, err := visit(e.off)
			if err != nil {
				return 0, err
			}
			keys[i], kids[i] = e.r, ref
		}
		ref, err := asm.Add(b.isEndOfWord(off), keys, kids)
		if err != nil {
			return 0, err
		}
		memo[off] = ref
		return ref, nil
	}
	root, err := visit(b.root)
	if err != nil {
		return nil, err
	}
	return asm.Build(root)
}
