/*
Package trieio reads and writes tries in the TrieXv1 text format.

A file starts with a small header followed by one row per distinct node,
children before parents, so the last row is the root:

	#!/usr/bin/env triec reader
	TrieXv1
	base=16
	# optional comment lines
	# Data:
	*
	*s
	t1
	a2
	b3,c3

A row is an optional '*' (a word ends here) and a comma separated list of
edges. An edge is the character, backslash escaped when it is one of
[]\,:{}*, followed by the row number of the child in the header's base. An
empty row number means row 0. A row ending in an unescaped backslash
continues on the next line.
*/
package trieio

import (
	"iter"
	"strconv"
	"strings"

	"github.com/bastiangx/wordcheck/pkg/trie"
)

const (
	// DefaultBase is the radix of row numbers when none is given.
	DefaultBase = 16

	shebang    = "#!/usr/bin/env triec reader"
	formatID   = "TrieXv1"
	dataMarker = "# Data:"
	eowMarker  = '*'

	// Rows are folded past this width when line breaks are requested.
	foldWidth = 80
)

// ExportOptions configure Serialize.
type ExportOptions struct {
	// Base is the radix of row numbers, clamped to 10..36. Zero means 16.
	Base    int
	Comment string
	// AddLineBreaksToImproveDiffs folds long rows so that small changes to
	// a dictionary produce small diffs.
	AddLineBreaksToImproveDiffs bool
}

func clampBase(base int) int {
	if base == 0 {
		return DefaultBase
	}
	return min(max(base, 10), 36)
}

const escapeChars = `[]\,:{}*`

func escapeChar(r rune) string {
	if strings.ContainsRune(escapeChars, r) {
		return `\` + string(r)
	}
	return string(r)
}

// Serialize yields the TrieXv1 text of t line by line. Every item ends with
// a newline. The trie is left untouched.
func Serialize(t *trie.Trie, opts ExportOptions) iter.Seq[string] {
	base := clampBase(opts.Base)
	return func(yield func(string) bool) {
		header := []string{shebang, formatID, "base=" + strconv.Itoa(base)}
		if opts.Comment != "" {
			for _, line := range strings.Split(opts.Comment, "\n") {
				header = append(header, "# "+line)
			}
		}
		header = append(header, dataMarker)
		for _, h := range header {
			if !yield(h + "\n") {
				return
			}
		}

		rows := make(map[trie.NodeRef]int)
		for n := range t.PostOrder() {
			rows[n.Ref()] = len(rows)
			if !yield(formatRow(n, rows, base, opts.AddLineBreaksToImproveDiffs)) {
				return
			}
		}
	}
}

func formatRow(n trie.Node, rows map[trie.NodeRef]int, base int, fold bool) string {
	var sb strings.Builder
	lineStart := 0
	if n.IsEndOfWord() {
		sb.WriteRune(eowMarker)
	}
	for i := 0; i < n.Len(); i++ {
		k, c := n.ChildAt(i)
		if i > 0 {
			sb.WriteByte(',')
			if fold && sb.Len()-lineStart >= foldWidth {
				sb.WriteString("\\\n")
				lineStart = sb.Len()
			}
		}
		sb.WriteString(escapeChar(k))
		if idx := rows[c.Ref()]; idx != 0 {
			sb.WriteString(strconv.FormatInt(int64(idx), base))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
