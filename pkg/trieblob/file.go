package trieblob

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/trie"
)

// Ext is the file extension of encoded tries.
const Ext = ".btrie"

// WriteFile encodes t into path.
func WriteFile(path string, t *trie.Trie) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("trieblob: write %s: %w", path, err)
	}
	return nil
}
