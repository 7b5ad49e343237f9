package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/distance"
	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/bastiangx/wordcheck/pkg/trieblob"
	"github.com/bastiangx/wordcheck/pkg/trieio"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v2"
)

// InfoExt is the suffix of the dictionary information file that sits next
// to a dictionary: "en.trie.zst" is described by "en.info.yaml".
const InfoExt = ".info.yaml"

// Definition names a dictionary file and how to use it.
type Definition struct {
	Name          string `toml:"name" msgpack:"name,omitempty"`
	Path          string `toml:"path" msgpack:"path"`
	CaseSensitive bool   `toml:"case_sensitive" msgpack:"case_sensitive,omitempty"`
	NoSuggest     bool   `toml:"no_suggest" msgpack:"no_suggest,omitempty"`
	UseCompounds  bool   `toml:"use_compounds" msgpack:"use_compounds,omitempty"`
	// Info overrides the information file found next to Path.
	Info string `toml:"info,omitempty" msgpack:"info,omitempty"`
}

// Load reads the dictionary described by def. It never returns nil: load
// problems are kept on the dictionary and reported by Errors.
func Load(def Definition) *SpellingDictionary {
	name := def.Name
	if name == "" {
		name = BaseName(def.Path)
	}
	opts := Options{
		CaseSensitive: def.CaseSensitive,
		NoSuggest:     def.NoSuggest,
		UseCompounds:  def.UseCompounds,
	}

	infoPath := def.Info
	if infoPath == "" {
		infoPath = InfoPath(def.Path)
	}
	if utils.IsFile(infoPath) {
		info, err := LoadInfo(infoPath)
		if err != nil {
			log.Warnf("Dictionary %s: %v", name, err)
			return failed(name, def.Path, err, opts)
		}
		wm, err := distance.MapDictionaryInformationToWeightMap(info)
		if err != nil {
			err = fmt.Errorf("%s: %w", infoPath, err)
			log.Warnf("Dictionary %s: %v", name, err)
			return failed(name, def.Path, err, opts)
		}
		opts.WeightMap = wm
		log.Debugf("Dictionary %s: weights from %s", name, infoPath)
	} else if def.Info != "" {
		err := fmt.Errorf("information file %s not found", def.Info)
		return failed(name, def.Path, err, opts)
	}

	format, err := DetectFileFormat(def.Path)
	if err != nil {
		log.Warnf("Dictionary %s: %v", name, err)
		return failed(name, def.Path, err, opts)
	}
	if format == FormatBlob {
		b, err := trieblob.Open(def.Path)
		if err != nil {
			log.Warnf("Dictionary %s: %v", name, err)
			return failed(name, def.Path, err, opts)
		}
		log.Debugf("Dictionary %s mapped from %s", name, def.Path)
		return NewFromBlob(name, def.Path, b, opts)
	}

	t, err := LoadTrie(def.Path)
	if err != nil {
		log.Warnf("Dictionary %s: %v", name, err)
		return failed(name, def.Path, err, opts)
	}
	log.Debugf("Dictionary %s loaded from %s", name, def.Path)
	return New(name, def.Path, t, opts)
}

// LoadTrie reads a trie in any supported format. A blob is expanded into
// a trie and unmapped; Load keeps blobs mapped instead.
func LoadTrie(path string) (*trie.Trie, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatWordList:
		return ReadWordListFile(path, DefaultParseOptions())
	case FormatTrieX, FormatTrieXZst:
		return trieio.ReadFile(path)
	case FormatBlob:
		b, err := trieblob.Open(path)
		if err != nil {
			return nil, err
		}
		defer b.Close()
		return b.ToTrie()
	}
	return nil, fmt.Errorf("unsupported format %v for %s", format, path)
}

// SaveTrie writes t to path in the format implied by its extension.
func SaveTrie(path string, t *trie.Trie, comment string) error {
	switch FormatFromName(path) {
	case FormatBlob:
		return trieblob.WriteFile(path, t)
	case FormatTrieX, FormatTrieXZst:
		return trieio.WriteFile(path, t, trieio.ExportOptions{Comment: comment})
	}
	return fmt.Errorf("no trie format for %s", path)
}

// LoadInfo reads a dictionary information file.
func LoadInfo(path string) (distance.DictionaryInformation, error) {
	var info distance.DictionaryInformation
	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}
	if err := yaml.UnmarshalStrict(data, &info); err != nil {
		return info, fmt.Errorf("parse %s: %w", path, err)
	}
	return info, nil
}

// BaseName strips the directory and every dictionary extension from path.
func BaseName(path string) string {
	name := filepath.Base(path)
	for {
		ext := filepath.Ext(name)
		if ext == "" || ext == name {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}

// InfoPath returns the information file path for a dictionary file.
func InfoPath(path string) string {
	return filepath.Join(filepath.Dir(path), BaseName(path)+InfoExt)
}
