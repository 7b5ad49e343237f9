package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/trie"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[suggest]
num_suggestions = 3
compound_method = "join"

[dict]
user_words = "/var/lib/words.db"

[[dict.dictionaries]]
name = "en"
path = "dicts/en.trie.zst"
use_compounds = true

[[dict.dictionaries]]
path = "/abs/names.txt"
no_suggest = true

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Suggest.NumSuggestions != 3 || cfg.Suggest.CompoundMethod != "join" {
		t.Errorf("suggest = %+v", cfg.Suggest)
	}
	if !cfg.Suggest.IncludeTies {
		t.Error("missing keys should keep their defaults")
	}
	if len(cfg.Dict.Dictionaries) != 2 {
		t.Fatalf("dictionaries = %+v", cfg.Dict.Dictionaries)
	}
	en := cfg.Dict.Dictionaries[0]
	if en.Name != "en" || !en.UseCompounds || en.Path != filepath.Join(filepath.Dir(path), "dicts", "en.trie.zst") {
		t.Errorf("en = %+v", en)
	}
	if names := cfg.Dict.Dictionaries[1]; names.Path != "/abs/names.txt" || !names.NoSuggest {
		t.Errorf("names = %+v", names)
	}
	if cfg.Dict.UserWords != "/var/lib/words.db" || cfg.Log.Level != "debug" {
		t.Errorf("dict = %+v, log = %+v", cfg.Dict, cfg.Log)
	}
	if cfg.Server != DefaultConfig().Server {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[suggest]
num_suggestions = "many"
change_limit = 3

[server]
max_limit = 10

[[dict.dictionaries]]
path = "en.txt"
case_sensitive = true

[[dict.dictionaries]]
name = "no path"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Suggest.NumSuggestions != def.Suggest.NumSuggestions {
		t.Errorf("invalid value replaced the default: %d", cfg.Suggest.NumSuggestions)
	}
	if cfg.Suggest.ChangeLimit != 3 || cfg.Server.MaxLimit != 10 {
		t.Errorf("valid values lost: %+v %+v", cfg.Suggest, cfg.Server)
	}
	if len(cfg.Dict.Dictionaries) != 1 || !cfg.Dict.Dictionaries[0].CaseSensitive {
		t.Errorf("dictionaries = %+v", cfg.Dict.Dictionaries)
	}
}

func TestLoadConfigInvalidSyntax(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[suggest\nnum = "))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Suggest != DefaultConfig().Suggest {
		t.Errorf("suggest = %+v, want defaults", cfg.Suggest)
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if want := filepath.Join(filepath.Dir(path), "userwords.db"); cfg.Dict.UserWords != want {
		t.Errorf("UserWords = %q, want %q", cfg.Dict.UserWords, want)
	}

	def := dictionary.Definition{Name: "en", Path: "/dicts/en.btrie"}
	if err := cfg.AddDictionary(path, def); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddDictionary(path, def); err == nil {
		t.Error("expected an error adding a dictionary twice")
	}
	again, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Dict.Dictionaries) != 1 || again.Dict.Dictionaries[0] != def {
		t.Errorf("saved dictionaries = %+v", again.Dict.Dictionaries)
	}
}

func TestLoadConfigWithPriority(t *testing.T) {
	path := writeConfig(t, "[server]\nmax_limit = 7\n")
	cfg, used, err := LoadConfigWithPriority(path)
	if err != nil {
		t.Fatal(err)
	}
	if used != path || cfg.Server.MaxLimit != 7 {
		t.Errorf("LoadConfigWithPriority = %+v from %q", cfg.Server, used)
	}
}

func TestSuggestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Suggest.NumSuggestions = 4
	cfg.Suggest.TimeoutMs = 250
	cfg.Suggest.IgnoreCase = false
	cfg.Suggest.CompoundMethod = "separate"
	opts, err := cfg.SuggestOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.NumSuggestions != 4 || opts.Timeout != 250*time.Millisecond || opts.IgnoreCase {
		t.Errorf("opts = %+v", opts)
	}
	if opts.CompoundMethod != trie.SeparateWords {
		t.Errorf("CompoundMethod = %v", opts.CompoundMethod)
	}

	cfg.Suggest.CompoundMethod = "glue"
	if _, err := cfg.SuggestOptions(); err == nil {
		t.Error("expected an error for an unknown compound method")
	}
	if c := cfg.CacheOptions(); c.Completions != cfg.Dict.CompletionCache || c.Suggestions != cfg.Dict.SuggestCache {
		t.Errorf("CacheOptions = %+v", c)
	}
}
