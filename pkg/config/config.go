/*
Package config manages TOML config for wordcheck services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/charmbracelet/log"
)

// AppName names the config and data directories.
const AppName = "wordcheck"

// Config holds the entire config structure
type Config struct {
	Suggest SuggestConfig `toml:"suggest"`
	Dict    DictConfig    `toml:"dict"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// SuggestConfig holds the default suggestion options.
type SuggestConfig struct {
	NumSuggestions int  `toml:"num_suggestions"`
	ChangeLimit    int  `toml:"change_limit"`
	IncludeTies    bool `toml:"include_ties"`
	IgnoreCase     bool `toml:"ignore_case"`
	TimeoutMs      int  `toml:"timeout_ms"`
	// CompoundMethod is one of "none", "separate" or "join".
	CompoundMethod string `toml:"compound_method"`
}

// DictConfig lists the dictionaries and the runtime caches.
type DictConfig struct {
	Dictionaries    []dictionary.Definition `toml:"dictionaries"`
	UserWords       string                  `toml:"user_words"`
	CompletionCache int                     `toml:"completion_cache"`
	SuggestCache    int                     `toml:"suggest_cache"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit      int `toml:"max_limit"`
	MinPrefix     int `toml:"min_prefix"`
	MaxPrefix     int `toml:"max_prefix"`
	MaxWordLength int `toml:"max_word_length"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	Caller    bool   `toml:"caller"`
	Timestamp bool   `toml:"timestamp"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", AppName)
	if utils.CheckDir(primaryPath).Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", AppName)
	if utils.CheckDir(macOSPath).Writable {
		return macOSPath, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordcheck/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Suggest: SuggestConfig{
			NumSuggestions: suggest.DefaultNumSuggestions,
			ChangeLimit:    suggest.MaxNumChanges,
			IncludeTies:    true,
			IgnoreCase:     true,
			TimeoutMs:      int(suggest.DefaultTimeout / time.Millisecond),
			CompoundMethod: "none",
		},
		Dict: DictConfig{
			UserWords:       "userwords.db",
			CompletionCache: 10000,
			SuggestCache:    2048,
		},
		Server: ServerConfig{
			MaxLimit:      64,
			MinPrefix:     1,
			MaxPrefix:     60,
			MaxWordLength: 64,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.IsFile(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		config.resolvePaths(configDir)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Relative dictionary paths are
// resolved against the directory of the config file.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	config.resolvePaths(filepath.Dir(configPath))
	return config, nil
}

// tryPartialParse keeps every section that still parses.
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		extractLogConfig(section, &config.Log)
	}
	return config
}

func extractSuggestConfig(data map[string]any, s *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "num_suggestions"); ok {
		s.NumSuggestions = val
	}
	if val, ok := utils.ExtractInt64(data, "change_limit"); ok {
		s.ChangeLimit = val
	}
	if val, ok := utils.ExtractBool(data, "include_ties"); ok {
		s.IncludeTies = val
	}
	if val, ok := utils.ExtractBool(data, "ignore_case"); ok {
		s.IgnoreCase = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		s.TimeoutMs = val
	}
	if val, ok := utils.ExtractString(data, "compound_method"); ok {
		s.CompoundMethod = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "user_words"); ok {
		dict.UserWords = val
	}
	if val, ok := utils.ExtractInt64(data, "completion_cache"); ok {
		dict.CompletionCache = val
	}
	if val, ok := utils.ExtractInt64(data, "suggest_cache"); ok {
		dict.SuggestCache = val
	}
	for _, table := range utils.ExtractTables(data, "dictionaries") {
		def := dictionary.Definition{}
		def.Path, _ = utils.ExtractString(table, "path")
		if def.Path == "" {
			log.Warnf("Skipping dictionary without a path: %v", table)
			continue
		}
		def.Name, _ = utils.ExtractString(table, "name")
		def.Info, _ = utils.ExtractString(table, "info")
		def.CaseSensitive, _ = utils.ExtractBool(table, "case_sensitive")
		def.NoSuggest, _ = utils.ExtractBool(table, "no_suggest")
		def.UseCompounds, _ = utils.ExtractBool(table, "use_compounds")
		dict.Dictionaries = append(dict.Dictionaries, def)
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_word_length"); ok {
		server.MaxWordLength = val
	}
}

func extractLogConfig(data map[string]any, l *LogConfig) {
	if val, ok := utils.ExtractString(data, "level"); ok {
		l.Level = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		l.Format = val
	}
	if val, ok := utils.ExtractBool(data, "caller"); ok {
		l.Caller = val
	}
	if val, ok := utils.ExtractBool(data, "timestamp"); ok {
		l.Timestamp = val
	}
}

// resolvePaths makes file paths relative to the config directory absolute.
func (c *Config) resolvePaths(dir string) {
	for i := range c.Dict.Dictionaries {
		def := &c.Dict.Dictionaries[i]
		def.Path = resolve(dir, def.Path)
		def.Info = resolve(dir, def.Info)
	}
	c.Dict.UserWords = resolve(dir, c.Dict.UserWords)
}

func resolve(dir, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return filepath.Join(dir, path)
}

// SuggestOptions converts the suggest section into suggestion options.
func (c *Config) SuggestOptions() (suggest.Options, error) {
	opts := suggest.DefaultOptions()
	s := c.Suggest
	if s.NumSuggestions > 0 {
		opts.NumSuggestions = s.NumSuggestions
	}
	if s.ChangeLimit > 0 {
		opts.ChangeLimit = s.ChangeLimit
	}
	if s.TimeoutMs > 0 {
		opts.Timeout = time.Duration(s.TimeoutMs) * time.Millisecond
	}
	opts.IncludeTies = s.IncludeTies
	opts.IgnoreCase = s.IgnoreCase
	method, err := ParseCompoundMethod(s.CompoundMethod)
	if err != nil {
		return opts, err
	}
	opts.CompoundMethod = method
	return opts, nil
}

// ParseCompoundMethod maps "none", "separate" and "join" to a method.
func ParseCompoundMethod(name string) (trie.CompoundMethod, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return trie.CompoundMethodNone, nil
	case "separate":
		return trie.SeparateWords, nil
	case "join":
		return trie.JoinWords, nil
	}
	return trie.CompoundMethodNone, fmt.Errorf("unknown compound method %q", name)
}

// CacheOptions returns the dictionary cache sizes.
func (c *Config) CacheOptions() dictionary.CacheOptions {
	return dictionary.CacheOptions{
		Completions: c.Dict.CompletionCache,
		Suggestions: c.Dict.SuggestCache,
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return utils.WriteTOMLFile(defaultPath, DefaultConfig())
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOMLFile(configPath, config)
}

// AddDictionary appends def and saves the config.
func (c *Config) AddDictionary(configPath string, def dictionary.Definition) error {
	for _, d := range c.Dict.Dictionaries {
		if d.Path == def.Path {
			return fmt.Errorf("dictionary %s is already configured", def.Path)
		}
	}
	c.Dict.Dictionaries = append(c.Dict.Dictionaries, def)
	return SaveConfig(c, configPath)
}
