// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the spell checking server and its interactive CLI.

wordcheck loads spelling dictionaries (word lists, TrieXv1 text tries,
zstd compressed tries or TrieBlob binaries), answers msgpack requests on
stdin/stdout and keeps the words a user adds in a SQLite database.

# Usage

Start the server with the dictionaries listed in the config file:

	wordcheck

Load every dictionary of a directory and enable debug logging:

	wordcheck -data /path/to/dicts -d

Check words interactively:

	wordcheck -c -limit 10

# Configuration

The TOML config is created with defaults when missing:

	[suggest]
	num_suggestions = 8
	ignore_case = true

	[dict]
	user_words = "userwords.db"

	[[dict.dictionaries]]
	path = "dicts/en_US.trie.zst"

	[log]
	level = "info"

A .env file in the working directory may set WORDCHECK_CONFIG,
WORDCHECK_DATA and WORDCHECK_DEBUG, which act as defaults for the flags.

# Command Line Flags

	-config string
	    Path of the config file
	-data string
	    Directory of dictionaries, used when the config lists none
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to show in CLI mode
	-no-filter
	    Disable input filtering in CLI mode
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/bastiangx/wordcheck/internal/cli"
	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/server"
	"github.com/bastiangx/wordcheck/pkg/userdict"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordcheck"
	gh      = "https://github.com/bastiangx/wordcheck"
)

// dictionaryPatterns are the files loaded from a data directory.
var dictionaryPatterns = []string{"*.txt", "*.dic", "*.trie", "*.trie.zst", "*.btrie"}

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cleanup()
		os.Exit(0)
	}()
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// main only manages the flow between the packages.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to read .env: %v", err)
	}
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", os.Getenv("WORDCHECK_CONFIG"), "Path of the config file")
	dataDir := flag.String("data", os.Getenv("WORDCHECK_DATA"), "Directory of dictionaries, used when the config lists none")
	debugMode := flag.Bool("d", envBool("WORDCHECK_DEBUG"), "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.Suggest.NumSuggestions, "Number of suggestions to show in CLI mode")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering (DBG only)")
	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.Caller, cfg.Log.Timestamp); err != nil {
		log.Warnf("Invalid log config: %v", err)
	}
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	}
	log.Debugf("Using config file: %s", config.GetActiveConfigPath(usedPath))

	var store dictionary.WordStore
	closeStore := func() {}
	if cfg.Dict.UserWords != "" {
		s, err := userdict.Open(cfg.Dict.UserWords)
		if err != nil {
			log.Warnf("User words disabled: %v", err)
		} else {
			store = s
			closeStore = func() { s.Close() }
		}
	}
	sigHandler(closeStore)
	defer closeStore()

	manager, err := dictionary.NewManager(store, cfg.CacheOptions())
	if err != nil {
		log.Fatalf("Failed to init dictionaries: %v", err)
	}
	defer manager.Close()

	defs := cfg.Dict.Dictionaries
	if len(defs) == 0 || *dataDir != "" {
		defs = append(defs, discoverDictionaries(*dataDir)...)
	}
	if len(defs) == 0 {
		log.Warn("No dictionaries configured, running with user words only...")
	}
	if err := manager.LoadAll(defs); err != nil {
		log.Warnf("%v", err)
	}

	opts, err := cfg.SuggestOptions()
	if err != nil {
		log.Fatalf("Invalid suggest config: %v", err)
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		h := cli.NewInputHandler(manager, opts, cfg.Server.MaxWordLength, *limit, *noFilter)
		if err := h.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv, err := server.NewServer(manager, cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	showStartupInfo(manager)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// discoverDictionaries lists the dictionary files of the data directory.
func discoverDictionaries(dataDir string) []dictionary.Definition {
	if dataDir == "" {
		dataDir = "data"
	}
	pr, err := utils.NewPathResolver(AppName, dictionaryPatterns...)
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		return nil
	}
	dir, err := pr.GetDataDir(dataDir)
	if err != nil {
		log.Debugf("No dictionary directory found: %v", err)
		if log.GetLevel() <= log.DebugLevel {
			log.Debug("Path diagnostics", "paths", pr.DiagnosePathIssues(dataDir))
		}
		return nil
	}
	log.Debugf("Using data dir at: %s", dir)
	var defs []dictionary.Definition
	for _, path := range pr.ListDataFiles(dir) {
		defs = append(defs, dictionary.Definition{Path: path})
	}
	return defs
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{})
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordcheck ] spell checking over msgpack")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints the loaded dictionaries on stderr.
func showStartupInfo(m *dictionary.Manager) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	fmt.Fprintln(os.Stderr, title.Render("wordcheck "+Version))
	log.Infof("Process ID: [ %d ]", os.Getpid())
	for _, d := range m.Collection().Dictionaries() {
		log.Info("dictionary", "name", d.Name(), "words", d.Size(), "source", d.Source())
	}
	for _, err := range m.Errors() {
		log.Warnf("load error: %v", err)
	}
	log.Info("status: ready")
}
