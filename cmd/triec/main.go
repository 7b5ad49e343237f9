// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command triec compiles word lists into tries and inspects trie files.
//
//	triec compile en_US.txt extra.txt -o en_US.trie.zst
//	triec words en_US.btrie --prefix walk
//	triec info en_US.trie.zst
//	triec suggest en_US.trie.zst walkz
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	timings bool
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "triec",
		Short: "Compile and inspect spelling dictionaries",
		Long: `triec builds minimal tries from word lists and reads them back.

Supported files: word lists (.txt, .dic), TrieXv1 text (.trie),
zstd compressed TrieXv1 (.trie.zst) and TrieBlob binaries (.btrie).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().BoolVarP(&timings, "time", "t", false, "Print the duration of each phase")

	rootCmd.AddCommand(compileCmd())
	rootCmd.AddCommand(wordsCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(suggestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
