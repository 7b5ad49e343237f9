package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/bastiangx/wordcheck/pkg/trieblob"
	"github.com/bastiangx/wordcheck/pkg/trieio"
	"github.com/gonutz/tic"
	"github.com/spf13/cobra"
)

// phase times fn when --time is set.
func phase(name string, fn func() error) error {
	if timings {
		defer tic.Toc()(name)
	}
	return fn()
}

func loadTrie(path string) (*trie.Trie, error) {
	var t *trie.Trie
	err := phase("load "+path, func() error {
		var err error
		t, err = dictionary.LoadTrie(path)
		return err
	})
	return t, err
}

func compileCmd() *cobra.Command {
	var (
		output        string
		comment       string
		base          int
		split         bool
		noCase        bool
		forbid        bool
		lineBreaks    bool
		noConsolidate bool
	)
	cmd := &cobra.Command{
		Use:   "compile [word lists...]",
		Short: "Build a trie from word lists",
		Long: `Build a minimal trie from one or more word lists and write it in the
format chosen by the output extension: .trie, .trie.zst or .btrie.
Reads stdin when no input is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("missing --output")
			}
			opts := dictionary.ParseOptions{
				StripCaseAndAccents: !noCase,
				Split:               split,
				MakeWordsForbidden:  forbid,
			}

			var words []string
			err := phase("parse", func() error {
				readers, closeAll, err := openInputs(args)
				if err != nil {
					return err
				}
				defer closeAll()
				for _, r := range readers {
					w, err := dictionary.ReadWordList(r, opts)
					if err != nil {
						return err
					}
					words = append(words, w...)
				}
				words = dictionary.UniqueWords(slices.Values(words))
				return nil
			})
			if err != nil {
				return err
			}

			var t *trie.Trie
			phase("build", func() error {
				b := trie.NewBuilder(nil)
				b.InsertAll(slices.Values(words))
				t = b.Build(!noConsolidate)
				return nil
			})

			err = phase("write "+output, func() error {
				if dictionary.FormatFromName(output) == dictionary.FormatBlob {
					return trieblob.WriteFile(output, t)
				}
				return trieio.WriteFile(output, t, trieio.ExportOptions{
					Base:                        base,
					Comment:                     comment,
					AddLineBreaksToImproveDiffs: lineBreaks,
				})
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d words, %d nodes written to %s\n", len(words), t.CountNodes(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.trie, .trie.zst or .btrie)")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment written in the TrieXv1 header")
	cmd.Flags().IntVar(&base, "base", trieio.DefaultBase, "Radix of TrieXv1 references")
	cmd.Flags().BoolVar(&split, "split", false, "Split lines into words on spaces, commas and semicolons")
	cmd.Flags().BoolVar(&noCase, "no-case-alternatives", false, "Do not add case and accent insensitive forms")
	cmd.Flags().BoolVar(&forbid, "forbid", false, "Mark every word as forbidden")
	cmd.Flags().BoolVar(&lineBreaks, "diff-friendly", false, "Fold long TrieXv1 rows")
	cmd.Flags().BoolVar(&noConsolidate, "no-consolidate", false, "Skip suffix consolidation")
	return cmd
}

func openInputs(paths []string) ([]io.Reader, func(), error) {
	if len(paths) == 0 {
		return []io.Reader{os.Stdin}, func() {}, nil
	}
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	readers := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return readers, closeAll, nil
}

func wordsCmd() *cobra.Command {
	var prefix string
	var all bool
	cmd := &cobra.Command{
		Use:   "words [trie file]",
		Short: "List the words of a trie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTrie(args[0])
			if err != nil {
				return err
			}
			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()
			seq := t.CompleteWord(prefix)
			if !all {
				seq = dictionary.New("", args[0], t, dictionary.Options{}).Complete(prefix, false)
			}
			for word := range seq {
				fmt.Fprintln(w, word)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only list words starting with prefix")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include forbidden, no-suggest, case folded and compound forms")
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [files...]",
		Short: "Describe trie files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				format, err := dictionary.DetectFileFormat(path)
				if err != nil {
					return err
				}
				t, err := loadTrie(path)
				if err != nil {
					return err
				}
				info := t.Info()
				fmt.Fprintf(out, "%s\n", path)
				fmt.Fprintf(out, "  format:     %s\n", format)
				fmt.Fprintf(out, "  words:      %d\n", t.CountWords())
				fmt.Fprintf(out, "  nodes:      %d\n", t.CountNodes())
				fmt.Fprintf(out, "  compound:   %q\n", info.CompoundCharacter)
				fmt.Fprintf(out, "  no case:    %q\n", info.StripCaseAndAccentsPrefix)
				fmt.Fprintf(out, "  forbidden:  %q\n", info.ForbiddenWordPrefix)
				fmt.Fprintf(out, "  no suggest: %q\n", info.NoSuggestWordPrefix)
				fmt.Fprintf(out, "  case aware: %v\n", info.IsCaseAware)
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	var ignoreCase bool
	cmd := &cobra.Command{
		Use:   "check [trie file] [words...]",
		Short: "Look words up",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dictionary.Load(dictionary.Definition{Path: args[0]})
			if err := d.Err(); err != nil {
				return err
			}
			for _, word := range args[1:] {
				r := d.Find(word, ignoreCase)
				status := "unknown"
				switch {
				case r.Forbidden:
					status = "forbidden"
				case r.Found:
					status = "ok"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", word, status)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Ignore case and accents")
	return cmd
}

func suggestCmd() *cobra.Command {
	var (
		num        int
		changes    int
		ignoreCase bool
		infoPath   string
		weighted   bool
	)
	cmd := &cobra.Command{
		Use:   "suggest [trie file] [words...]",
		Short: "Suggest corrections",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dictionary.Load(dictionary.Definition{Path: args[0], Info: infoPath})
			if err := d.Err(); err != nil {
				return err
			}
			opts := suggest.DefaultOptions()
			opts.NumSuggestions = num
			opts.ChangeLimit = changes
			opts.IgnoreCase = ignoreCase
			out := cmd.OutOrStdout()
			wm := d.Options().WeightMap
			if weighted && wm != nil {
				fmt.Fprint(out, wm.PrettyPrint())
			}
			for _, word := range args[1:] {
				var sugs []suggest.SuggestionResult
				phase("suggest "+word, func() error {
					sugs = d.Suggest(word, opts)
					return nil
				})
				fmt.Fprintf(out, "%s:\n", word)
				for _, s := range sugs {
					fmt.Fprintf(out, "  %-24s %d\n", s.Word, s.Cost)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&num, "num", "n", suggest.DefaultNumSuggestions, "Number of suggestions")
	cmd.Flags().IntVar(&changes, "changes", suggest.MaxNumChanges, "Maximum number of edits")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", true, "Ignore case and accents")
	cmd.Flags().StringVar(&infoPath, "info", "", "Dictionary information file with edit costs")
	cmd.Flags().BoolVar(&weighted, "print-weights", false, "Print the weight map before the suggestions")
	return cmd
}
