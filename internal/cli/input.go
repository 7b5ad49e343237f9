// Package cli handles cmd line input for checking words interactively
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Checker answers the prompt. *dictionary.Manager implements it.
type Checker interface {
	Check(word string, ignoreCase bool) dictionary.FindResult
	Suggest(word string, opts suggest.Options) []dictionary.SuggestedWord
	Complete(prefix string, limit int, ignoreCase bool) []string
	AddWords(words ...string) error
}

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// InputHandler reads words from stdin and prints whether they are known,
// with suggestions for the unknown ones.
//
// Input forms:
//
//	word      check word, suggest when unknown
//	?word     suggest even when known
//	pre*      complete a prefix
//	+word     add word to the user dictionary
type InputHandler struct {
	checker      Checker
	opts         suggest.Options
	maxLength    int
	suggestLimit int
	noFilter     bool
	in           io.Reader
	out          io.Writer
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(checker Checker, opts suggest.Options, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		checker:      checker,
		opts:         opts,
		maxLength:    maxLength,
		suggestLimit: limit,
		noFilter:     noFilter,
		in:           os.Stdin,
		out:          os.Stdout,
	}
}

// SetIO replaces stdin and stdout.
func (h *InputHandler) SetIO(in io.Reader, out io.Writer) {
	h.in, h.out = in, out
}

// Start begins the interface loop. It returns nil when the input ends.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, detailStyle.Render("type a word and press Enter (Ctrl+D to exit):"))
	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	switch {
	case strings.HasPrefix(line, "+"):
		h.add(strings.Fields(line[1:]))
	case strings.HasPrefix(line, "?"):
		h.suggest(strings.TrimSpace(line[1:]))
	case strings.HasSuffix(line, "*"):
		h.complete(strings.TrimSuffix(line, "*"))
	default:
		h.check(line)
	}
}

func (h *InputHandler) valid(word string) bool {
	if word == "" {
		return false
	}
	if utf8.RuneCountInString(word) > h.maxLength {
		log.Errorf("Input too long: %s", word)
		return false
	}
	if !h.noFilter && !utils.IsValidInput(word) {
		log.Warnf("Input '%s' filtered out", word)
		return false
	}
	return true
}

func (h *InputHandler) check(word string) {
	if !h.valid(word) {
		return
	}
	start := time.Now()
	r := h.checker.Check(word, h.opts.IgnoreCase)
	log.Debugf("Took %v to check '%s'", time.Since(start), word)

	switch {
	case r.Forbidden:
		fmt.Fprintf(h.out, "%s %s\n", badStyle.Render("forbidden"), wordStyle.Render(word))
	case r.Found:
		detail := ""
		if r.CompoundUsed {
			detail = detailStyle.Render(" (compound)")
		}
		fmt.Fprintf(h.out, "%s %s%s\n", okStyle.Render("ok"), wordStyle.Render(word), detail)
		return
	default:
		fmt.Fprintf(h.out, "%s %s\n", badStyle.Render("unknown"), wordStyle.Render(word))
	}
	h.suggest(word)
}

func (h *InputHandler) suggest(word string) {
	if !h.valid(word) {
		return
	}
	opts := h.opts
	if h.suggestLimit > 0 {
		opts.NumSuggestions = h.suggestLimit
	}
	start := time.Now()
	sugs := h.checker.Suggest(word, opts)
	log.Debugf("Took %v to suggest for '%s'", time.Since(start), word)

	if len(sugs) == 0 {
		fmt.Fprintln(h.out, detailStyle.Render("  no suggestions"))
		return
	}
	for i, s := range sugs {
		fmt.Fprintf(h.out, "%2d. %-24s %s\n", i+1, wordStyle.Render(s.Word),
			detailStyle.Render(fmt.Sprintf("cost %d  %s", s.Cost, strings.Join(s.Dictionaries, ","))))
	}
}

func (h *InputHandler) complete(prefix string) {
	if !h.valid(prefix) {
		return
	}
	words := h.checker.Complete(prefix, max(h.suggestLimit, 1), h.opts.IgnoreCase)
	if len(words) == 0 {
		fmt.Fprintln(h.out, detailStyle.Render("  no completions"))
		return
	}
	for i, w := range words {
		fmt.Fprintf(h.out, "%2d. %s\n", i+1, wordStyle.Render(w))
	}
}

func (h *InputHandler) add(words []string) {
	for _, w := range words {
		if !h.valid(w) {
			return
		}
	}
	if len(words) == 0 {
		return
	}
	if err := h.checker.AddWords(words...); err != nil {
		log.Errorf("Adding words: %v", err)
		return
	}
	fmt.Fprintf(h.out, "%s %s\n", okStyle.Render("added"), wordStyle.Render(strings.Join(words, " ")))
}
