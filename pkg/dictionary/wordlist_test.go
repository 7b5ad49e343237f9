package dictionary

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func parse(opts ParseOptions, lines ...string) []string {
	return slices.Collect(ParseWordList(slices.Values(lines), opts))
}

func TestParseWordList(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"plain", "walk", []string{"walk"}},
		{"capital", "Hello", []string{"Hello", "~hello"}},
		{"accent", "café", []string{"café", "~cafe"}},
		{"comment", "# a comment", nil},
		{"trailing comment", "word # note", []string{"word"}},
		{"blank", "   ", nil},
		{"forbidden", "!Bad", []string{"!Bad"}},
		{"explicit no case", "~Thing", []string{"~Thing"}},
		{"double no case", "~~x", []string{"~x"}},
		{"no suggest", "%Hidden", []string{"%Hidden"}},
		{"keep exact", "=Exact", []string{"Exact"}},
		{"optional prefix", "*ing", []string{"ing", "+ing"}},
		{"optional suffix", "pre*", []string{"pre", "pre+"}},
		{"compound kept", "+fix+", []string{"+fix+"}},
		{"spaces trimmed", "  walk  ", []string{"walk"}},
		{"colon suggestion", "colour:color", []string{"colour", ":colour", ":colour:0:color"}},
		{"arrow suggestions", "colour -> color, colr", []string{"colour", ":colour", ":colour:0:color", ":colour:1:colr"}},
		{"forbidden with suggestion", "!colour: color", []string{"!colour", ":colour", ":colour:0:color"}},
		{"suggestions only", ":colr:color", []string{":colr", ":colr:0:color"}},
		{"numbered suggestion", "colr:0:color", []string{"colr", ":colr", ":colr:0:color"}},
		{"capital suggestion", "Colour -> Color", []string{"Colour", "~colour", ":Colour", ":Colour:0:Color"}},
		{"no word", ": color", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(DefaultParseOptions(), tt.line)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("ParseWordList(%q) = %q, want %q", tt.line, got, tt.expected)
			}
		})
	}
}

func TestParseWordListOptions(t *testing.T) {
	if got := parse(ParseOptions{}, "Hello"); !slices.Equal(got, []string{"Hello"}) {
		t.Errorf("without alternatives = %q", got)
	}
	if got := parse(ParseOptions{Split: true}, "one two,three;four"); !slices.Equal(got, []string{"one", "two", "three", "four"}) {
		t.Errorf("split = %q", got)
	}
	if got := parse(ParseOptions{KeepOptionalCompound: true}, "*ing"); !slices.Equal(got, []string{"*ing"}) {
		t.Errorf("keep optional compound = %q", got)
	}
	if got := parse(ParseOptions{MakeWordsForbidden: true, StripCaseAndAccents: true}, "Bad", "!good"); !slices.Equal(got, []string{"!Bad", "good"}) {
		t.Errorf("make forbidden = %q", got)
	}
}

func TestParseWordListSuggestionNumbering(t *testing.T) {
	got := parse(DefaultParseOptions(), "colour: color", "colour -> color, colr", "honour -> honor")
	want := []string{
		"colour", ":colour", ":colour:0:color",
		"colour", ":colour", ":colour:1:colr",
		"honour", ":honour", ":honour:0:honor",
	}
	if !slices.Equal(got, want) {
		t.Errorf("numbering = %q, want %q", got, want)
	}
	if got := parse(ParseOptions{KeepSuggestionSyntax: true}, "colour:color"); !slices.Equal(got, []string{"colour:color"}) {
		t.Errorf("kept syntax = %q", got)
	}
	if got := parse(ParseOptions{Split: true}, "colour -> color, colr"); !slices.Equal(got, []string{"colour", ":colour", ":colour:0:color", ":colour:1:colr"}) {
		t.Errorf("split = %q", got)
	}
}

func TestParseWordListDirectives(t *testing.T) {
	got := parse(DefaultParseOptions(),
		"# dictionary: split, no-generate-alternatives",
		"Alpha Beta",
		"# dictionary: no-split generate-alternatives",
		"Gamma Delta",
	)
	want := []string{"Alpha", "Beta", "Gamma Delta", "~gamma delta"}
	if !slices.Equal(got, want) {
		t.Errorf("directives = %q, want %q", got, want)
	}
}

func TestReadWordList(t *testing.T) {
	text := "walk\nwalks\nwalk\n# comment\nCafé\n\n"
	got, err := ReadWordList(strings.NewReader(text), DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Café", "walk", "walks", "~cafe"}
	if !slices.Equal(got, want) {
		t.Errorf("ReadWordList = %q, want %q", got, want)
	}
}

func TestReadWordListFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("walk\n!walkz\nTalk\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err := ReadWordListFile(path, DefaultParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Has("walk") || !tr.IsForbiddenWord("walkz") || !tr.HasWord("talk", false) {
		t.Error("word list trie is missing entries")
	}
	if _, err := ReadWordListFile(filepath.Join(t.TempDir(), "none.txt"), DefaultParseOptions()); err == nil {
		t.Error("expected an error for a missing file")
	}
}
