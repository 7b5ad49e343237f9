package server

import (
	"bytes"
	"io"
	"slices"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

func newManager(t *testing.T) *dictionary.Manager {
	t.Helper()
	m, err := dictionary.NewManager(nil, dictionary.CacheOptions{Completions: 8, Suggestions: 8})
	if err != nil {
		t.Fatal(err)
	}
	m.Add(dictionary.FromWords("en", []string{"walk", "walks", "walked", "talk", "Paris", "!colour"}, dictionary.Options{}))
	return m
}

// serve runs a server over the encoded requests and returns a decoder
// positioned after the ready message.
func serve(t *testing.T, reqs ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewServerWithIO(newManager(t), config.DefaultConfig(), &in, &out)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	if err := dec.Decode(&ready); err != nil || ready["status"] != "ready" {
		t.Fatalf("ready message = %v, %v", ready, err)
	}
	return dec
}

func decode[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()
	var v T
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestCheck(t *testing.T) {
	ignore := false
	dec := serve(t,
		Request{ID: "1", Op: OpCheck, Word: "walks"},
		Request{ID: "2", Op: OpCheck, Word: "walkz"},
		Request{ID: "3", Op: OpCheck, Word: "colour"},
		Request{ID: "4", Op: OpCheck, Word: "paris", IgnoreCase: &ignore},
	)
	tests := []struct {
		id        string
		found     bool
		forbidden bool
	}{
		{"1", true, false},
		{"2", false, false},
		{"3", false, true},
		{"4", true, false},
	}
	for _, tt := range tests {
		r := decode[CheckResponse](t, dec)
		if r.ID != tt.id || r.Found != tt.found || r.Forbidden != tt.forbidden {
			t.Errorf("response %+v, want id %s found %v forbidden %v", r, tt.id, tt.found, tt.forbidden)
		}
	}
}

func TestSuggest(t *testing.T) {
	dec := serve(t, Request{ID: "s1", Op: OpSuggest, Word: "walkd", NumSuggestions: 2})
	r := decode[SuggestResponse](t, dec)
	if r.ID != "s1" || r.Count != len(r.Suggestions) || r.Count == 0 {
		t.Fatalf("response = %+v", r)
	}
	words := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		words[i] = s.Word
		if !slices.Equal(s.Dictionaries, []string{"en"}) {
			t.Errorf("%s dictionaries = %q", s.Word, s.Dictionaries)
		}
	}
	if !slices.Contains(words, "walked") && !slices.Contains(words, "walk") {
		t.Errorf("suggestions = %q", words)
	}
}

func TestComplete(t *testing.T) {
	dec := serve(t,
		Request{ID: "c1", Op: OpComplete, Prefix: "wal", Limit: 2},
		Request{ID: "c2", Op: OpComplete, Prefix: "1234"},
		Request{ID: "c3", Op: OpComplete},
	)
	r := decode[CompletionResponse](t, dec)
	want := []CompletionSuggestion{{Word: "walk", Rank: 1}, {Word: "walks", Rank: 2}}
	if r.ID != "c1" || !slices.Equal(r.Suggestions, want) {
		t.Errorf("response = %+v", r)
	}
	if r := decode[CompletionResponse](t, dec); r.ID != "c2" || r.Count != 0 {
		t.Errorf("numeric prefix response = %+v", r)
	}
	if e := decode[ErrorResponse](t, dec); e.ID != "c3" || e.Code != 400 {
		t.Errorf("empty prefix response = %+v", e)
	}
}

func TestAddWord(t *testing.T) {
	dec := serve(t,
		Request{ID: "a1", Op: OpAdd, Words: []string{"Zaphod"}},
		Request{ID: "a2", Op: OpCheck, Word: "Zaphod"},
		Request{ID: "a3", Op: OpAdd, Words: []string{"bad$word"}},
		Request{ID: "a4", Op: OpAdd},
	)
	if r := decode[DictionaryResponse](t, dec); r.Status != "ok" || r.Stats["userWords"] == 0 {
		t.Errorf("add response = %+v", r)
	}
	if r := decode[CheckResponse](t, dec); !r.Found {
		t.Errorf("added word not found: %+v", r)
	}
	for _, id := range []string{"a3", "a4"} {
		if e := decode[ErrorResponse](t, dec); e.ID != id || e.Code != 400 {
			t.Errorf("response = %+v, want error for %s", e, id)
		}
	}
}

func TestDictionaryActions(t *testing.T) {
	dec := serve(t,
		Request{ID: "d1", Op: OpDict, Action: ActionList},
		Request{ID: "d2", Op: OpDict, Action: ActionUnload, Name: "missing"},
		Request{ID: "d3", Op: OpDict, Action: ActionLoad},
		Request{ID: "d4", Op: OpDict, Action: ActionStats},
	)
	r := decode[DictionaryResponse](t, dec)
	var names []string
	for _, d := range r.Dictionaries {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	if r.Status != "ok" || !slices.Equal(names, []string{"en", dictionary.UserDictionaryName}) {
		t.Errorf("list response = %+v", r)
	}
	if r := decode[DictionaryResponse](t, dec); r.Status != "error" || r.Error == "" {
		t.Errorf("unload response = %+v", r)
	}
	if e := decode[ErrorResponse](t, dec); e.ID != "d3" {
		t.Errorf("load response = %+v", e)
	}
	if r := decode[DictionaryResponse](t, dec); r.Stats["dictionaries"] != 2 {
		t.Errorf("stats response = %+v", r)
	}
}

func TestRequestIDs(t *testing.T) {
	dec := serve(t,
		Request{Op: OpHealth},
		Request{ID: "u2", Op: "spell"},
	)
	r := decode[DictionaryResponse](t, dec)
	if _, err := uuid.Parse(r.ID); err != nil || r.Status != "ok" {
		t.Errorf("health response = %+v (%v)", r, err)
	}
	if e := decode[ErrorResponse](t, dec); e.ID != "u2" || e.Code != 400 {
		t.Errorf("unknown op response = %+v", e)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		t.Errorf("unexpected trailing response %v (%v)", extra, err)
	}
}

func TestMalformedInput(t *testing.T) {
	var out bytes.Buffer
	in := bytes.NewBufferString("\xc1")
	s, err := NewServerWithIO(newManager(t), nil, in, &out)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err == nil {
		t.Error("expected an error for a malformed request")
	}
}
