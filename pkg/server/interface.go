/*
Package server implements msgpack IPC for spell checking services.

The server reads a stream of msgpack encoded requests from stdin and writes
one msgpack encoded response per request to stdout. Requests are processed
sequentially; every response carries the id of its request, and the time
taken in microseconds.

# IPC

Every request is a map with an operation and its fields:

	{"id": "req_001", "op": "check", "w": "walkz"}
	{"id": "req_002", "op": "suggest", "w": "walkz", "n": 4}
	{"id": "req_003", "op": "complete", "p": "wal", "l": 8}
	{"id": "req_004", "op": "add", "ws": ["Zaphod"]}
	{"id": "req_005", "op": "dict", "action": "list"}

A request without an id is given a random one, returned in the response.
The first message written is {"status": "ready"}.

Failed requests are answered with an ErrorResponse:

	{"id": "req_006", "e": "unknown op: spell", "c": 400}
*/
package server

import "github.com/bastiangx/wordcheck/pkg/dictionary"

// Operations understood by the server.
const (
	OpCheck    = "check"
	OpSuggest  = "suggest"
	OpComplete = "complete"
	OpAdd      = "add"
	OpDict     = "dict"
	OpHealth   = "health"
)

// Dictionary actions of OpDict.
const (
	ActionList   = "list"
	ActionLoad   = "load"
	ActionUnload = "unload"
	ActionReload = "reload"
	ActionStats  = "stats"
)

// Request is the envelope of every operation. Only the fields used by Op
// are read.
type Request struct {
	ID string `msgpack:"id"`
	Op string `msgpack:"op"`

	Word       string `msgpack:"w,omitempty"`
	IgnoreCase *bool  `msgpack:"ic,omitempty"`

	NumSuggestions int `msgpack:"n,omitempty"`
	ChangeLimit    int `msgpack:"cl,omitempty"`

	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`

	Words []string `msgpack:"ws,omitempty"`

	Action     string                 `msgpack:"action,omitempty"`
	Name       string                 `msgpack:"name,omitempty"`
	Definition *dictionary.Definition `msgpack:"def,omitempty"`
}

// CheckResponse answers OpCheck.
type CheckResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	Found     bool   `msgpack:"f"`
	Forbidden bool   `msgpack:"fb,omitempty"`
	NoSuggest bool   `msgpack:"ns,omitempty"`
	Compound  bool   `msgpack:"cp,omitempty"`
	TimeTaken int64  `msgpack:"t"`
}

// SuggestResponse answers OpSuggest, best suggestion first.
type SuggestResponse struct {
	ID          string                     `msgpack:"id"`
	Suggestions []dictionary.SuggestedWord `msgpack:"s"`
	Count       int                        `msgpack:"c"`
	TimeTaken   int64                      `msgpack:"t"`
}

// CompletionSuggestion - minimal completion
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse answers OpComplete.
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// DictionaryInfo describes a loaded dictionary.
type DictionaryInfo struct {
	Name   string   `msgpack:"name"`
	Source string   `msgpack:"source"`
	Words  int      `msgpack:"words"`
	Errors []string `msgpack:"errors,omitempty"`
}

// DictionaryResponse answers OpAdd and OpDict.
type DictionaryResponse struct {
	ID           string           `msgpack:"id"`
	Status       string           `msgpack:"status"`
	Error        string           `msgpack:"error,omitempty"`
	Dictionaries []DictionaryInfo `msgpack:"dicts,omitempty"`
	Stats        map[string]int   `msgpack:"stats,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
