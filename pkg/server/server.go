package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for spell checking
type Server struct {
	manager  *dictionary.Manager
	opts     suggest.Options
	limits   config.ServerConfig
	decoder  *msgpack.Decoder
	encoder  *msgpack.Encoder
	writer   *bufio.Writer
	requests int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(manager *dictionary.Manager, cfg *config.Config) (*Server, error) {
	return NewServerWithIO(manager, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(manager *dictionary.Manager, cfg *config.Config, r io.Reader, w io.Writer) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts, err := cfg.SuggestOptions()
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(w)
	return &Server{
		manager: manager,
		opts:    opts,
		limits:  cfg.Server,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		encoder: msgpack.NewEncoder(bw),
		writer:  bw,
	}, nil
}

// Start signals readiness and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	s.sendResponse(map[string]string{"status": "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", fmt.Sprintf("invalid request: %v", err), 400)
			// A malformed value leaves the stream position unknown.
			return err
		}
		s.Handle(req)
	}
}

// Handle answers a single request.
func (s *Server) Handle(req Request) {
	s.requests++
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	start := time.Now()

	switch req.Op {
	case OpCheck:
		s.handleCheck(req, start)
	case OpSuggest:
		s.handleSuggest(req, start)
	case OpComplete:
		s.handleComplete(req, start)
	case OpAdd:
		s.handleAdd(req)
	case OpDict:
		s.handleDict(req)
	case OpHealth:
		s.sendResponse(DictionaryResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), 400)
	}
}

func (s *Server) validateWord(id, word string) bool {
	if word == "" {
		s.sendError(id, "missing 'w' parameter", 400)
		return false
	}
	if utf8.RuneCountInString(word) > s.limits.MaxWordLength {
		s.sendError(id, fmt.Sprintf("word exceeds maximum length of %d characters", s.limits.MaxWordLength), 400)
		return false
	}
	return true
}

func (s *Server) ignoreCase(req Request) bool {
	if req.IgnoreCase != nil {
		return *req.IgnoreCase
	}
	return s.opts.IgnoreCase
}

func (s *Server) handleCheck(req Request, start time.Time) {
	if !s.validateWord(req.ID, req.Word) {
		return
	}
	r := s.manager.Check(req.Word, s.ignoreCase(req))
	s.sendResponse(CheckResponse{
		ID:        req.ID,
		Word:      req.Word,
		Found:     r.Found && !r.Forbidden,
		Forbidden: r.Forbidden,
		NoSuggest: r.NoSuggest,
		Compound:  r.CompoundUsed,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleSuggest(req Request, start time.Time) {
	if !s.validateWord(req.ID, req.Word) {
		return
	}
	opts := s.opts
	opts.IgnoreCase = s.ignoreCase(req)
	if req.NumSuggestions > 0 {
		opts.NumSuggestions = min(req.NumSuggestions, s.limits.MaxLimit)
	}
	if req.ChangeLimit > 0 {
		opts.ChangeLimit = req.ChangeLimit
	}
	sugs := s.manager.Suggest(req.Word, opts)
	if sugs == nil {
		sugs = []dictionary.SuggestedWord{}
	}
	s.sendResponse(SuggestResponse{
		ID:          req.ID,
		Suggestions: sugs,
		Count:       len(sugs),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleComplete(req Request, start time.Time) {
	prefix := req.Prefix
	n := utf8.RuneCountInString(prefix)
	if n < s.limits.MinPrefix || prefix == "" {
		s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", max(s.limits.MinPrefix, 1)), 400)
		return
	}
	if n > s.limits.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", s.limits.MaxPrefix), 400)
		return
	}
	if !utils.IsValidInput(prefix) {
		s.sendResponse(CompletionResponse{ID: req.ID, Suggestions: []CompletionSuggestion{}})
		return
	}

	limit := req.Limit
	if limit < 1 || limit > s.limits.MaxLimit {
		limit = s.limits.MaxLimit
	}
	words := s.manager.Complete(prefix, limit, s.ignoreCase(req))
	ranks := utils.CreateRankList(len(words))
	out := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		out[i] = CompletionSuggestion{Word: w, Rank: ranks[i]}
	}
	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleAdd(req Request) {
	words := req.Words
	if req.Word != "" {
		words = append(words, req.Word)
	}
	if len(words) == 0 {
		s.sendError(req.ID, "missing 'ws' parameter", 400)
		return
	}
	for _, w := range words {
		if !utils.IsValidInput(w) {
			s.sendError(req.ID, fmt.Sprintf("invalid word %q", w), 400)
			return
		}
	}
	if err := s.manager.AddWords(words...); err != nil {
		log.Errorf("Adding user words: %v", err)
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	s.sendResponse(DictionaryResponse{ID: req.ID, Status: "ok", Stats: s.manager.Stats()})
}

func (s *Server) handleDict(req Request) {
	var err error
	switch req.Action {
	case ActionList, "":
	case ActionStats:
		s.sendResponse(DictionaryResponse{ID: req.ID, Status: "ok", Stats: s.manager.Stats()})
		return
	case ActionLoad:
		if req.Definition == nil || req.Definition.Path == "" {
			s.sendError(req.ID, "missing 'def' parameter", 400)
			return
		}
		err = s.manager.Load(*req.Definition)
	case ActionUnload:
		err = s.manager.Unload(req.Name)
	case ActionReload:
		err = s.manager.Reload(req.Name)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
		return
	}

	resp := DictionaryResponse{ID: req.ID, Status: "ok", Dictionaries: s.describe()}
	if err != nil {
		log.Warnf("Dictionary %s %s: %v", req.Action, req.Name, err)
		resp.Status = "error"
		resp.Error = err.Error()
	}
	s.sendResponse(resp)
}

func (s *Server) describe() []DictionaryInfo {
	dicts := s.manager.Collection().Dictionaries()
	out := make([]DictionaryInfo, 0, len(dicts))
	for _, d := range dicts {
		info := DictionaryInfo{Name: d.Name(), Source: d.Source(), Words: d.Size()}
		for _, err := range d.Errors() {
			info.Errors = append(info.Errors, err.Error())
		}
		out = append(out, info)
	}
	return out
}

// sendResponse encodes response and flushes it to the client.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
