package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/praetorian-inc/uaparser/pkg/logging"
	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Parser resolves user-agent strings. *uaparser.Parser satisfies it.
type Parser interface {
	Parse(text string) types.Client
	RuleCount() int
}

// Observer receives per-request and per-parse measurements.
type Observer interface {
	ObserveRequest(reqType string, success bool)
	ObserveParse(client types.Client, d time.Duration)
}

// Server manages the streaming parser
type Server struct {
	parser   Parser
	encoder  *json.Encoder
	decoder  *json.Decoder
	logger   *slog.Logger
	observer Observer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver reports requests and parses to o.
func WithObserver(o Observer) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// NewServer creates a new streaming server
func NewServer(parser Parser, in io.Reader, out io.Writer, opts ...Option) *Server {
	s := &Server{
		parser:  parser,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until input closes or context cancels
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("server stopping", "reason", ctx.Err())
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						s.logger.Info("input closed")
						return nil
					}
					s.logger.Warn("decode failed", "error", err)
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	s.logger.Debug("request", "type", req.Type)

	switch req.Type {
	case "parse":
		s.handleParse(req.Payload)
	case "parse_batch":
		s.handleParseBatch(req.Payload)
	case "close":
		s.logger.Info("close requested")
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	data, _ := json.Marshal(ReadyData{Version: Version, Rules: s.parser.RuleCount()})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "ready",
		Data:    data,
	})
	s.logger.Info("server ready", "version", Version, "rules", s.parser.RuleCount())
}

func (s *Server) parse(p ParsePayload) ParseResult {
	start := time.Now()
	client := s.parser.Parse(p.UserAgent)
	if s.observer != nil {
		s.observer.ObserveParse(client, time.Since(start))
	}
	return ParseResult{ID: p.ID, String: p.UserAgent, Client: client}
}

func (s *Server) handleParse(payload json.RawMessage) {
	var p ParsePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("parse", err.Error())
		return
	}

	s.sendResult("parse", s.parse(p))
}

func (s *Server) handleParseBatch(payload json.RawMessage) {
	var p ParseBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("parse_batch", err.Error())
		return
	}

	result := BatchResult{
		Results: make([]ParseResult, 0, len(p.Items)),
		Total:   len(p.Items),
	}
	for _, item := range p.Items {
		result.Results = append(result.Results, s.parse(item))
	}

	s.sendResult("parse_batch", result)
}

func (s *Server) sendResult(reqType string, result any) {
	data, _ := json.Marshal(result)
	s.encoder.Encode(Response{
		Success: true,
		Type:    reqType,
		Data:    data,
	})
	if s.observer != nil {
		s.observer.ObserveRequest(reqType, true)
	}
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
	if s.observer != nil {
		s.observer.ObserveRequest(reqType, false)
	}
}
