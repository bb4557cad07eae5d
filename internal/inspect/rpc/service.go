// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     rpc
// Description: gRPC Frontend service exposing parse and tokenize
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package rpc

import (
	"context"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/foundation/lang/parser"
	"github.com/abyanmajid/trump/internal/history"
	coregrpc "github.com/abyanmajid/trump/pkg/core/grpc"
	"github.com/abyanmajid/trump/pkg/core/logging"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service implements FrontendServer
type Service struct {
	engine  *lang.Engine
	history *history.Store
	logger  *logging.Logger
}

// NewService creates the Frontend service. store may be nil.
func NewService(engine *lang.Engine, store *history.Store, logger *mdwlog.Logger) *Service {
	if engine == nil {
		engine = lang.NewEngine(lang.Options{Logger: logger})
	}
	return &Service{
		engine:  engine,
		history: store,
		logger:  logging.Wrap("inspect-rpc", logger),
	}
}

// Parse handles /trump.v1.Frontend/Parse.
// Request fields: source (string), stats (bool), save (bool).
func (s *Service) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	source := fields["source"].GetStringValue()

	result, err := s.engine.Parse(source)
	if err != nil {
		return nil, coregrpc.ToStatus(err)
	}

	resp := map[string]interface{}{
		"program":     map[string]interface{}(result.Document()),
		"errors":      stringsToList(result.Errors()),
		"diagnostics": diagnosticsToList(result.Diagnostics),
		"tokens":      result.Tokens,
		"duration_ms": float64(result.Duration.Microseconds()) / 1000,
	}

	if fields["stats"].GetBoolValue() {
		stats := result.Stats()
		operators := make(map[string]interface{}, len(stats.Operators))
		for op, n := range stats.Operators {
			operators[op] = n
		}
		resp["stats"] = map[string]interface{}{
			"nodes":      stats.Nodes,
			"statements": stats.Statements,
			"depth":      stats.Depth,
			"integers":   stats.Integers,
			"floats":     stats.Floats,
			"errors":     stats.Errors,
			"operators":  operators,
		}
	}

	if fields["save"].GetBoolValue() && s.history != nil {
		if id, err := s.record(ctx, result); err != nil {
			s.logger.Warn("failed to record parse", "error", err, "request_id", coregrpc.GetRequestID(ctx))
		} else {
			resp["history_id"] = id
		}
	}

	return toStruct(resp)
}

// Tokenize handles /trump.v1.Frontend/Tokenize.
// Request fields: source (string).
func (s *Service) Tokenize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tokens, err := s.engine.Tokenize(req.GetFields()["source"].GetStringValue())
	if err != nil {
		return nil, coregrpc.ToStatus(err)
	}

	list := make([]interface{}, len(tokens))
	for i, tok := range tokens {
		list[i] = tokenToMap(tok)
	}
	return toStruct(map[string]interface{}{
		"tokens": list,
		"count":  len(tokens),
	})
}

func (s *Service) record(ctx context.Context, result *lang.Result) (string, error) {
	entry, err := history.NewEntry(result)
	if err != nil {
		return "", err
	}
	if err := s.history.Record(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, coregrpc.ToStatus(mdwerror.Wrap(err, "failed to encode response").WithCode(mdwerror.CodeInternal))
	}
	return out, nil
}

func stringsToList(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func diagnosticsToList(diags []parser.Diagnostic) []interface{} {
	out := make([]interface{}, len(diags))
	for i, d := range diags {
		out[i] = map[string]interface{}{
			"code":    string(d.Code),
			"message": d.Message,
			"token":   tokenToMap(d.Token),
		}
	}
	return out
}

func tokenToMap(tok parser.Token) map[string]interface{} {
	return map[string]interface{}{
		"type":   tok.Type.String(),
		"lexeme": tok.Lexeme,
		"line":   tok.Line,
		"column": tok.Column,
		"offset": tok.Offset,
	}
}
