// File: lang.go
// Title: Front-End Engine
// Description: High-level entry point that ties the lexer, parser and
//              logging together. Services and tools use the Engine instead
//              of driving the parser directly.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

// Package lang is the front-end of the trump expression language. It parses
// source text into a syntax tree and reports diagnostics.
package lang

import (
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang/ast"
	"github.com/abyanmajid/trump/foundation/lang/parser"
)

// DefaultMaxSourceLength is the input limit used when none is configured
const DefaultMaxSourceLength = 1 << 20

// Options configures an Engine
type Options struct {
	// Logger for engine output (defaults to the default logger)
	Logger *mdwlog.Logger

	// MaxSourceLength limits input size in bytes (default: 1 MiB)
	MaxSourceLength int

	// PowerAssociativity controls how chained ^ operators group
	PowerAssociativity parser.Associativity
}

// Result is the outcome of one parse
type Result struct {
	Source      string
	Program     *ast.Program
	Diagnostics []parser.Diagnostic
	Tokens      int
	Duration    time.Duration
}

// OK reports whether the parse produced no diagnostics
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Errors returns the diagnostic messages in order
func (r *Result) Errors() []string {
	messages := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		messages[i] = d.Message
	}
	return messages
}

// Document returns the program's document
func (r *Result) Document() ast.Document {
	return r.Program.Document()
}

// Stats summarizes the program
func (r *Result) Stats() ast.Stats {
	return ast.CollectStats(r.Program)
}

// Engine parses source text. An Engine holds no per-parse state and is safe
// for concurrent use.
type Engine struct {
	logger  *mdwlog.Logger
	options Options
}

// NewEngine creates an engine. Zero-valued options take their defaults.
func NewEngine(opts ...Options) *Engine {
	options := Options{
		Logger:          mdwlog.GetDefault(),
		MaxSourceLength: DefaultMaxSourceLength,
	}
	if len(opts) > 0 {
		provided := opts[0]
		if provided.Logger != nil {
			options.Logger = provided.Logger
		}
		if provided.MaxSourceLength > 0 {
			options.MaxSourceLength = provided.MaxSourceLength
		}
		options.PowerAssociativity = provided.PowerAssociativity
	}

	logger := options.Logger.WithField("component", "lang-engine")
	logger.Debug("engine initialized", mdwlog.Fields{
		"max_source_length":   options.MaxSourceLength,
		"power_associativity": options.PowerAssociativity.String(),
	})

	return &Engine{logger: logger, options: options}
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.options
}

// Parse parses source. The returned error is only set when the input is
// rejected before parsing; syntax problems are reported in the result.
func (e *Engine) Parse(source string) (*Result, error) {
	if err := e.validate(source, "lang.Parse"); err != nil {
		return nil, err
	}

	timer := e.logger.StartTimer("parse").WithField("length", len(source))
	p := parser.NewParser(parser.NewLexer(source), parser.Options{
		Logger:             e.logger,
		PowerAssociativity: e.options.PowerAssociativity,
	})
	program := p.ParseProgram()

	result := &Result{
		Source:      source,
		Program:     program,
		Diagnostics: p.Diagnostics(),
		Tokens:      p.TokenCount(),
	}
	// diagnostics belong to the caller, so a failed parse is not a warning
	result.Duration = timer.WithLevel(mdwlog.LevelDebug).
		WithField("statements", len(program.Statements)).
		WithField("diagnostics", len(result.Diagnostics)).
		Stop()
	return result, nil
}

// Tokenize returns every token of source up to and including EOF
func (e *Engine) Tokenize(source string) ([]parser.Token, error) {
	if err := e.validate(source, "lang.Tokenize"); err != nil {
		return nil, err
	}
	tokens := parser.Tokenize(source)
	e.logger.Debug("source tokenized", mdwlog.Fields{"tokens": len(tokens)})
	return tokens, nil
}

func (e *Engine) validate(source, operation string) error {
	if len(source) <= e.options.MaxSourceLength {
		return nil
	}
	return mdwerror.New("source exceeds maximum length").
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation(operation).
		WithDetail("length", len(source)).
		WithDetail("max_length", e.options.MaxSourceLength)
}

// Parse parses source with a default engine
func Parse(source string) (*Result, error) {
	return NewEngine().Parse(source)
}
