package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	"github.com/abyanmajid/trump/foundation/lang/ast"
	"gopkg.in/yaml.v3"
)

// Format selects how a program is written
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an output format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTree, "":
		return FormatTree, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", mdwerror.Newf("unknown output format %q", s).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("valid", []string{"tree", "json", "yaml"})
	}
}

// JSON encodes a document. Keys are sorted, so output is stable.
func JSON(doc ast.Document, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode document").WithCode(mdwerror.CodeInternal)
	}
	return buf.Bytes(), nil
}

// YAML encodes a document with sorted keys
func YAML(doc ast.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode document").WithCode(mdwerror.CodeInternal)
	}
	if err := enc.Close(); err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode document").WithCode(mdwerror.CodeInternal)
	}
	return buf.Bytes(), nil
}

// Program renders a program in the given format
func Program(program *ast.Program, format Format, indent string, style Style) (string, error) {
	switch format {
	case FormatJSON:
		out, err := JSON(program.Document(), indent)
		return string(out), err
	case FormatYAML:
		out, err := YAML(program.Document())
		return string(out), err
	default:
		return Tree(program, style) + "\n", nil
	}
}

// Stats renders tree statistics as aligned key/value lines
func Stats(stats ast.Stats, style Style) string {
	var b strings.Builder
	line := func(key string, value interface{}) {
		b.WriteString(style.apply(mutedStyle, fmt.Sprintf("%-12s", key)))
		b.WriteString(fmt.Sprintf("%v\n", value))
	}
	line("statements", stats.Statements)
	line("nodes", stats.Nodes)
	line("depth", stats.Depth)
	line("integers", stats.Integers)
	line("floats", stats.Floats)
	line("errors", stats.Errors)

	ops := make([]string, 0, len(stats.Operators))
	for op := range stats.Operators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%s=%d", op, stats.Operators[op])
	}
	line("operators", strings.Join(parts, " "))
	return b.String()
}
