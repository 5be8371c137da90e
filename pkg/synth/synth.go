// Package synth expands response templates into concrete values.
// String leaves may embed {{directive(args)}} markers; everything else is
// copied structurally. Expansion is single-pass: the output of a directive
// is never re-scanned, which rules out infinite expansion loops.
package synth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/welschmorgan/mocker/pkg/value"
)

// DirectiveError reports bad directive usage, such as a reference to a
// path parameter the route did not bind. It is recovered at the dispatch
// boundary into a 500-class response.
type DirectiveError struct {
	Directive string
	Reason    string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("directive %s: %s", e.Directive, e.Reason)
}

// directiveRegex matches {{ ... }} markers with optional inner whitespace.
var directiveRegex = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// callRegex splits a directive expression into its name and optional
// parenthesized argument list. Names are dotted identifiers.
var callRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\((.*)\))?$`)

// Synthesizer expands templates using a directive registry.
type Synthesizer struct {
	directives *Registry
}

// New creates a synthesizer with the default directive set.
func New() *Synthesizer {
	return &Synthesizer{directives: DefaultRegistry()}
}

// NewWithRegistry creates a synthesizer with a custom directive set.
func NewWithRegistry(reg *Registry) *Synthesizer {
	return &Synthesizer{directives: reg}
}

// Synthesize walks the template tree and returns a concrete copy.
// Mappings and sequences are rebuilt with each child synthesized; strings
// have their directives expanded; other scalars pass through unchanged.
func (s *Synthesizer) Synthesize(template value.Value, ctx *Context) (value.Value, error) {
	switch template.Kind() {
	case value.KindString:
		str, _ := template.AsString()
		expanded, err := s.Expand(str, ctx)
		if err != nil {
			return value.Null(), err
		}
		return value.String(expanded), nil
	case value.KindSequence:
		elems, _ := template.AsSequence()
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			child, err := s.Synthesize(e, ctx)
			if err != nil {
				return value.Null(), err
			}
			out[i] = child
		}
		return value.Sequence(out...), nil
	case value.KindMapping:
		// Walk keys in sorted order so directives consume the seeded
		// random stream in a stable order across requests.
		out := make(map[string]value.Value, template.Len())
		for _, k := range template.Keys() {
			e, _ := template.Get(k)
			child, err := s.Synthesize(e, ctx)
			if err != nil {
				return value.Null(), err
			}
			out[k] = child
		}
		return value.Mapping(out), nil
	default:
		return template, nil
	}
}

// Expand replaces every {{directive(args)}} marker in a string.
// Unrecognized directive names keep their literal text verbatim so an
// unknown directive degrades gracefully instead of breaking serving.
func (s *Synthesizer) Expand(template string, ctx *Context) (string, error) {
	if !strings.Contains(template, "{{") {
		return template, nil
	}

	var firstErr error
	result := directiveRegex.ReplaceAllStringFunc(template, func(marker string) string {
		if firstErr != nil {
			return marker
		}
		inner := directiveRegex.FindStringSubmatch(marker)
		if len(inner) < 2 {
			return marker
		}
		expanded, err := s.evaluate(strings.TrimSpace(inner[1]), marker, ctx)
		if err != nil {
			firstErr = err
			return marker
		}
		return expanded
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// evaluate resolves one directive expression. The original marker text is
// returned for anything that is not a registered directive call.
func (s *Synthesizer) evaluate(expr, marker string, ctx *Context) (string, error) {
	call := callRegex.FindStringSubmatch(expr)
	if call == nil {
		return marker, nil
	}
	name := call[1]

	fn, ok := s.directives.Get(name)
	if !ok {
		// Unknown directive: graceful passthrough, not an error.
		return marker, nil
	}

	var args []string
	if call[2] != "" {
		args = splitArgs(call[2])
	}
	return fn(ctx, args)
}

// splitArgs splits a comma-separated argument list, respecting quotes.
// Surrounding quotes are stripped from each argument.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quote := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote:
			current.WriteByte(ch)
			if ch == quote {
				inQuote = false
			}
		case ch == '"' || ch == '\'':
			inQuote = true
			quote = ch
			current.WriteByte(ch)
		case ch == ',':
			args = append(args, unquote(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	args = append(args, unquote(current.String()))
	return args
}

// unquote trims whitespace and strips one pair of surrounding quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
