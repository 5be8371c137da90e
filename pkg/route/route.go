// Package route defines the typed representation of one mock endpoint and
// the parser that builds it from a decoded configuration Value. Parsing is
// strict: the first invalid route aborts with its position so a broken
// config never results in a partially registered route set.
package route

import (
	"fmt"
	"strings"

	"github.com/welschmorgan/mocker/pkg/value"
)

// SegmentKind discriminates the three path segment variants.
type SegmentKind int

const (
	// SegmentLiteral matches exactly one identical path segment.
	SegmentLiteral SegmentKind = iota
	// SegmentParam matches any single non-empty segment and binds it by name.
	SegmentParam
	// SegmentWildcard matches all remaining segments, including none.
	// Only valid as the final segment of a pattern.
	SegmentWildcard
)

// Segment is one element of a parsed path pattern.
type Segment struct {
	Kind SegmentKind
	// Literal holds the exact text for SegmentLiteral,
	// or the parameter name for SegmentParam.
	Literal string
}

// Spec is the format-independent description of one mock endpoint.
type Spec struct {
	// Method is the HTTP verb, uppercase.
	Method string

	// Path is the original pattern text, kept for diagnostics and listing.
	Path string

	// Pattern is the parsed segment sequence.
	Pattern []Segment

	// Status is the response status code, defaulting to 200.
	Status int

	// Headers are attached verbatim to the synthesized response.
	Headers map[string]string

	// MatchHeaders restricts matching to requests carrying these headers.
	MatchHeaders map[string]string

	// MatchQuery restricts matching to requests carrying these query params.
	MatchQuery map[string]string

	// Body is the response template, possibly embedding {{directive(...)}}
	// markers in its string leaves.
	Body value.Value

	// Format names the codec used to encode the response body.
	// Empty means JSON.
	Format string
}

// Key identifies the route for per-route sequence counters.
func (s *Spec) Key() string {
	return s.Method + " " + s.Path
}

// Wildcard reports whether the pattern ends in a trailing wildcard.
func (s *Spec) Wildcard() bool {
	return len(s.Pattern) > 0 && s.Pattern[len(s.Pattern)-1].Kind == SegmentWildcard
}

// Error reports the first invalid route declaration.
type Error struct {
	Index  int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("route %d: %s", e.Index, e.Reason)
}

// methods is the set of recognized HTTP verbs.
var methods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// Parse converts the decoded top-level routes Value into a route list.
// The input must be a sequence of mappings with the fields method, path,
// status, headers, body, match and format. Validation fails on the first
// invalid entry.
func Parse(raw value.Value) ([]Spec, error) {
	entries, ok := raw.AsSequence()
	if !ok {
		return nil, &Error{Index: 0, Reason: fmt.Sprintf("routes must be a sequence, got %s", raw.Kind())}
	}

	specs := make([]Spec, 0, len(entries))
	for i, entry := range entries {
		spec, err := parseOne(i, entry)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseOne(index int, entry value.Value) (Spec, error) {
	fields, ok := entry.AsMapping()
	if !ok {
		return Spec{}, &Error{Index: index, Reason: fmt.Sprintf("route must be a mapping, got %s", entry.Kind())}
	}

	spec := Spec{Status: 200}

	method, err := requireString(index, fields, "method")
	if err != nil {
		return Spec{}, err
	}
	spec.Method = strings.ToUpper(method)
	if !methods[spec.Method] {
		return Spec{}, &Error{Index: index, Reason: fmt.Sprintf("unrecognized method %q", method)}
	}

	path, err := requireString(index, fields, "path")
	if err != nil {
		return Spec{}, err
	}
	spec.Path = path
	spec.Pattern, err = ParsePattern(path)
	if err != nil {
		return Spec{}, &Error{Index: index, Reason: err.Error()}
	}

	if raw, ok := fields["status"]; ok {
		status, ok := raw.AsInt()
		if !ok {
			return Spec{}, &Error{Index: index, Reason: "status must be an integer"}
		}
		if status < 100 || status > 599 {
			return Spec{}, &Error{Index: index, Reason: fmt.Sprintf("status %d out of range [100,599]", status)}
		}
		spec.Status = int(status)
	}

	if raw, ok := fields["headers"]; ok {
		spec.Headers, err = stringMap(index, "headers", raw)
		if err != nil {
			return Spec{}, err
		}
	}

	if raw, ok := fields["match"]; ok {
		criteria, ok := raw.AsMapping()
		if !ok {
			return Spec{}, &Error{Index: index, Reason: "match must be a mapping"}
		}
		if h, ok := criteria["headers"]; ok {
			spec.MatchHeaders, err = stringMap(index, "match.headers", h)
			if err != nil {
				return Spec{}, err
			}
		}
		if q, ok := criteria["query"]; ok {
			spec.MatchQuery, err = stringMap(index, "match.query", q)
			if err != nil {
				return Spec{}, err
			}
		}
	}

	if raw, ok := fields["format"]; ok {
		format, ok := raw.AsString()
		if !ok {
			return Spec{}, &Error{Index: index, Reason: "format must be a string"}
		}
		spec.Format = strings.ToLower(format)
	}

	if body, ok := fields["body"]; ok {
		spec.Body = body
	} else {
		spec.Body = value.Null()
	}

	return spec, nil
}

// ParsePattern splits a path pattern into segments. Segments starting with
// ':' are parameters; a single trailing '*' is a wildcard. Parameter names
// must be unique within the pattern.
func ParsePattern(path string) ([]Segment, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("path %q must start with '/'", path)
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return []Segment{}, nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]Segment, 0, len(parts))
	seen := map[string]bool{}
	for i, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("path %q has an empty segment", path)
		case part == "*":
			if i != len(parts)-1 {
				return nil, fmt.Errorf("path %q: wildcard must be the final segment", path)
			}
			segments = append(segments, Segment{Kind: SegmentWildcard})
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("path %q has an unnamed parameter", path)
			}
			if seen[name] {
				return nil, fmt.Errorf("path %q binds parameter %q twice", path, name)
			}
			seen[name] = true
			segments = append(segments, Segment{Kind: SegmentParam, Literal: name})
		default:
			segments = append(segments, Segment{Kind: SegmentLiteral, Literal: part})
		}
	}
	return segments, nil
}

func requireString(index int, fields map[string]value.Value, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", &Error{Index: index, Reason: fmt.Sprintf("missing required field %q", key)}
	}
	s, ok := raw.AsString()
	if !ok {
		return "", &Error{Index: index, Reason: fmt.Sprintf("%s must be a string", key)}
	}
	return s, nil
}

func stringMap(index int, field string, raw value.Value) (map[string]string, error) {
	entries, ok := raw.AsMapping()
	if !ok {
		return nil, &Error{Index: index, Reason: field + " must be a mapping"}
	}
	out := make(map[string]string, len(entries))
	for k, v := range entries {
		s, ok := v.AsString()
		if !ok {
			return nil, &Error{Index: index, Reason: fmt.Sprintf("%s.%s must be a string", field, k)}
		}
		out[k] = s
	}
	return out, nil
}
