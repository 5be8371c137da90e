package match

import (
	"sort"
	"strings"

	"github.com/welschmorgan/mocker/pkg/route"
	"github.com/welschmorgan/mocker/pkg/synth"
)

// CompiledRoute is a route.Spec plus its precomputed specificity,
// used for deterministic ordering of ambiguous overlapping patterns.
type CompiledRoute struct {
	Spec route.Spec

	// PathScore is the positional path specificity (higher is more specific).
	PathScore uint64

	// MatcherScore counts header/query criteria, breaking path-score ties.
	MatcherScore int

	// order is the declaration index; the final tie-break (earlier wins).
	order int
}

// Result is a successful lookup: the winning route and its bound path
// parameters. It borrows the CompiledRoute from the Index, which outlives
// every per-request Result.
type Result struct {
	Route *CompiledRoute

	// Params maps parameter names to the path segments they captured.
	Params map[string]string

	// Rest is the remainder captured by a trailing wildcard, if any.
	Rest string
}

// Index answers route lookups. It is built once at startup, is immutable
// afterwards, and is safe for concurrent readers without locking. The
// sequence store lives here so counters have an explicit owner instead of
// package-level state.
type Index struct {
	byMethod  map[string][]CompiledRoute
	sequences *synth.Sequences
}

// Build compiles the route set into an index. Routes are grouped by
// method and sorted by descending specificity; true ties keep declaration
// order, so the earlier-declared route wins.
func Build(specs []route.Spec) *Index {
	idx := &Index{
		byMethod:  make(map[string][]CompiledRoute),
		sequences: synth.NewSequences(),
	}
	for i, spec := range specs {
		compiled := CompiledRoute{
			Spec:         spec,
			PathScore:    pathScore(spec.Pattern),
			MatcherScore: len(spec.MatchHeaders)*scoreHeader + len(spec.MatchQuery)*scoreQuery,
			order:        i,
		}
		idx.byMethod[spec.Method] = append(idx.byMethod[spec.Method], compiled)
	}
	for method := range idx.byMethod {
		routes := idx.byMethod[method]
		sort.SliceStable(routes, func(i, j int) bool {
			if routes[i].PathScore != routes[j].PathScore {
				return routes[i].PathScore > routes[j].PathScore
			}
			if routes[i].MatcherScore != routes[j].MatcherScore {
				return routes[i].MatcherScore > routes[j].MatcherScore
			}
			return routes[i].order < routes[j].order
		})
		idx.byMethod[method] = routes
	}
	return idx
}

// Sequences returns the counter store shared by all routes in this index.
func (idx *Index) Sequences() *synth.Sequences {
	return idx.sequences
}

// All returns every compiled route, grouped by method in match order.
func (idx *Index) All() []*CompiledRoute {
	out := make([]*CompiledRoute, 0, idx.Len())
	for method := range idx.byMethod {
		routes := idx.byMethod[method]
		for i := range routes {
			out = append(out, &routes[i])
		}
	}
	return out
}

// Len returns the number of compiled routes.
func (idx *Index) Len() int {
	n := 0
	for _, routes := range idx.byMethod {
		n += len(routes)
	}
	return n
}

// Lookup scans the method's ordered route list and returns the first
// route whose pattern fully matches the path. Routes carrying header or
// query criteria are skipped here; use Find when request metadata is
// available. Repeated calls with the same arguments always return the
// same route.
func (idx *Index) Lookup(method, path string) (*Result, bool) {
	return idx.Find(method, path, nil, nil)
}

// Find is Lookup with header/query criteria enforcement: a route whose
// criteria are not satisfied by the request falls through to the next
// candidate instead of producing a miss outright.
func (idx *Index) Find(method, path string, query, headers map[string]string) (*Result, bool) {
	routes, ok := idx.byMethod[strings.ToUpper(method)]
	if !ok {
		return nil, false
	}
	segments := splitPath(path)
	for i := range routes {
		r := &routes[i]
		params, rest, ok := matchPattern(r.Spec.Pattern, segments)
		if !ok {
			continue
		}
		if !criteriaMatch(r.Spec.MatchHeaders, headers, true) {
			continue
		}
		if !criteriaMatch(r.Spec.MatchQuery, query, false) {
			continue
		}
		return &Result{Route: r, Params: params, Rest: rest}, true
	}
	return nil, false
}

// pathScore computes the positional specificity of a pattern.
func pathScore(pattern []route.Segment) uint64 {
	var score uint64
	hasWildcard := false
	for i, seg := range pattern {
		if i >= maxScoredDepth {
			break
		}
		var w uint64
		switch seg.Kind {
		case route.SegmentLiteral:
			w = weightLiteral
		case route.SegmentParam:
			w = weightParam
		case route.SegmentWildcard:
			w = weightWildcard
			hasWildcard = true
		}
		score += w << uint(2*(maxScoredDepth-1-i))
	}
	if !hasWildcard && len(pattern) < maxScoredDepth {
		score += weightExactEnd << uint(2*(maxScoredDepth-1-len(pattern)))
	}
	return score
}

// splitPath splits a request path into its segments. "/" yields none.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// matchPattern attempts a segment-by-segment match. Literals require
// equality, Params bind any single non-empty segment, and a trailing
// Wildcard absorbs all remaining segments including none. Without a
// wildcard the segment counts must be equal.
func matchPattern(pattern []route.Segment, segments []string) (map[string]string, string, bool) {
	wildcard := len(pattern) > 0 && pattern[len(pattern)-1].Kind == route.SegmentWildcard
	fixed := len(pattern)
	if wildcard {
		fixed--
	}
	if wildcard {
		if len(segments) < fixed {
			return nil, "", false
		}
	} else if len(segments) != fixed {
		return nil, "", false
	}

	var params map[string]string
	for i := 0; i < fixed; i++ {
		seg := pattern[i]
		switch seg.Kind {
		case route.SegmentLiteral:
			if segments[i] != seg.Literal {
				return nil, "", false
			}
		case route.SegmentParam:
			if segments[i] == "" {
				return nil, "", false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.Literal] = segments[i]
		}
	}

	rest := ""
	if wildcard && len(segments) > fixed {
		rest = strings.Join(segments[fixed:], "/")
	}
	return params, rest, true
}

// criteriaMatch checks declared header/query criteria against the request.
// Values support simple '*' wildcards; header names compare
// case-insensitively.
func criteriaMatch(want, got map[string]string, foldKeys bool) bool {
	if len(want) == 0 {
		return true
	}
	for name, pattern := range want {
		actual, ok := lookupKey(got, name, foldKeys)
		if !ok || !wildcardMatch(pattern, actual) {
			return false
		}
	}
	return true
}

func lookupKey(m map[string]string, key string, fold bool) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	if !fold {
		return "", false
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// wildcardMatch performs simple wildcard matching where '*' matches any
// sequence of characters.
func wildcardMatch(pattern, v string) bool {
	if pattern == v {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	parts := strings.Split(pattern, "*")
	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			if !strings.HasPrefix(v, part) {
				return false
			}
			pos = len(part)
			continue
		}
		if i == len(parts)-1 {
			return strings.HasSuffix(v[pos:], part)
		}
		idx := strings.Index(v[pos:], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}
	return true
}
