// Package match builds the immutable route index and answers lookups.
package match

// Path specificity uses positional weights: each pattern position
// contributes a digit in a base-4 number, so a Literal segment outranks a
// Param at the same position no matter what follows, and a Param outranks
// a Wildcard. End-of-pattern ranks above Wildcard because an exact-length
// pattern is more specific than one that swallows trailing segments.
const (
	weightLiteral  = 3
	weightParam    = 2
	weightExactEnd = 1
	weightWildcard = 0

	// scoreBase is the radix of the positional score.
	scoreBase = 4

	// maxScoredDepth bounds the positional score to keep it in uint64.
	// Patterns deeper than this compare by their first segments only.
	maxScoredDepth = 16
)

// Secondary specificity from match criteria. Only consulted when two
// routes have identical path scores; a route demanding specific headers
// or query params is more specific than one that does not.
const (
	scoreHeader = 10
	scoreQuery  = 5
)
