package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welschmorgan/mocker/pkg/route"
)

func mustSpec(t *testing.T, method, path string) route.Spec {
	t.Helper()
	pattern, err := route.ParsePattern(path)
	require.NoError(t, err)
	return route.Spec{Method: method, Path: path, Pattern: pattern, Status: 200}
}

func TestLiteralBeatsParam(t *testing.T) {
	// The more specific route must win regardless of declaration order.
	orders := map[string][]route.Spec{
		"literal first": {
			mustSpec(t, "GET", "/users/active"),
			mustSpec(t, "GET", "/users/:id"),
		},
		"literal last": {
			mustSpec(t, "GET", "/users/:id"),
			mustSpec(t, "GET", "/users/active"),
		},
	}

	for name, specs := range orders {
		t.Run(name, func(t *testing.T) {
			idx := Build(specs)

			result, ok := idx.Lookup("GET", "/users/active")
			require.True(t, ok)
			assert.Equal(t, "/users/active", result.Route.Spec.Path)
			assert.Empty(t, result.Params)

			result, ok = idx.Lookup("GET", "/users/42")
			require.True(t, ok)
			assert.Equal(t, "/users/:id", result.Route.Spec.Path)
			assert.Equal(t, map[string]string{"id": "42"}, result.Params)
		})
	}
}

func TestParamBeatsWildcard(t *testing.T) {
	idx := Build([]route.Spec{
		mustSpec(t, "GET", "/files/*"),
		mustSpec(t, "GET", "/files/:name"),
	})

	result, ok := idx.Lookup("GET", "/files/report")
	require.True(t, ok)
	assert.Equal(t, "/files/:name", result.Route.Spec.Path)

	// Deeper paths only fit the wildcard.
	result, ok = idx.Lookup("GET", "/files/a/b")
	require.True(t, ok)
	assert.Equal(t, "/files/*", result.Route.Spec.Path)
}

func TestWildcardMatchesZeroSegments(t *testing.T) {
	idx := Build([]route.Spec{mustSpec(t, "GET", "/files/*")})

	result, ok := idx.Lookup("GET", "/files")
	require.True(t, ok)
	assert.Equal(t, "", result.Rest)

	result, ok = idx.Lookup("GET", "/files/a/b/c")
	require.True(t, ok)
	assert.Equal(t, "a/b/c", result.Rest)

	_, ok = idx.Lookup("GET", "/other")
	assert.False(t, ok)
}

func TestExactRouteBeatsWildcardSibling(t *testing.T) {
	idx := Build([]route.Spec{
		mustSpec(t, "GET", "/files/*"),
		mustSpec(t, "GET", "/files"),
	})

	result, ok := idx.Lookup("GET", "/files")
	require.True(t, ok)
	assert.Equal(t, "/files", result.Route.Spec.Path)
}

func TestDeclarationOrderBreaksTies(t *testing.T) {
	first := mustSpec(t, "GET", "/dup")
	first.Status = 201
	second := mustSpec(t, "GET", "/dup")
	second.Status = 202

	idx := Build([]route.Spec{first, second})

	result, ok := idx.Lookup("GET", "/dup")
	require.True(t, ok)
	assert.Equal(t, 201, result.Route.Spec.Status)
}

func TestLookupIsDeterministic(t *testing.T) {
	idx := Build([]route.Spec{
		mustSpec(t, "GET", "/a/:x/c"),
		mustSpec(t, "GET", "/a/b/:y"),
	})

	result, ok := idx.Lookup("GET", "/a/b/c")
	require.True(t, ok)
	winner := result.Route.Spec.Path

	for i := 0; i < 100; i++ {
		again, ok := idx.Lookup("GET", "/a/b/c")
		require.True(t, ok)
		assert.Equal(t, winner, again.Route.Spec.Path)
	}
}

func TestMethodHandling(t *testing.T) {
	idx := Build([]route.Spec{mustSpec(t, "GET", "/ping")})

	_, ok := idx.Lookup("get", "/ping")
	assert.True(t, ok, "method comparison should be case-insensitive")

	_, ok = idx.Lookup("POST", "/ping")
	assert.False(t, ok, "a different verb must not match")
}

func TestRootPattern(t *testing.T) {
	idx := Build([]route.Spec{mustSpec(t, "GET", "/")})

	_, ok := idx.Lookup("GET", "/")
	assert.True(t, ok)

	_, ok = idx.Lookup("GET", "/sub")
	assert.False(t, ok)
}

func TestCriteriaFallThrough(t *testing.T) {
	gated := mustSpec(t, "GET", "/data")
	gated.MatchHeaders = map[string]string{"Accept": "application/json"}
	gated.Status = 201
	open := mustSpec(t, "GET", "/data")
	open.Status = 202

	idx := Build([]route.Spec{gated, open})

	// Criteria satisfied: the gated route outranks the open one.
	result, ok := idx.Find("GET", "/data", nil, map[string]string{"accept": "application/json"})
	require.True(t, ok)
	assert.Equal(t, 201, result.Route.Spec.Status)

	// Criteria unsatisfied: fall through to the next candidate.
	result, ok = idx.Find("GET", "/data", nil, nil)
	require.True(t, ok)
	assert.Equal(t, 202, result.Route.Spec.Status)
}

func TestCriteriaWildcardValues(t *testing.T) {
	spec := mustSpec(t, "GET", "/data")
	spec.MatchQuery = map[string]string{"format": "app*"}

	idx := Build([]route.Spec{spec})

	_, ok := idx.Find("GET", "/data", map[string]string{"format": "application"}, nil)
	assert.True(t, ok)

	_, ok = idx.Find("GET", "/data", map[string]string{"format": "text"}, nil)
	assert.False(t, ok)

	_, ok = idx.Find("GET", "/data", nil, nil)
	assert.False(t, ok, "missing query key must not satisfy the criterion")
}

func TestDeepPathsBeyondScoredDepth(t *testing.T) {
	// Patterns deeper than the scored depth still match, they just stop
	// accumulating specificity.
	long := "/a/b/c/d/e/f/g/h/i/j/k/l/m/n/o/p/q/r"
	idx := Build([]route.Spec{mustSpec(t, "GET", long)})

	_, ok := idx.Lookup("GET", long)
	assert.True(t, ok)
}

func TestAllAndLen(t *testing.T) {
	idx := Build([]route.Spec{
		mustSpec(t, "GET", "/a"),
		mustSpec(t, "POST", "/a"),
	})

	assert.Equal(t, 2, idx.Len())
	assert.Len(t, idx.All(), 2)
	require.NotNil(t, idx.Sequences())
}
