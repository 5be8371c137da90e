package synth

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomInt(t *testing.T) {
	ctx := testContext(nil)

	for i := 0; i < 200; i++ {
		out, err := directiveRandomInt(ctx, []string{"5", "10"})
		require.NoError(t, err)
		n, err := strconv.Atoi(out)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 10)
	}

	// Defaults cover [0, 100].
	out, err := directiveRandomInt(ctx, nil)
	require.NoError(t, err)
	n, err := strconv.Atoi(out)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)
	assert.LessOrEqual(t, n, 100)
}

func TestRandomIntErrors(t *testing.T) {
	ctx := testContext(nil)

	_, err := directiveRandomInt(ctx, []string{"10", "5"})
	assert.Error(t, err, "inverted range")

	_, err = directiveRandomInt(ctx, []string{"a", "b"})
	assert.Error(t, err, "non-numeric arguments")

	_, err = directiveRandomInt(ctx, []string{"1"})
	assert.Error(t, err, "wrong arity")
}

func TestRandomFloat(t *testing.T) {
	ctx := testContext(nil)

	out, err := directiveRandomFloat(ctx, []string{"1.5", "2.5"})
	require.NoError(t, err)
	f, err := strconv.ParseFloat(out, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, f, 1.5)
	assert.Less(t, f, 2.5)
}

func TestRandomString(t *testing.T) {
	ctx := testContext(nil)

	out, err := directiveRandomString(ctx, []string{"16"})
	require.NoError(t, err)
	assert.Len(t, out, 16)
	for _, r := range out {
		assert.Contains(t, randomStringAlphabet, string(r))
	}

	out, err = directiveRandomString(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, out, 10)

	_, err = directiveRandomString(ctx, []string{"-1"})
	assert.Error(t, err)
}

func TestSeededDeterminism(t *testing.T) {
	// Two contexts with the same seed replay the same random stream.
	a := NewContext(nil, 42)
	b := NewContext(nil, 42)

	for i := 0; i < 10; i++ {
		av, err := directiveRandomInt(a, nil)
		require.NoError(t, err)
		bv, err := directiveRandomInt(b, nil)
		require.NoError(t, err)
		assert.Equal(t, av, bv)
	}

	other := NewContext(nil, 43)
	var same int
	for i := 0; i < 10; i++ {
		av, _ := directiveRandomString(a, nil)
		ov, _ := directiveRandomString(other, nil)
		if av == ov {
			same++
		}
	}
	assert.Less(t, same, 10, "different seeds should diverge")
}

func TestUUID(t *testing.T) {
	out, err := directiveUUID(NewContext(nil, 7), nil)
	require.NoError(t, err)

	id, err := uuid.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())

	// Same seed, same identifier.
	again, err := directiveUUID(NewContext(nil, 7), nil)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSequenceNext(t *testing.T) {
	ctx := testContext(nil)

	out, err := directiveSequenceNext(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	out, err = directiveSequenceNext(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "2", out)

	// A named counter is independent of the route-scoped one.
	out, err = directiveSequenceNext(ctx, []string{"orders"})
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	_, err = directiveSequenceNext(ctx, []string{""})
	assert.Error(t, err)

	noStore := NewContext(nil, 1)
	_, err = directiveSequenceNext(noStore, nil)
	assert.Error(t, err)
}

func TestNowAndTimestamp(t *testing.T) {
	out, err := directiveNow(nil, nil)
	require.NoError(t, err)
	_, err = time.Parse(time.RFC3339, out)
	assert.NoError(t, err)

	out, err = directiveTimestamp(nil, nil)
	require.NoError(t, err)
	ts, err := strconv.ParseInt(out, 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Unix(), ts, 5)
}

func TestExprDirective(t *testing.T) {
	ctx := testContext(map[string]string{"id": "42"})
	ctx.Query = map[string]string{"page": "3"}

	out, err := directiveExpr(ctx, []string{`params.id + "-" + query.page`})
	require.NoError(t, err)
	assert.Equal(t, "42-3", out)

	out, err = directiveExpr(ctx, []string{"1 + 2"})
	require.NoError(t, err)
	assert.Equal(t, "3", out)

	_, err = directiveExpr(ctx, []string{"1 +"})
	var dirErr *DirectiveError
	require.ErrorAs(t, err, &dirErr)

	_, err = directiveExpr(ctx, nil)
	assert.Error(t, err)
}

func TestFakerDirectives(t *testing.T) {
	ctx := testContext(nil)

	name, err := fakerPick(fakerFirstNames)(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, fakerFirstNames, name)

	email, err := directiveFakerEmail(ctx, nil)
	require.NoError(t, err)
	at := strings.Index(email, "@")
	require.Positive(t, at)
	assert.Contains(t, fakerDomains, email[at+1:])
}

func TestDefaultRegistryNames(t *testing.T) {
	reg := DefaultRegistry()
	for _, name := range []string{
		"param", "const", "random.int", "random.float", "random.string",
		"sequence.next", "uuid", "now", "timestamp", "expr", "faker.name",
	} {
		_, ok := reg.Get(name)
		assert.True(t, ok, "missing directive %s", name)
	}
}
