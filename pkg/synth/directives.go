package synth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/google/uuid"
)

// Func is a directive implementation. It receives the per-request context
// and the raw argument list, and returns the expanded text.
type Func func(ctx *Context, args []string) (string, error)

// Registry is the directive table consulted during expansion. Directives
// are registered by name before serving starts; lookups at request time
// are read-only, so no locking is needed.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty directive registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register binds a directive name to its implementation.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Get returns the directive registered under name.
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered directive names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns the built-in directive set.
//
// Baseline: param, const, random.int, random.float, random.string,
// sequence.next. Additions: uuid, now, timestamp, expr, and a faker
// family producing realistic-looking sample data.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("param", directiveParam)
	r.Register("const", directiveConst)
	r.Register("random.int", directiveRandomInt)
	r.Register("random.float", directiveRandomFloat)
	r.Register("random.string", directiveRandomString)
	r.Register("sequence.next", directiveSequenceNext)
	r.Register("uuid", directiveUUID)
	r.Register("now", directiveNow)
	r.Register("timestamp", directiveTimestamp)
	r.Register("expr", directiveExpr)

	r.Register("faker.name", fakerPick(fakerFullNames))
	r.Register("faker.firstName", fakerPick(fakerFirstNames))
	r.Register("faker.lastName", fakerPick(fakerLastNames))
	r.Register("faker.word", fakerPick(fakerWords))
	r.Register("faker.company", fakerPick(fakerCompanies))
	r.Register("faker.email", directiveFakerEmail)

	return r
}

// directiveParam substitutes a bound path parameter.
// Referencing a parameter the route did not bind fails the request.
func directiveParam(ctx *Context, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", &DirectiveError{Directive: "param", Reason: "expected one parameter name"}
	}
	v, ok := ctx.Params[args[0]]
	if !ok {
		return "", &DirectiveError{Directive: "param", Reason: fmt.Sprintf("parameter %q is not bound", args[0])}
	}
	return v, nil
}

// directiveConst passes its argument through verbatim.
func directiveConst(_ *Context, args []string) (string, error) {
	return strings.Join(args, ","), nil
}

func directiveRandomInt(ctx *Context, args []string) (string, error) {
	min, max := 0, 100
	if len(args) == 2 {
		var err1, err2 error
		min, err1 = strconv.Atoi(args[0])
		max, err2 = strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return "", &DirectiveError{Directive: "random.int", Reason: "arguments must be integers"}
		}
	} else if len(args) != 0 {
		return "", &DirectiveError{Directive: "random.int", Reason: "expected (min, max) or no arguments"}
	}
	if min > max {
		return "", &DirectiveError{Directive: "random.int", Reason: fmt.Sprintf("min %d exceeds max %d", min, max)}
	}
	return strconv.Itoa(ctx.Rand.IntN(max-min+1) + min), nil
}

func directiveRandomFloat(ctx *Context, args []string) (string, error) {
	min, max := 0.0, 1.0
	if len(args) == 2 {
		var err1, err2 error
		min, err1 = strconv.ParseFloat(args[0], 64)
		max, err2 = strconv.ParseFloat(args[1], 64)
		if err1 != nil || err2 != nil {
			return "", &DirectiveError{Directive: "random.float", Reason: "arguments must be numbers"}
		}
	} else if len(args) != 0 {
		return "", &DirectiveError{Directive: "random.float", Reason: "expected (min, max) or no arguments"}
	}
	if min > max {
		return "", &DirectiveError{Directive: "random.float", Reason: fmt.Sprintf("min %g exceeds max %g", min, max)}
	}
	return strconv.FormatFloat(min+ctx.Rand.Float64()*(max-min), 'f', 6, 64), nil
}

// randomStringAlphabet is the alphanumeric alphabet of random.string.
const randomStringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func directiveRandomString(ctx *Context, args []string) (string, error) {
	length := 10
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", &DirectiveError{Directive: "random.string", Reason: "length must be a non-negative integer"}
		}
		length = n
	} else if len(args) != 0 {
		return "", &DirectiveError{Directive: "random.string", Reason: "expected (length) or no arguments"}
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = randomStringAlphabet[ctx.Rand.IntN(len(randomStringAlphabet))]
	}
	return string(b), nil
}

// directiveSequenceNext reads-and-increments a shared counter. Bare calls
// use the matched route's counter; an explicit name selects a counter
// shared across routes.
func directiveSequenceNext(ctx *Context, args []string) (string, error) {
	if ctx.Sequences == nil {
		return "", &DirectiveError{Directive: "sequence.next", Reason: "no sequence store attached"}
	}
	name := ctx.SequenceKey
	switch len(args) {
	case 0:
	case 1:
		if args[0] == "" {
			return "", &DirectiveError{Directive: "sequence.next", Reason: "sequence name cannot be empty"}
		}
		name = args[0]
	default:
		return "", &DirectiveError{Directive: "sequence.next", Reason: "expected at most one sequence name"}
	}
	return strconv.FormatInt(ctx.Sequences.Next(name), 10), nil
}

// directiveUUID generates a UUID v4 from the request's seeded source, so
// fixed-seed runs reproduce their identifiers.
func directiveUUID(ctx *Context, _ []string) (string, error) {
	var b [16]byte
	for i := range b {
		b[i] = byte(ctx.Rand.IntN(256))
	}
	// Force version 4 and variant bits.
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return "", &DirectiveError{Directive: "uuid", Reason: err.Error()}
	}
	return id.String(), nil
}

func directiveNow(_ *Context, _ []string) (string, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

func directiveTimestamp(_ *Context, _ []string) (string, error) {
	return strconv.FormatInt(time.Now().Unix(), 10), nil
}

// directiveExpr evaluates an expression over the request metadata.
// The environment exposes params, query and headers maps.
func directiveExpr(ctx *Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", &DirectiveError{Directive: "expr", Reason: "expected an expression"}
	}
	code := strings.Join(args, ",")
	env := map[string]any{
		"params":  ctx.Params,
		"query":   ctx.Query,
		"headers": ctx.Headers,
	}
	out, err := expr.Eval(code, env)
	if err != nil {
		return "", &DirectiveError{Directive: "expr", Reason: err.Error()}
	}
	return formatExprResult(out), nil
}

func formatExprResult(out any) string {
	switch v := out.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func directiveFakerEmail(ctx *Context, _ []string) (string, error) {
	name := fakerFirstNames[ctx.Rand.IntN(len(fakerFirstNames))]
	domain := fakerDomains[ctx.Rand.IntN(len(fakerDomains))]
	return strings.ToLower(name) + strconv.Itoa(ctx.Rand.IntN(1000)) + "@" + domain, nil
}

// fakerPick builds a directive that picks one entry from a sample list.
func fakerPick(samples []string) Func {
	return func(ctx *Context, _ []string) (string, error) {
		return samples[ctx.Rand.IntN(len(samples))], nil
	}
}
