// Package dispatch orchestrates request handling: match the route,
// synthesize the response, encode it, and recover every per-request
// failure into a response. The serving loop never terminates because one
// request went wrong.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/welschmorgan/mocker/internal/match"
	"github.com/welschmorgan/mocker/pkg/codec"
	"github.com/welschmorgan/mocker/pkg/logging"
	"github.com/welschmorgan/mocker/pkg/synth"
	"github.com/welschmorgan/mocker/pkg/value"
)

// SeedHeader lets a single request override the seed policy, making any
// response reproducible on demand.
const SeedHeader = "X-Mocker-Seed"

// Request is the transport-independent request abstraction consumed by
// the dispatcher. Transports supply one value per query key and header.
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
}

// Response is the transport-independent response abstraction.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// NotFound configures the response emitted when no route matches.
type NotFound struct {
	Status  int
	Headers map[string]string
	// Body is encoded with the default codec. When nil, a diagnostic
	// mapping naming the unmatched method and path is emitted.
	Body value.Value
}

// Options configures a Dispatcher.
type Options struct {
	// NotFound overrides the default miss response.
	NotFound *NotFound

	// CORS, when non-nil, injects cross-origin headers on every response
	// and short-circuits OPTIONS preflight to a 204 before matching.
	CORS *CORS

	// Seed, when non-nil, fixes the per-request random seed for
	// reproducible synthesis. When nil, every request draws a fresh seed.
	Seed *uint64

	// Logger receives operational messages. Nil means no output.
	Logger *slog.Logger
}

// Dispatcher owns the route index and drives each request through
// Received -> Matched -> Synthesized -> Emitted. It is immutable after
// construction and safe for concurrent use.
type Dispatcher struct {
	index    *match.Index
	synth    *synth.Synthesizer
	codecs   map[string]codec.Codec
	notFound *NotFound
	cors     *CORS
	seed     *uint64
	log      *slog.Logger
}

// New builds a dispatcher for a compiled route index. Every response
// format declared by a route must name a registered codec; an unknown
// format is a startup error, not a per-request one.
func New(index *match.Index, opts Options) (*Dispatcher, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	codecs := map[string]codec.Codec{"": codec.Default()}
	for _, r := range index.All() {
		format := r.Spec.Format
		if _, ok := codecs[format]; ok {
			continue
		}
		c, err := codec.ByName(format)
		if err != nil {
			return nil, fmt.Errorf("route %s %s: %w", r.Spec.Method, r.Spec.Path, err)
		}
		codecs[format] = c
	}

	return &Dispatcher{
		index:    index,
		synth:    synth.New(),
		codecs:   codecs,
		notFound: opts.NotFound,
		cors:     opts.CORS,
		seed:     opts.Seed,
		log:      log,
	}, nil
}

// Handle answers one request. It never panics and never returns an
// error: failures become 4xx/5xx responses.
func (d *Dispatcher) Handle(req Request) Response {
	if d.cors != nil && strings.EqualFold(req.Method, "OPTIONS") {
		return d.cors.preflight()
	}

	result, ok := d.index.Find(req.Method, req.Path, req.Query, req.Headers)
	if !ok {
		d.log.Debug("no route matched", "method", req.Method, "path", req.Path)
		return d.emit(d.miss(req))
	}

	spec := &result.Route.Spec
	d.log.Debug("route matched", "method", req.Method, "path", req.Path, "route", spec.Path)

	ctx := synth.NewContext(result.Params, d.resolveSeed(req))
	ctx.Query = req.Query
	ctx.Headers = req.Headers
	ctx.SequenceKey = spec.Key()
	ctx.Sequences = d.index.Sequences()
	if spec.Wildcard() {
		// A wildcard that matched zero segments still binds "*", so
		// {{param(*)}} expands to the empty string instead of failing.
		ctx.Params["*"] = result.Rest
	}

	body, err := d.synth.Synthesize(spec.Body, ctx)
	if err != nil {
		d.log.Warn("synthesis failed", "method", req.Method, "path", req.Path, "error", err)
		return d.emit(d.failure(err))
	}

	enc := d.codecs[spec.Format]
	encoded, err := enc.Encode(body)
	if err != nil {
		d.log.Warn("response encoding failed", "method", req.Method, "path", req.Path, "error", err)
		return d.emit(d.failure(err))
	}

	headers := make(map[string]string, len(spec.Headers)+1)
	for name, raw := range spec.Headers {
		expanded, err := d.synth.Expand(raw, ctx)
		if err != nil {
			d.log.Warn("header synthesis failed", "method", req.Method, "path", req.Path, "header", name, "error", err)
			return d.emit(d.failure(err))
		}
		headers[name] = expanded
	}
	if !hasHeader(headers, "Content-Type") {
		headers["Content-Type"] = enc.ContentType()
	}

	return d.emit(Response{Status: spec.Status, Headers: headers, Body: encoded})
}

// resolveSeed picks the random seed for one request. Priority: the
// request's seed header, then the configured fixed seed, then fresh
// entropy.
func (d *Dispatcher) resolveSeed(req Request) uint64 {
	if raw, ok := lookupHeader(req.Headers, SeedHeader); ok {
		if seed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return seed
		}
	}
	if d.seed != nil {
		return *d.seed
	}
	return synth.RandomSeed()
}

// miss builds the not-found response. A configured default takes
// precedence; otherwise a small diagnostic mapping is emitted.
func (d *Dispatcher) miss(req Request) Response {
	status := 404
	var headers map[string]string
	body := value.Mapping(map[string]value.Value{
		"error":  value.String("no_route"),
		"method": value.String(req.Method),
		"path":   value.String(req.Path),
	})

	if d.notFound != nil {
		if d.notFound.Status != 0 {
			status = d.notFound.Status
		}
		headers = d.notFound.Headers
		if !d.notFound.Body.IsNull() {
			body = d.notFound.Body
		}
	}

	return d.encodeJSON(status, headers, body)
}

// failure converts a synthesis or encoding error into a 500-class
// response with a diagnostic body.
func (d *Dispatcher) failure(err error) Response {
	kind := "internal_error"
	var dirErr *synth.DirectiveError
	var codecErr *codec.Error
	switch {
	case errors.As(err, &dirErr):
		kind = "directive_error"
	case errors.As(err, &codecErr):
		kind = "codec_error"
	}
	body := value.Mapping(map[string]value.Value{
		"error":   value.String(kind),
		"message": value.String(err.Error()),
	})
	return d.encodeJSON(500, nil, body)
}

// encodeJSON renders a diagnostic body with the default codec.
func (d *Dispatcher) encodeJSON(status int, headers map[string]string, body value.Value) Response {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	enc := codec.Default()
	data, err := enc.Encode(body)
	if err != nil {
		data = []byte(`{"error":"internal_error"}`)
	}
	if !hasHeader(out, "Content-Type") {
		out["Content-Type"] = enc.ContentType()
	}
	return Response{Status: status, Headers: out, Body: data}
}

// emit finalizes a response, injecting cross-origin headers when enabled.
func (d *Dispatcher) emit(res Response) Response {
	if d.cors != nil {
		if res.Headers == nil {
			res.Headers = make(map[string]string, 4)
		}
		d.cors.apply(res.Headers)
	}
	return res
}

func hasHeader(headers map[string]string, name string) bool {
	_, ok := lookupHeader(headers, name)
	return ok
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
