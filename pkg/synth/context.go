package synth

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

// Context is the per-request ephemeral state feeding directive expansion.
// It is created fresh for each request, owned exclusively by the handling
// goroutine, and discarded after the response is emitted. Only the
// Sequences store it points at is shared across requests.
type Context struct {
	// Params are the path parameters bound by route matching.
	Params map[string]string

	// Query and Headers expose request metadata to expr() directives.
	Query   map[string]string
	Headers map[string]string

	// Rand is the request-local pseudo-random source.
	Rand *mathrand.Rand

	// SequenceKey scopes bare sequence.next() calls to the matched route.
	SequenceKey string

	// Sequences is the shared counter store, owned by the route index.
	Sequences *Sequences
}

// NewContext builds a request context with a seeded PCG source.
func NewContext(params map[string]string, seed uint64) *Context {
	if params == nil {
		params = map[string]string{}
	}
	return &Context{
		Params: params,
		Rand:   mathrand.New(mathrand.NewPCG(seed, 0)),
	}
}

// RandomSeed draws a fresh seed from the operating system's entropy pool.
func RandomSeed() uint64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		// Entropy exhaustion is not a recoverable per-request condition;
		// fall back to the global generator.
		return mathrand.Uint64()
	}
	return binary.LittleEndian.Uint64(b[:])
}
