// Package codec provides pluggable encode/decode between the Value model
// and each supported serialization format. JSON is always compiled in;
// YAML and TOML can be excluded at build time with the mocker_noyaml and
// mocker_notoml build tags. The rest of the system operates purely on
// value.Value and never branches on which format produced it.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/welschmorgan/mocker/pkg/value"
)

// Codec converts between raw bytes of one serialization format and the
// format-independent Value model.
type Codec interface {
	// Name is the canonical lowercase format name ("json", "yaml", "toml").
	Name() string

	// Extensions lists the file extensions (without dot) handled by this codec.
	Extensions() []string

	// ContentType is the MIME type emitted for response bodies in this format.
	ContentType() string

	// Encode serializes a Value.
	Encode(v value.Value) ([]byte, error)

	// Decode parses raw bytes into a Value.
	Decode(data []byte) (value.Value, error)
}

// ErrUnknownFormat is returned when no codec is registered for a name or extension.
var ErrUnknownFormat = errors.New("unknown format")

// Error wraps a codec failure with the format that produced it.
type Error struct {
	Format string
	Op     string // "encode" or "decode"
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Format, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	mu       sync.RWMutex
	registry = map[string]Codec{}
)

// Register adds a codec to the registry. Codecs self-register from init,
// so the set of available formats is fixed before main runs.
func Register(c Codec) {
	mu.Lock()
	defer mu.Unlock()
	registry[c.Name()] = c
}

// ByName returns the codec registered under the given name (case-insensitive).
func ByName(name string) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return c, nil
}

// ByExtension returns the codec handling the given file extension.
// A leading dot is accepted and ignored.
func ByExtension(ext string) (Codec, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	mu.RLock()
	defer mu.RUnlock()
	for _, c := range registry {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
}

// Default returns the JSON codec, which is always compiled in.
func Default() Codec {
	c, err := ByName("json")
	if err != nil {
		panic("codec: json codec missing from registry")
	}
	return c
}

// Names returns the registered format names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
