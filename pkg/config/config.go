// Package config reads and writes the mocker configuration file: the
// listen address, serving options and the route definitions. The file
// format is whatever the codec registry understands, detected from the
// file extension.
package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/welschmorgan/mocker/pkg/codec"
	"github.com/welschmorgan/mocker/pkg/route"
	"github.com/welschmorgan/mocker/pkg/value"
)

// DefaultFileName is the configuration file created by `mocker init`
// and looked up when no path is given.
const DefaultFileName = "mocker.json"

// Defaults applied when the file omits the listen address.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8080
)

// Config is the realized configuration: every optional field has been
// resolved to its default.
type Config struct {
	// Host is the listen interface.
	Host string

	// Port is the listen port.
	Port int

	// LogLevel and LogFormat configure the server logger.
	LogLevel  string
	LogFormat string

	// CORS enables cross-origin headers and preflight handling.
	CORS bool

	// Seed, when non-nil, fixes the synthesis seed for every request.
	Seed *uint64

	// NotFoundStatus, NotFoundHeaders and NotFoundBody override the
	// response emitted when no route matches. Zero values keep the
	// built-in diagnostic response.
	NotFoundStatus  int
	NotFoundHeaders map[string]string
	NotFoundBody    value.Value

	// Routes are the parsed route definitions, in declaration order.
	Routes []route.Spec
}

// Default returns the configuration written by `mocker init`: local
// defaults and a single health-check route.
func Default() Config {
	return Config{
		Host: DefaultHost,
		Port: DefaultPort,
		Routes: []route.Spec{
			{
				Method:  "GET",
				Path:    "/ping",
				Pattern: []route.Segment{{Kind: route.SegmentLiteral, Literal: "ping"}},
				Status:  200,
				Body: value.Mapping(map[string]value.Value{
					"ok": value.Bool(true),
				}),
			},
		},
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// parse realizes a decoded configuration document into a Config.
func parse(doc value.Value) (Config, error) {
	if doc.Kind() != value.KindMapping {
		return Config{}, fmt.Errorf("configuration root must be a mapping, got %s", doc.Kind())
	}

	cfg := Config{Host: DefaultHost, Port: DefaultPort}

	if host, ok := doc.Get("host"); ok {
		s, ok := host.AsString()
		if !ok || s == "" {
			return Config{}, fmt.Errorf("host must be a non-empty string")
		}
		cfg.Host = s
	}
	if port, ok := doc.Get("port"); ok {
		n, ok := port.AsInt()
		if !ok || n < 1 || n > 65535 {
			return Config{}, fmt.Errorf("port must be an integer in [1, 65535]")
		}
		cfg.Port = int(n)
	}

	if log, ok := doc.Get("log"); ok {
		if log.Kind() != value.KindMapping {
			return Config{}, fmt.Errorf("log must be a mapping")
		}
		if level, ok := log.Get("level"); ok {
			cfg.LogLevel, _ = level.AsString()
		}
		if format, ok := log.Get("format"); ok {
			cfg.LogFormat, _ = format.AsString()
		}
	}

	if cors, ok := doc.Get("cors"); ok {
		b, ok := cors.AsBool()
		if !ok {
			return Config{}, fmt.Errorf("cors must be a boolean")
		}
		cfg.CORS = b
	}

	if seed, ok := doc.Get("seed"); ok {
		n, ok := seed.AsInt()
		if !ok || n < 0 {
			return Config{}, fmt.Errorf("seed must be a non-negative integer")
		}
		s := uint64(n)
		cfg.Seed = &s
	}

	if nf, ok := doc.Get("not_found"); ok {
		if err := parseNotFound(nf, &cfg); err != nil {
			return Config{}, err
		}
	}

	routes, ok := doc.Get("routes")
	if !ok {
		return Config{}, fmt.Errorf("configuration must declare routes")
	}
	specs, err := route.Parse(routes)
	if err != nil {
		return Config{}, err
	}
	for i, spec := range specs {
		if spec.Format == "" {
			continue
		}
		if _, err := codec.ByName(spec.Format); err != nil {
			return Config{}, fmt.Errorf("route %d: %w", i, err)
		}
	}
	cfg.Routes = specs

	return cfg, nil
}

func parseNotFound(nf value.Value, cfg *Config) error {
	if nf.Kind() != value.KindMapping {
		return fmt.Errorf("not_found must be a mapping")
	}
	if status, ok := nf.Get("status"); ok {
		n, ok := status.AsInt()
		if !ok || n < 100 || n > 599 {
			return fmt.Errorf("not_found.status must be an integer in [100, 599]")
		}
		cfg.NotFoundStatus = int(n)
	}
	if headers, ok := nf.Get("headers"); ok {
		if headers.Kind() != value.KindMapping {
			return fmt.Errorf("not_found.headers must be a mapping of strings")
		}
		out := make(map[string]string, headers.Len())
		for _, key := range headers.Keys() {
			v, _ := headers.Get(key)
			s, ok := v.AsString()
			if !ok {
				return fmt.Errorf("not_found.headers[%q] must be a string", key)
			}
			out[key] = s
		}
		cfg.NotFoundHeaders = out
	}
	if body, ok := nf.Get("body"); ok {
		cfg.NotFoundBody = body
	}
	return nil
}

// document renders a Config back into the value model for saving.
func (c Config) document() value.Value {
	doc := map[string]value.Value{
		"host":   value.String(c.Host),
		"port":   value.Int(int64(c.Port)),
		"routes": routesDocument(c.Routes),
	}
	if c.CORS {
		doc["cors"] = value.Bool(true)
	}
	if c.Seed != nil {
		doc["seed"] = value.Int(int64(*c.Seed))
	}
	if c.LogLevel != "" || c.LogFormat != "" {
		log := map[string]value.Value{}
		if c.LogLevel != "" {
			log["level"] = value.String(c.LogLevel)
		}
		if c.LogFormat != "" {
			log["format"] = value.String(c.LogFormat)
		}
		doc["log"] = value.Mapping(log)
	}
	if nf := c.notFoundDocument(); !nf.IsNull() {
		doc["not_found"] = nf
	}
	return value.Mapping(doc)
}

func (c Config) notFoundDocument() value.Value {
	if c.NotFoundStatus == 0 && len(c.NotFoundHeaders) == 0 && c.NotFoundBody.IsNull() {
		return value.Null()
	}
	nf := map[string]value.Value{}
	if c.NotFoundStatus != 0 {
		nf["status"] = value.Int(int64(c.NotFoundStatus))
	}
	if len(c.NotFoundHeaders) > 0 {
		nf["headers"] = stringMapDocument(c.NotFoundHeaders)
	}
	if !c.NotFoundBody.IsNull() {
		nf["body"] = c.NotFoundBody
	}
	return value.Mapping(nf)
}

func routesDocument(specs []route.Spec) value.Value {
	out := make([]value.Value, 0, len(specs))
	for _, spec := range specs {
		m := map[string]value.Value{
			"method": value.String(spec.Method),
			"path":   value.String(spec.Path),
			"status": value.Int(int64(spec.Status)),
			"body":   spec.Body,
		}
		if len(spec.Headers) > 0 {
			m["headers"] = stringMapDocument(spec.Headers)
		}
		if spec.Format != "" {
			m["format"] = value.String(spec.Format)
		}
		if len(spec.MatchHeaders) > 0 || len(spec.MatchQuery) > 0 {
			match := map[string]value.Value{}
			if len(spec.MatchHeaders) > 0 {
				match["headers"] = stringMapDocument(spec.MatchHeaders)
			}
			if len(spec.MatchQuery) > 0 {
				match["query"] = stringMapDocument(spec.MatchQuery)
			}
			m["match"] = value.Mapping(match)
		}
		out = append(out, value.Mapping(m))
	}
	return value.Sequence(out...)
}

func stringMapDocument(m map[string]string) value.Value {
	out := make(map[string]value.Value, len(m))
	for k, v := range m {
		out[k] = value.String(v)
	}
	return value.Mapping(out)
}
