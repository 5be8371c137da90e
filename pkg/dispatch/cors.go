package dispatch

import (
	"strconv"
	"strings"
)

// CORS holds the cross-origin header set injected on every emitted
// response when enabled. The zero value is unusable; DefaultCORS returns
// the permissive development defaults.
type CORS struct {
	// AllowOrigin is the Access-Control-Allow-Origin value.
	AllowOrigin string
	// AllowMethods are the verbs advertised to preflight requests.
	AllowMethods []string
	// AllowHeaders are the request headers advertised to preflight requests.
	AllowHeaders []string
	// MaxAge is the preflight cache duration in seconds.
	MaxAge int
}

// DefaultCORS returns a permissive configuration suitable for mock
// serving: any origin, all supported verbs, common request headers.
func DefaultCORS() *CORS {
	return &CORS{
		AllowOrigin:  "*",
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		MaxAge:       86400,
	}
}

// apply injects the cross-origin headers into a response header map.
func (c *CORS) apply(headers map[string]string) {
	headers["Access-Control-Allow-Origin"] = c.AllowOrigin
	headers["Access-Control-Allow-Methods"] = strings.Join(c.AllowMethods, ", ")
	headers["Access-Control-Allow-Headers"] = strings.Join(c.AllowHeaders, ", ")
	headers["Access-Control-Max-Age"] = strconv.Itoa(c.MaxAge)
}

// preflight produces the 204 short-circuit response for OPTIONS requests.
// Preflight is answered before route matching, so declared OPTIONS routes
// are only reachable when CORS is disabled.
func (c *CORS) preflight() Response {
	headers := make(map[string]string, 4)
	c.apply(headers)
	return Response{Status: 204, Headers: headers}
}
