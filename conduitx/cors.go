package conduitx

import "strings"

// DefaultCORSAllowHeaders is the allowed-header set used when
// AddCORSHeaders is called without an explicit list.
var DefaultCORSAllowHeaders = []string{
	"accept",
	"accept-version",
	"api-version",
	"authorization",
	"content-range",
	"content-type",
	"origin",
	"range",
	"x-requested-with",
}

// corsMaxAge is 20 days, in seconds.
const corsMaxAge = "1728000"

// AddCORSHeaders merges a permissive cross-origin header set into the
// response: wildcard origin, credentials, the allowed header names as
// both allow and expose lists, and a preflight max-age.
func AddCORSHeaders(c *Context, allowed ...string) *Context {
	if len(allowed) == 0 {
		allowed = DefaultCORSAllowHeaders
	}
	list := strings.Join(allowed, ", ")
	h := c.Response.Header
	h.Set("access-control-allow-origin", "*")
	h.Set("access-control-allow-credentials", "true")
	h.Set("access-control-allow-headers", list)
	h.Set("access-control-expose-headers", list)
	h.Set("access-control-max-age", corsMaxAge)
	return c
}
