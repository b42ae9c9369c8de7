package conduitx

import (
	"regexp"
	"strings"
)

// HandlerFunc handles a matched inbound context. A handler is expected to
// finalize the context, directly or through a later stage, and return
// immediately afterwards.
type HandlerFunc func(*Context)

// HandleURL matches the request path against pattern; the match must
// cover the whole path. No match returns c unchanged so a later stage can
// look at it. A match with an allowed method extracts any capture groups
// into URLParams, dispatches to h, and returns nil. A match with a
// disallowed method finalizes a 405 and returns nil.
func HandleURL(c *Context, pattern *regexp.Regexp, methods []string, h HandlerFunc) *Context {
	m := matchPath(c, pattern)
	if m == nil {
		return c
	}
	if !methodAllowed(c.Request.Method, methods) {
		_ = RespondWithMethodNotAllowed(c, methods)
		return nil
	}
	dispatch(c, pattern, m, h)
	return nil
}

// HandleOrPassURL is HandleURL except that a method mismatch passes the
// context through instead of finalizing, so one pattern/method pair can
// be declared per stage. Callers wanting an aggregate 405 or 404 must
// wire a terminal fallback themselves.
func HandleOrPassURL(c *Context, pattern *regexp.Regexp, methods []string, h HandlerFunc) *Context {
	m := matchPath(c, pattern)
	if m == nil || !methodAllowed(c.Request.Method, methods) {
		return c
	}
	dispatch(c, pattern, m, h)
	return nil
}

func matchPath(c *Context, pattern *regexp.Regexp) []string {
	path := ""
	if c.Request.URL != nil {
		path = c.Request.URL.Path
	}
	m := pattern.FindStringSubmatch(path)
	if m == nil || m[0] != path {
		return nil
	}
	return m
}

func methodAllowed(method string, methods []string) bool {
	for _, m := range methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

func dispatch(c *Context, pattern *regexp.Regexp, m []string, h HandlerFunc) {
	if pattern.NumSubexp() > 0 {
		c.Request.URLParams = m[1:]
	}
	h(c)
}
