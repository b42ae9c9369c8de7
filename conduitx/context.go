package conduitx

import (
	"io"
	"net"
	"net/url"
	"strings"
)

// Kind tags the direction of a Context.
type Kind int

const (
	Inbound Kind = iota
	Outbound
)

func (k Kind) String() string {
	if k == Inbound {
		return "inbound"
	}
	return "outbound"
}

// Method tokens. Inbound methods are lowercased into this form at context
// construction; routing compares case-insensitively against these.
const (
	MethodGet     = "get"
	MethodHead    = "head"
	MethodPost    = "post"
	MethodPut     = "put"
	MethodPatch   = "patch"
	MethodDelete  = "delete"
	MethodOptions = "options"
)

const contentTypeJSON = "application/json"

// RawRequest is what the underlying transport hands the context factory.
type RawRequest struct {
	Method     string
	RequestURI string
	Proto      string
	Header     map[string][]string
	RemoteAddr string
	Body       io.Reader
}

// Request is the request half of a Context.
type Request struct {
	Method    string
	URL       *url.URL
	Header    Header
	Body      Body
	ClientIP  string   // inbound only
	URLParams []string // set by a route match with capture groups
}

// Response is the response half of a Context.
type Response struct {
	Header     Header
	StatusCode int    // 0 until set
	Status     string // reason phrase, filled on outbound completion
	Proto      string // protocol version, filled on outbound completion
	Body       Body
}

// Descriptor describes an outbound request. URL, when set, is parsed at
// send time into protocol, host, port, and path; the explicit fields
// below take precedence over the parsed ones. Protocol accepts "https"
// with or without a colon on either side.
type Descriptor struct {
	URL      string
	Protocol string
	Host     string
	Port     int
	Path     string
	Method   string
	Header   Header
	Body     Body
}

// Context is the unit of state for one exchange. Inbound contexts own
// their transport handles until Respond releases them; outbound contexts
// are mutated once, when the response arrives, and then handed to the
// caller's callback.
type Context struct {
	ID    string
	Kind  Kind
	Trace Trace

	Request  Request
	Response Response

	desc    Descriptor     // outbound only
	w       ResponseWriter // inbound only
	stream  io.Reader      // inbound request body / outbound response body
	release func() error   // closes the outbound connection, if any
	fin     *bool          // shared across WithStatus copies
}

// NewInbound builds an inbound Context from a raw transport request and
// the matching response handle. Header keys and the method are
// lowercased; duplicate header values are comma-joined. ClientIP is
// derived from the connection's remote address with the port stripped.
func NewInbound(raw *RawRequest, w ResponseWriter) *Context {
	u, err := url.Parse(raw.RequestURI)
	if err != nil {
		u = &url.URL{Path: raw.RequestURI}
	}
	h := make(Header, len(raw.Header))
	for k, vv := range raw.Header {
		h[strings.ToLower(k)] = strings.Join(vv, ", ")
	}
	return &Context{
		ID:    NewID(),
		Kind:  Inbound,
		Trace: traceFromHeader(h),
		Request: Request{
			Method:   strings.ToLower(raw.Method),
			URL:      u,
			Header:   h,
			ClientIP: clientIP(raw.RemoteAddr),
		},
		Response: Response{Header: Header{}},
		w:        w,
		stream:   raw.Body,
		fin:      new(bool),
	}
}

// NewInboundCORS is NewInbound plus the permissive cross-origin header
// set stamped on the response via AddCORSHeaders.
func NewInboundCORS(raw *RawRequest, w ResponseWriter) *Context {
	return AddCORSHeaders(NewInbound(raw, w))
}

// NewOutbound wraps a request descriptor. The response half stays empty
// until Send completes; request headers are normalized at send time.
func NewOutbound(d Descriptor) *Context {
	h := d.Header
	if h == nil {
		h = Header{}
	}
	return &Context{
		ID:   NewID(),
		Kind: Outbound,
		Request: Request{
			Method: strings.ToLower(d.Method),
			Header: h,
			Body:   d.Body,
		},
		Response: Response{Header: Header{}},
		desc:     d,
		fin:      new(bool),
	}
}

// WithStatus returns a copy of c with the response status code set. The
// copy shares headers and transport handles with the original.
func (c *Context) WithStatus(code int) *Context {
	c2 := *c
	c2.Response.StatusCode = code
	return &c2
}

// AttachJSON sets an application/json content type and attaches v as the
// body on the side that goes out on the wire: the response for inbound
// contexts, the request for outbound ones. An outbound context with no
// method yet is forced to POST, the common case for a JSON payload.
func AttachJSON(c *Context, v any) *Context {
	if c.Kind == Inbound {
		c.Response.Header.Set("content-type", contentTypeJSON)
		c.Response.Body = ValueBody(v)
		return c
	}
	c.Request.Header.Set("content-type", contentTypeJSON)
	c.Request.Body = ValueBody(v)
	if c.Request.Method == "" {
		c.Request.Method = MethodPost
	}
	return c
}

// Close releases any transport handle still owned by the context. Needed
// only for outbound contexts whose response body was never collected.
func (c *Context) Close() error {
	if c.release == nil {
		return nil
	}
	rel := c.release
	c.release = nil
	return rel()
}

// clientIP strips the port from a transport remote address and unwraps
// IPv6-mapped IPv4 forms such as "::ffff:127.0.0.1".
func clientIP(remote string) string {
	host := remote
	if h, _, err := net.SplitHostPort(remote); err == nil {
		host = h
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		return host[i+1:]
	}
	return host
}
