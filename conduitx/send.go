package conduitx

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"dqx0.com/go/conduit/conduitx/internal/wire"
	"dqx0.com/go/conduit/internal/obs"
)

// CompleteFunc receives the outcome of Send: the merged context on
// success, or the transport error with a nil context. Exactly one of the
// two is non-nil, and it is delivered exactly once per Send.
type CompleteFunc func(*Context, error)

// Sender issues outbound contexts over raw connections. The zero value
// is usable; DefaultSender backs the package-level Send.
type Sender struct {
	DialTimeout time.Duration
	Plain       Dialer // defaults to PlainDialer
	Secure      Dialer // defaults to TLSDialer
	Meter       obs.Meter
}

// DefaultSender is used by the package-level Send.
var DefaultSender = &Sender{DialTimeout: 5 * time.Second}

// Send issues c through DefaultSender.
func Send(c *Context, done CompleteFunc) {
	DefaultSender.Send(c, done)
}

// Send resolves the context's destination, writes the request with
// negotiated headers and body, and reads the response head. The merged
// context — response headers, protocol version, status code and message
// folded into a copy of c — goes to the request logger and then to done.
// The response body stream stays attached for CollectBody. Transport
// failures are reported through done, never returned.
func (s *Sender) Send(c *Context, done CompleteFunc) {
	if c.Kind != Outbound {
		done(nil, ErrNotOutbound)
		return
	}
	t, err := resolveTarget(c.desc)
	if err != nil {
		s.fail(done, "resolve", err)
		return
	}
	header := c.Request.Header.Normalized()
	trace := stampTrace(header, c.Trace)
	payload, header, err := negotiateBody(header, c.Request.Body)
	if err != nil {
		s.fail(done, "negotiate", err)
		return
	}
	method := strings.ToUpper(c.Request.Method)
	if method == "" {
		method = "GET"
	}
	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))
	conn, err := s.dialer(t.secure).Dial(addr)
	if err != nil {
		s.fail(done, "dial", err)
		return
	}
	s.meter().Counter("conduitx_client_requests_total", 1, obs.Label{Key: "method", Value: method})
	start := time.Now()

	bw := bufio.NewWriter(conn)
	if err := wire.WriteRequest(bw, method, t.path, t.host, map[string]string(header), payload); err != nil {
		_ = conn.Close()
		s.fail(done, "write", err)
		return
	}

	br := bufio.NewReader(conn)
	st, err := wire.ReadStatusLine(br)
	if err != nil {
		_ = conn.Close()
		s.fail(done, "read_status", err)
		return
	}
	rh, err := wire.ReadHeaders(br)
	if err != nil {
		_ = conn.Close()
		s.fail(done, "read_headers", err)
		return
	}
	cl, err := wire.ContentLength(rh)
	if err != nil {
		_ = conn.Close()
		s.fail(done, "read_headers", err)
		return
	}

	merged := *c
	merged.Trace = trace
	merged.Request.Method = strings.ToLower(method)
	merged.Request.Header = header
	merged.Request.URL = parseWirePath(t.path)
	merged.Response.Header = make(Header, len(rh))
	for k, vv := range rh {
		merged.Response.Header[strings.ToLower(k)] = strings.Join(vv, ", ")
	}
	merged.Response.StatusCode = st.Code
	merged.Response.Status = st.Reason
	merged.Response.Proto = st.Proto
	if cl >= 0 {
		merged.stream = io.LimitReader(br, cl)
	} else {
		merged.stream = br // close-delimited
	}
	merged.release = conn.Close

	s.meter().Counter("conduitx_client_responses_total", 1,
		obs.Label{Key: "status", Value: strconv.Itoa(st.Code)})
	s.meter().Histogram("conduitx_client_roundtrip_seconds", time.Since(start).Seconds(),
		obs.Label{Key: "method", Value: method})

	logRequest(&merged)
	done(&merged, nil)
}

func (s *Sender) fail(done CompleteFunc, stage string, err error) {
	zap.S().Warnw("conduitx: send failed", "stage", stage, "err", err)
	s.meter().Counter("conduitx_client_errors_total", 1, obs.Label{Key: "stage", Value: stage})
	done(nil, err)
}

func (s *Sender) dialer(secure bool) Dialer {
	if secure {
		if s.Secure != nil {
			return s.Secure
		}
		return TLSDialer{Timeout: s.DialTimeout}
	}
	if s.Plain != nil {
		return s.Plain
	}
	return PlainDialer{Timeout: s.DialTimeout}
}

func (s *Sender) meter() obs.Meter {
	if s.Meter != nil {
		return s.Meter
	}
	return obs.NopMeter{}
}

// parseWirePath structures the request-target written to the wire so the
// merged context's URL separates path, query, and fragment.
func parseWirePath(path string) *url.URL {
	u, err := url.Parse(path)
	if err != nil {
		return &url.URL{Path: path}
	}
	return u
}

type target struct {
	secure bool
	host   string
	port   int
	path   string
}

// resolveTarget merges the parsed URL (when the descriptor carries one)
// with the descriptor's explicit fields; explicit fields win over the
// derived ones.
func resolveTarget(d Descriptor) (target, error) {
	var t target
	if d.URL != "" {
		u, err := url.Parse(d.URL)
		if err != nil {
			return t, fmt.Errorf("conduitx: parse destination url: %w", err)
		}
		t.secure = u.Scheme == "https"
		t.host = u.Hostname()
		if p := u.Port(); p != "" {
			t.port, _ = strconv.Atoi(p)
		}
		t.path = u.RequestURI()
		if u.Fragment != "" {
			t.path += "#" + u.Fragment
		}
	}
	if d.Protocol != "" {
		t.secure = strings.Trim(d.Protocol, ":") == "https"
	}
	if d.Host != "" {
		t.host = d.Host
	}
	if d.Port != 0 {
		t.port = d.Port
	}
	if d.Path != "" {
		t.path = d.Path
	}
	if t.host == "" {
		return t, ErrNoDestination
	}
	if t.path == "" {
		t.path = "/"
	}
	if t.port == 0 {
		if t.secure {
			t.port = 443
		} else {
			t.port = 80
		}
	}
	return t, nil
}
