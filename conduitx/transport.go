package conduitx

import (
	"crypto/tls"
	"net"
	"strings"
	"time"
)

// ResponseWriter is the writable side of an inbound transport handle.
type ResponseWriter interface {
	// WriteHead writes the status line and headers.
	WriteHead(status int, header Header) error
	// Write appends body bytes after WriteHead.
	Write(p []byte) (int, error)
	// End flushes the response and releases the handle.
	End() error
}

// Dialer opens a raw connection to an outbound destination. Two
// implementations are bundled; Send selects between them by scheme.
type Dialer interface {
	Dial(addr string) (net.Conn, error)
}

// PlainDialer dials cleartext TCP.
type PlainDialer struct {
	Timeout time.Duration
}

func (d PlainDialer) Dial(addr string) (net.Conn, error) {
	nd := net.Dialer{Timeout: d.Timeout}
	return nd.Dial("tcp", addr)
}

// TLSDialer dials TLS over TCP with SNI derived from addr.
type TLSDialer struct {
	Timeout time.Duration
	Config  *tls.Config
}

func (d TLSDialer) Dial(addr string) (net.Conn, error) {
	cfg := d.Config
	if cfg == nil {
		cfg = &tls.Config{}
	}
	if cfg.ServerName == "" {
		cfg = cfg.Clone()
		cfg.ServerName = hostNoPort(addr)
	}
	if len(cfg.NextProtos) == 0 {
		cfg = cfg.Clone()
		cfg.NextProtos = []string{"http/1.1"}
	}
	return tls.DialWithDialer(&net.Dialer{Timeout: d.Timeout}, "tcp", addr, cfg)
}

func hostNoPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	// SplitHostPort already unbrackets; this covers bare "[::1]" inputs.
	return strings.Trim(h, "[]")
}
