package conduitx

import (
	"bufio"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"dqx0.com/go/conduit/conduitx/internal/wire"
	"dqx0.com/go/conduit/internal/obs"
)

// Server accepts raw connections and turns each request into an inbound
// Context handed to Root, typically a ProcessPipeline invocation. One
// goroutine serves one connection; the connection closes once the context
// finalizes (every response carries a computed content-length, so framing
// never needs keep-alive bookkeeping).
type Server struct {
	Addr           string
	Root           HandlerFunc
	MaxHeaderBytes int
	CORS           bool // seed contexts via NewInboundCORS
	Meter          obs.Meter

	mu sync.Mutex
	ln net.Listener
}

func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = ":8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	defer ln.Close()
	for {
		c, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.serveConn(c)
	}
}

// Close stops the accept loop. In-flight connections finish on their own.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	start := time.Now()
	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	rr := &wire.Reader{BR: br, MaxHeaderBytes: s.MaxHeaderBytes}
	pr, err := rr.ReadRequest()
	if err != nil {
		zap.S().Debugw("conduitx: request parse failed", "remote", conn.RemoteAddr().String(), "err", err)
		s.meter().Counter("conduitx_server_parse_errors_total", 1)
		_ = wire.WriteHead(bw, 400, map[string]string{"content-length": "0"})
		_ = bw.Flush()
		return
	}

	raw := &RawRequest{
		Method:     pr.Method,
		RequestURI: pr.RequestURI,
		Proto:      pr.Proto,
		Header:     pr.Header,
		RemoteAddr: conn.RemoteAddr().String(),
		Body:       pr.Body,
	}
	var c *Context
	if s.CORS {
		c = NewInboundCORS(raw, &connWriter{bw: bw})
	} else {
		c = NewInbound(raw, &connWriter{bw: bw})
	}
	s.meter().Counter("conduitx_server_requests_total", 1, obs.Label{Key: "method", Value: c.Request.Method})
	s.meter().Histogram("conduitx_server_request_bytes", float64(pr.ContentLength),
		obs.Label{Key: "method", Value: c.Request.Method})

	root := s.Root
	if root == nil {
		root = func(c *Context) { _ = RespondWithNotFound(c) }
	}
	root(c)

	s.meter().Histogram("conduitx_server_duration_seconds", time.Since(start).Seconds(),
		obs.Label{Key: "method", Value: c.Request.Method})
}

func (s *Server) meter() obs.Meter {
	if s.Meter != nil {
		return s.Meter
	}
	return obs.NopMeter{}
}

// connWriter adapts a buffered connection to the ResponseWriter seam.
type connWriter struct {
	bw        *bufio.Writer
	wroteHead bool
}

func (w *connWriter) WriteHead(status int, header Header) error {
	if w.wroteHead {
		return ErrFinalized
	}
	w.wroteHead = true
	return wire.WriteHead(w.bw, status, map[string]string(header))
}

func (w *connWriter) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

func (w *connWriter) End() error {
	return w.bw.Flush()
}
