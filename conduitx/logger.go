package conduitx

import (
	"sync/atomic"

	"github.com/mohae/deepcopy"
)

// RequestLogger receives a snapshot of every finalized inbound context
// and every completed outbound context. Snapshots carry no transport
// handles and cannot be finalized.
type RequestLogger func(*Context)

var requestLogger atomic.Pointer[RequestLogger]

// SetRequestLogger installs f as the process-wide request logger. At most
// one logger is active at a time; setting replaces the previous one, and
// nil removes it.
func SetRequestLogger(f RequestLogger) {
	if f == nil {
		requestLogger.Store(nil)
		return
	}
	requestLogger.Store(&f)
}

func logRequest(c *Context) {
	p := requestLogger.Load()
	if p == nil {
		return
	}
	(*p)(c.snapshot())
}

// snapshot copies the exchange state and drops the transport handles.
// Headers, URL, and URLParams are copied deeply; bodies are shared by
// value since snapshots are read-only by contract.
func (c *Context) snapshot() *Context {
	done := true
	s := &Context{
		ID:       c.ID,
		Kind:     c.Kind,
		Request:  c.Request,
		Response: c.Response,
		fin:      &done,
	}
	s.Request.Header = deepcopy.Copy(c.Request.Header).(Header)
	s.Response.Header = deepcopy.Copy(c.Response.Header).(Header)
	if c.Request.URL != nil {
		u := *c.Request.URL
		s.Request.URL = &u
	}
	s.Request.URLParams = append([]string(nil), c.Request.URLParams...)
	return s
}
