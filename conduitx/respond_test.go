package conduitx

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

// recWriter records what Respond writes through the transport handle.
type recWriter struct {
	status int
	header Header
	body   bytes.Buffer
	ended  bool
}

func (w *recWriter) WriteHead(status int, header Header) error {
	w.status = status
	w.header = header
	return nil
}

func (w *recWriter) Write(p []byte) (int, error) { return w.body.Write(p) }

func (w *recWriter) End() error {
	w.ended = true
	return nil
}

func newTestInbound(method, target string) (*Context, *recWriter) {
	w := &recWriter{}
	c := NewInbound(&RawRequest{
		Method:     method,
		RequestURI: target,
		Proto:      "HTTP/1.1",
		RemoteAddr: "127.0.0.1:1234",
		Body:       strings.NewReader(""),
	}, w)
	return c, w
}

func TestRespondDefaults204(t *testing.T) {
	c, w := newTestInbound("GET", "/")
	if err := Respond(c); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if w.status != 204 {
		t.Fatalf("status = %d, want 204", w.status)
	}
	if got := w.header.Get("content-length"); got != "" {
		t.Fatalf("content-length = %q, want unset", got)
	}
	if w.body.Len() != 0 {
		t.Fatalf("body = %q", w.body.String())
	}
	if !w.ended {
		t.Fatal("handle not ended")
	}
}

func TestRespondJSONBody(t *testing.T) {
	c, w := newTestInbound("GET", "/")
	AttachJSON(c, map[string]int{"a": 1})
	if err := Respond(c); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if w.status != 200 {
		t.Fatalf("status = %d, want 200", w.status)
	}
	want := "{\n  \"a\": 1\n}\n"
	if w.body.String() != want {
		t.Fatalf("body = %q, want %q", w.body.String(), want)
	}
	if got := w.header.Get("content-length"); got != strconv.Itoa(len(want)) {
		t.Fatalf("content-length = %q, want %d", got, len(want))
	}
}

func TestRespondKeepsExplicitStatus(t *testing.T) {
	c, w := newTestInbound("GET", "/")
	if err := Respond(AttachJSON(c, "x").WithStatus(201)); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if w.status != 201 {
		t.Fatalf("status = %d, want 201", w.status)
	}
}

func TestRespondTwiceReturnsErrFinalized(t *testing.T) {
	c, w := newTestInbound("GET", "/")
	if err := Respond(c); err != nil {
		t.Fatalf("first Respond: %v", err)
	}
	before := w.body.Len()
	if err := Respond(c); err != ErrFinalized {
		t.Fatalf("second Respond = %v, want ErrFinalized", err)
	}
	if w.body.Len() != before {
		t.Fatal("second Respond wrote body bytes")
	}
}

func TestRespondRejectsOutbound(t *testing.T) {
	c := NewOutbound(Descriptor{Host: "h"})
	if err := Respond(c); err != ErrNotInbound {
		t.Fatalf("Respond = %v, want ErrNotInbound", err)
	}
}

func TestRespondWithNotFound(t *testing.T) {
	c, w := newTestInbound("GET", "/missing")
	if err := RespondWithNotFound(c); err != nil {
		t.Fatalf("RespondWithNotFound: %v", err)
	}
	if w.status != 404 {
		t.Fatalf("status = %d", w.status)
	}
	body := w.body.String()
	if gjson.Get(body, "error").String() != CodeNotFound {
		t.Fatalf("body = %q", body)
	}
	if gjson.Get(body, "message").String() != "URL not found" {
		t.Fatalf("body = %q", body)
	}
}

func TestRespondWithMethodNotAllowed(t *testing.T) {
	c, w := newTestInbound("DELETE", "/items/42")
	if err := RespondWithMethodNotAllowed(c, []string{MethodGet, MethodPost}); err != nil {
		t.Fatalf("RespondWithMethodNotAllowed: %v", err)
	}
	if w.status != 405 {
		t.Fatalf("status = %d", w.status)
	}
	if got := w.header.Get("allow"); got != "GET, POST" {
		t.Fatalf("allow = %q", got)
	}
	body := w.body.String()
	if gjson.Get(body, "error").String() != CodeMethodNotAllowed {
		t.Fatalf("body = %q", body)
	}
	msg := gjson.Get(body, "message").String()
	if !strings.Contains(msg, "Method DELETE is not allowed") {
		t.Fatalf("message = %q", msg)
	}
}

func TestRespondWithBadRequest(t *testing.T) {
	c, w := newTestInbound("POST", "/")
	if err := RespondWithBadRequest(c, CodeBadRequest, "nope"); err != nil {
		t.Fatalf("RespondWithBadRequest: %v", err)
	}
	if w.status != 400 {
		t.Fatalf("status = %d", w.status)
	}
	if gjson.Get(w.body.String(), "message").String() != "nope" {
		t.Fatalf("body = %q", w.body.String())
	}
}

func TestRespondEncodeFailureLeavesContextOpen(t *testing.T) {
	c, w := newTestInbound("GET", "/")
	// Channels have no JSON encoding, so negotiation fails before any
	// bytes reach the wire.
	AttachJSON(c, make(chan int))
	if err := Respond(c); err == nil {
		t.Fatal("Respond succeeded with an unencodable body")
	}
	if w.status != 0 || w.body.Len() != 0 {
		t.Fatalf("bytes reached the wire: status %d, body %q", w.status, w.body.String())
	}
	if err := RespondWithServerError(c); err != nil {
		t.Fatalf("RespondWithServerError after encode failure: %v", err)
	}
	if w.status != 500 {
		t.Fatalf("status = %d, want 500", w.status)
	}
	if w.body.Len() != 0 {
		t.Fatalf("body = %q, want empty", w.body.String())
	}
}

func TestRespondWithServerError(t *testing.T) {
	c, w := newTestInbound("GET", "/")
	if err := RespondWithServerError(c); err != nil {
		t.Fatalf("RespondWithServerError: %v", err)
	}
	if w.status != 500 {
		t.Fatalf("status = %d", w.status)
	}
	if w.body.Len() != 0 {
		t.Fatalf("body = %q, want empty", w.body.String())
	}
}

func TestRespondInvokesRequestLogger(t *testing.T) {
	defer SetRequestLogger(nil)
	var got *Context
	SetRequestLogger(func(c *Context) { got = c })

	c, _ := newTestInbound("GET", "/")
	if err := Respond(AttachJSON(c, "ok")); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got == nil {
		t.Fatal("logger not invoked")
	}
	if got.Response.StatusCode != 200 {
		t.Fatalf("snapshot status = %d", got.Response.StatusCode)
	}
	if got.ID != c.ID || got.Kind != Inbound {
		t.Fatalf("snapshot identity = (%q, %v)", got.ID, got.Kind)
	}
	// Snapshots carry no transport handles and cannot be finalized again.
	if err := Respond(got); err == nil {
		t.Fatal("snapshot Respond succeeded")
	}
	// Mutating the snapshot must not touch the live context.
	got.Request.Header.Set("x-mutate", "1")
	if c.Request.Header.Get("x-mutate") != "" {
		t.Fatal("snapshot shares header map with live context")
	}
}

func TestSetRequestLoggerLastWriteWins(t *testing.T) {
	defer SetRequestLogger(nil)
	first, second := 0, 0
	SetRequestLogger(func(*Context) { first++ })
	SetRequestLogger(func(*Context) { second++ })

	c, _ := newTestInbound("GET", "/")
	_ = Respond(c)
	if first != 0 || second != 1 {
		t.Fatalf("logger calls = (%d, %d), want (0, 1)", first, second)
	}
}
