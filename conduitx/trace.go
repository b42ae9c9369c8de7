package conduitx

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// Trace is the W3C trace-context slice of an exchange. Inbound contexts
// capture it from the traceparent/tracestate headers at construction;
// the sender stamps it onto outbound requests, minting ids where the
// caller supplied none. State holds the normalized tracestate value.
type Trace struct {
	TraceID      string // 32 hex digits
	SpanID       string // 16 hex digits
	ParentSpanID string
	Flags        string // 2 hex digits, "01" when unset
	State        string
}

// Propagated reports whether the trace carries an id worth forwarding.
func (t Trace) Propagated() bool { return t.TraceID != "" }

func genTraceID() string { return genHexID(16) }
func genSpanID() string  { return genHexID(8) }

// genHexID draws n random bytes and hex-encodes them, retrying until the
// result is non-zero as traceparent requires.
func genHexID(n int) string {
	b := make([]byte, n)
	for {
		if _, err := rand.Read(b); err != nil {
			continue
		}
		zero := true
		for _, v := range b {
			if v != 0 {
				zero = false
				break
			}
		}
		if !zero {
			return hex.EncodeToString(b)
		}
	}
}

// parseTraceparent splits a traceparent header value into its trace-id,
// span-id, and flags fields. All-zero ids and malformed fields reject the
// whole value.
func parseTraceparent(v string) (traceID, spanID, flags string, ok bool) {
	parts := strings.Split(strings.TrimSpace(v), "-")
	if len(parts) < 4 {
		return "", "", "", false
	}
	ver, tid, sid, fl := parts[0], parts[1], parts[2], parts[3]
	if len(ver) != 2 || len(tid) != 32 || len(sid) != 16 || len(fl) != 2 {
		return "", "", "", false
	}
	if !isHex(ver) || !isHex(tid) || !isHex(sid) || !isHex(fl) {
		return "", "", "", false
	}
	tid, sid, fl = strings.ToLower(tid), strings.ToLower(sid), strings.ToLower(fl)
	if tid == strings.Repeat("0", 32) || sid == strings.Repeat("0", 16) {
		return "", "", "", false
	}
	return tid, sid, fl, true
}

func formatTraceparent(traceID, spanID, flags string) string {
	if flags == "" {
		flags = "01"
	}
	return "00-" + strings.ToLower(traceID) + "-" + strings.ToLower(spanID) + "-" + strings.ToLower(flags)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			continue
		}
		return false
	}
	return true
}

// traceFromHeader captures the inbound trace context: a valid traceparent
// becomes the parent of this exchange's span, and the tracestate value is
// normalized through the builder so malformed entries are dropped.
func traceFromHeader(h Header) Trace {
	var tr Trace
	if tid, sid, fl, ok := parseTraceparent(h.Get("traceparent")); ok {
		tr.TraceID = tid
		tr.ParentSpanID = sid
		tr.Flags = fl
		tr.SpanID = genSpanID()
	}
	if v := h.Get("tracestate"); v != "" {
		tr.State = NewTraceState(v).String()
	}
	return tr
}

// stampTrace writes traceparent/tracestate into an outbound header set.
// Caller-set headers win; otherwise the context's trace is continued (or
// started) with a fresh span id. The returned trace reflects what went on
// the wire.
func stampTrace(h Header, tr Trace) Trace {
	if h.Get("traceparent") != "" {
		return tr
	}
	if tr.TraceID == "" {
		tr.TraceID = genTraceID()
	} else {
		tr.ParentSpanID = tr.SpanID
	}
	tr.SpanID = genSpanID()
	h.Set("traceparent", formatTraceparent(tr.TraceID, tr.SpanID, tr.Flags))
	if h.Get("tracestate") == "" && tr.State != "" {
		h.Set("tracestate", tr.State)
	}
	return tr
}
