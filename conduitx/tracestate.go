package conduitx

import "strings"

// TraceState builds and normalizes a W3C tracestate header value:
// comma-separated key=value entries, most recently set first, with
// malformed or duplicate entries dropped on parse.
type TraceState struct {
	order []string
	kv    map[string]string
}

// NewTraceState parses an existing tracestate value. Invalid entries are
// skipped; on duplicate keys the first occurrence wins.
func NewTraceState(v string) *TraceState {
	ts := &TraceState{kv: make(map[string]string)}
	for _, part := range strings.Split(strings.TrimSpace(v), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.IndexByte(part, '=')
		if i <= 0 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(part[:i]))
		val := strings.TrimSpace(part[i+1:])
		if !validTraceStateKey(k) || !validTraceStateValue(val) {
			continue
		}
		if _, ok := ts.kv[k]; ok {
			continue
		}
		ts.kv[k] = val
		ts.order = append(ts.order, k)
	}
	return ts
}

// Set inserts or updates key, moving it to the front. It reports whether
// the pair was accepted.
func (ts *TraceState) Set(key, value string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	v := strings.TrimSpace(value)
	if !validTraceStateKey(k) || !validTraceStateValue(v) {
		return false
	}
	if _, ok := ts.kv[k]; ok {
		for i, ek := range ts.order {
			if ek == k {
				ts.order = append(ts.order[:i], ts.order[i+1:]...)
				break
			}
		}
	}
	ts.kv[k] = v
	ts.order = append([]string{k}, ts.order...)
	return true
}

// String renders the entries in order.
func (ts *TraceState) String() string {
	if len(ts.order) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range ts.order {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(ts.kv[k])
	}
	return sb.String()
}

// Keys are lowercase a-z0-9 plus _-*/. in "key" or "key@tenant" form.
func validTraceStateKey(k string) bool {
	if k == "" {
		return false
	}
	parts := strings.Split(k, "@")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for i := 0; i < len(p); i++ {
			c := p[i]
			if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
				c == '_' || c == '-' || c == '*' || c == '/' || c == '.' {
				continue
			}
			return false
		}
	}
	return true
}

// Values may not contain control characters or commas.
func validTraceStateValue(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c < 0x20 || c == 0x7f || c == ',' {
			return false
		}
	}
	return true
}
