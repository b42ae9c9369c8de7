package conduitx

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// negotiateBody computes the wire payload for a body and the final header
// set. A decoded value under a content type of exactly application/json
// is serialized with two-space indentation and a trailing newline; raw
// bodies pass through untouched. The returned headers are the explicit
// ones plus a computed content-length, which never overrides an explicit
// content-length already present.
func negotiateBody(h Header, b Body) ([]byte, Header, error) {
	out := h.Clone()
	if !b.Present() {
		return nil, out, nil
	}
	payload, err := encodeBody(out, b)
	if err != nil {
		return nil, nil, err
	}
	out.Merge(Header{"content-length": strconv.Itoa(len(payload))})
	return payload, out, nil
}

func encodeBody(h Header, b Body) ([]byte, error) {
	if b.kind == bodyRaw {
		return b.raw, nil
	}
	if h.Get("content-type") == contentTypeJSON {
		p, err := json.MarshalIndent(b.value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("conduitx: encode json body: %w", err)
		}
		return append(p, '\n'), nil
	}
	switch v := b.value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}
	// Structured value without a JSON content type: compact JSON is the
	// only total encoding available.
	p, err := json.Marshal(b.value)
	if err != nil {
		return nil, fmt.Errorf("conduitx: encode body: %w", err)
	}
	return p, nil
}
