package conduitx

import "strings"

// Header is a case-insensitive, single-valued header mapping. Inbound
// contexts normalize keys to lowercase at construction; outbound request
// headers are normalized at send time.
type Header map[string]string

// Lookup returns the stored key and value for key. It tries an exact
// match first and falls back to a case-folded scan over all pairs.
func (h Header) Lookup(key string) (string, string, bool) {
	if h == nil {
		return "", "", false
	}
	if v, ok := h[key]; ok {
		return key, v, true
	}
	lk := strings.ToLower(key)
	for k, v := range h {
		if strings.ToLower(k) == lk {
			return k, v, true
		}
	}
	return "", "", false
}

// Get is the value-only projection of Lookup.
func (h Header) Get(key string) string {
	_, v, _ := h.Lookup(key)
	return v
}

// Set stores value under the lowercase form of key.
func (h Header) Set(key, value string) {
	if h == nil {
		return
	}
	h[strings.ToLower(key)] = value
}

// Clone returns a copy of h. A nil header clones to an empty one.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Merge copies entries of other into h, skipping keys already present
// under any casing. Existing entries win.
func (h Header) Merge(other Header) {
	for k, v := range other {
		if _, _, ok := h.Lookup(k); ok {
			continue
		}
		h[k] = v
	}
}

// Normalized returns a copy of h with every key lowercased.
func (h Header) Normalized() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = v
	}
	return out
}
