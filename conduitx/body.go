package conduitx

type bodyKind int

const (
	bodyAbsent bodyKind = iota
	bodyRaw
	bodyValue
)

// Body is the canonical in-context body representation: absent, raw bytes
// straight off the wire, or a decoded/attached structure. Raw bytes only
// become a value through CollectJSONBody; handlers attach values through
// AttachJSON or the canned responses.
type Body struct {
	kind  bodyKind
	raw   []byte
	value any
}

// RawBody wraps collected wire bytes.
func RawBody(p []byte) Body { return Body{kind: bodyRaw, raw: p} }

// ValueBody wraps a decoded or caller-built structure.
func ValueBody(v any) Body { return Body{kind: bodyValue, value: v} }

// Present reports whether the body carries anything.
func (b Body) Present() bool { return b.kind != bodyAbsent }

// Raw returns the wire bytes, or nil when the body is absent or decoded.
func (b Body) Raw() []byte {
	if b.kind == bodyRaw {
		return b.raw
	}
	return nil
}

// Text returns the wire bytes as a string.
func (b Body) Text() string { return string(b.Raw()) }

// Value returns the decoded structure, or nil.
func (b Body) Value() any {
	if b.kind == bodyValue {
		return b.value
	}
	return nil
}
