package conduitx

import (
	"strconv"
	"testing"
)

func TestNegotiateAbsentBody(t *testing.T) {
	payload, h, err := negotiateBody(Header{"x-k": "v"}, Body{})
	if err != nil {
		t.Fatalf("negotiateBody: %v", err)
	}
	if payload != nil {
		t.Fatalf("payload = %q", payload)
	}
	if got := h.Get("content-length"); got != "" {
		t.Fatalf("content-length = %q, want unset", got)
	}
	if got := h.Get("x-k"); got != "v" {
		t.Fatalf("explicit header lost: %q", got)
	}
}

func TestNegotiateJSONValue(t *testing.T) {
	h := Header{"content-type": "application/json"}
	payload, out, err := negotiateBody(h, ValueBody(map[string]int{"a": 1}))
	if err != nil {
		t.Fatalf("negotiateBody: %v", err)
	}
	want := "{\n  \"a\": 1\n}\n"
	if string(payload) != want {
		t.Fatalf("payload = %q, want %q", payload, want)
	}
	if got := out.Get("content-length"); got != strconv.Itoa(len(want)) {
		t.Fatalf("content-length = %q, want %d", got, len(want))
	}
}

func TestNegotiateContentLengthByteCount(t *testing.T) {
	h := Header{"content-type": "application/json"}
	payload, out, err := negotiateBody(h, ValueBody(map[string]string{"s": "héllo"}))
	if err != nil {
		t.Fatalf("negotiateBody: %v", err)
	}
	// Byte length, not rune count.
	if got := out.Get("content-length"); got != strconv.Itoa(len(payload)) {
		t.Fatalf("content-length = %q, want %d", got, len(payload))
	}
	if len(payload) == len([]rune(string(payload))) {
		t.Fatal("fixture lost its multibyte character")
	}
}

func TestNegotiateExplicitContentLengthWins(t *testing.T) {
	h := Header{"content-type": "application/json", "Content-Length": "999"}
	_, out, err := negotiateBody(h, ValueBody(map[string]int{"a": 1}))
	if err != nil {
		t.Fatalf("negotiateBody: %v", err)
	}
	if got := out.Get("content-length"); got != "999" {
		t.Fatalf("content-length = %q, want explicit 999", got)
	}
}

func TestNegotiateRawPassthrough(t *testing.T) {
	// Raw bytes pass through even under a JSON content type.
	h := Header{"content-type": "application/json"}
	payload, out, err := negotiateBody(h, RawBody([]byte(`{"x":1}`)))
	if err != nil {
		t.Fatalf("negotiateBody: %v", err)
	}
	if string(payload) != `{"x":1}` {
		t.Fatalf("payload = %q", payload)
	}
	if got := out.Get("content-length"); got != "7" {
		t.Fatalf("content-length = %q", got)
	}
}

func TestNegotiateStringValueWithoutJSONType(t *testing.T) {
	payload, _, err := negotiateBody(Header{"content-type": "text/plain"}, ValueBody("hello"))
	if err != nil {
		t.Fatalf("negotiateBody: %v", err)
	}
	if string(payload) != "hello" {
		t.Fatalf("payload = %q", payload)
	}
}

func TestNegotiateNonExactJSONType(t *testing.T) {
	// Charset-qualified content types are not the exact match the wire
	// format calls for; the value falls through to compact encoding.
	h := Header{"content-type": "application/json; charset=utf-8"}
	payload, _, err := negotiateBody(h, ValueBody(map[string]int{"a": 1}))
	if err != nil {
		t.Fatalf("negotiateBody: %v", err)
	}
	if string(payload) != `{"a":1}` {
		t.Fatalf("payload = %q", payload)
	}
}
