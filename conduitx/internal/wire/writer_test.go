package wire

import (
	"bufio"
	"strings"
	"testing"
)

func TestWriteHead(t *testing.T) {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	err := WriteHead(bw, 404, map[string]string{"content-type": "application/json", "content-length": "28"})
	if err != nil {
		t.Fatalf("WriteHead: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "HTTP/1.1 404 Not Found\r\n") {
		t.Fatalf("status line wrong: %q", out)
	}
	if !strings.Contains(out, "content-type: application/json\r\n") {
		t.Fatalf("missing content-type: %q", out)
	}
	if !strings.Contains(out, "Connection: close\r\n") {
		t.Fatalf("missing connection header: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\n") {
		t.Fatalf("head not terminated: %q", out)
	}
}

func TestWriteHeadKeepsCallerConnection(t *testing.T) {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	_ = WriteHead(bw, 200, map[string]string{"connection": "close"})
	_ = bw.Flush()
	if strings.Count(sb.String(), "onnection:") != 1 {
		t.Fatalf("duplicate connection header: %q", sb.String())
	}
}

func TestWriteRequest(t *testing.T) {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	err := WriteRequest(bw, "POST", "/echo", "example.com",
		map[string]string{"content-type": "application/json", "content-length": "2"}, []byte("{}"))
	if err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "POST /echo HTTP/1.1\r\n") {
		t.Fatalf("request line wrong: %q", out)
	}
	if !strings.Contains(out, "Host: example.com\r\n") {
		t.Fatalf("missing host: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\n{}") {
		t.Fatalf("body placement wrong: %q", out)
	}
}

func TestWriteRequestKeepsCallerHost(t *testing.T) {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	_ = WriteRequest(bw, "GET", "/", "fallback.example", map[string]string{"host": "override.example"}, nil)
	out := sb.String()
	if strings.Contains(out, "fallback.example") {
		t.Fatalf("derived host written despite explicit header: %q", out)
	}
	if !strings.Contains(out, "host: override.example\r\n") {
		t.Fatalf("explicit host missing: %q", out)
	}
}

func TestSanitizeValue(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"split\r\nx-evil: 1", "splitx-evil: 1"},
		{"tab\tok", "tab\tok"},
		{"ctrl\x01gone", "ctrlgone"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeValue(tt.in); got != tt.want {
			t.Errorf("sanitizeValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReasonPhrase(t *testing.T) {
	if got := ReasonPhrase(405); got != "Method Not Allowed" {
		t.Fatalf("405 = %q", got)
	}
	if got := ReasonPhrase(999); got != "Status" {
		t.Fatalf("999 = %q", got)
	}
}
