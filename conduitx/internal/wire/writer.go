package wire

import (
	"bufio"
	"fmt"
	"strings"
)

// WriteHead writes the status line and headers of a response. The
// connection is close-delimited; a Connection header is written unless
// the caller already set one.
func WriteHead(bw *bufio.Writer, status int, header map[string]string) error {
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, ReasonPhrase(status)); err != nil {
		return err
	}
	if err := writeHeaderBlock(bw, header); err != nil {
		return err
	}
	_, err := fmt.Fprint(bw, "\r\n")
	return err
}

// WriteRequest writes a complete close-delimited request: request line,
// host header (unless the caller supplied one), headers, and body.
func WriteRequest(bw *bufio.Writer, method, path, host string, header map[string]string, body []byte) error {
	if _, err := fmt.Fprintf(bw, "%s %s HTTP/1.1\r\n", method, path); err != nil {
		return err
	}
	if !hasKey(header, "host") {
		if _, err := fmt.Fprintf(bw, "Host: %s\r\n", host); err != nil {
			return err
		}
	}
	if err := writeHeaderBlock(bw, header); err != nil {
		return err
	}
	if _, err := fmt.Fprint(bw, "\r\n"); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := bw.Write(body); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeHeaderBlock(bw *bufio.Writer, header map[string]string) error {
	for k, v := range header {
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", k, sanitizeValue(v)); err != nil {
			return err
		}
	}
	if !hasKey(header, "connection") {
		if _, err := fmt.Fprint(bw, "Connection: close\r\n"); err != nil {
			return err
		}
	}
	return nil
}

func hasKey(header map[string]string, key string) bool {
	for k := range header {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// ReasonPhrase maps a status code to its standard reason phrase.
func ReasonPhrase(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	default:
		return "Status"
	}
}

func sanitizeValue(v string) string {
	if v == "" {
		return v
	}
	// Remove CR/LF and control chars except HTAB.
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
