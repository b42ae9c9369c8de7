// Package wire is the minimal HTTP/1.1 codec underneath the context
// layer: request parsing for the bundled server loop, head/body writing
// for response finalization, and status-line/header parsing for the
// outbound sender. Header keys are passed through as received; casing
// policy belongs to the layer above.
package wire

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

var (
	ErrMalformed      = errors.New("wire: malformed message")
	ErrHeaderTooLarge = errors.New("wire: header too large")
	ErrUnsupportedTE  = errors.New("wire: unsupported transfer encoding")
)

// ParsedRequest is one request as parsed off the wire. Body is bounded by
// Content-Length; requests without one carry an empty body.
type ParsedRequest struct {
	Method        string
	RequestURI    string
	Proto         string
	Header        map[string][]string
	ContentLength int64
	Body          io.Reader
}

type Reader struct {
	BR             *bufio.Reader
	MaxHeaderBytes int
}

func (r *Reader) ReadRequest() (*ParsedRequest, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return nil, ErrMalformed
	}
	method, uri, proto := parts[0], parts[1], parts[2]
	if !strings.HasPrefix(proto, "HTTP/1.") {
		return nil, ErrMalformed
	}
	hdr, err := readHeaderBlock(r.BR, r.limit())
	if err != nil {
		return nil, err
	}
	if hasChunkedTE(hdr) {
		// The layer above always frames by content-length.
		return nil, ErrUnsupportedTE
	}
	var cl int64
	body := io.Reader(strings.NewReader(""))
	if v := firstValue(hdr, "content-length"); v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			return nil, ErrMalformed
		}
		cl = n
		if cl > 0 {
			body = io.LimitReader(r.BR, cl)
		}
	}
	return &ParsedRequest{
		Method:        method,
		RequestURI:    uri,
		Proto:         proto,
		Header:        hdr,
		ContentLength: cl,
		Body:          body,
	}, nil
}

func (r *Reader) limit() int {
	if r.MaxHeaderBytes <= 0 {
		return 8 << 10
	}
	return r.MaxHeaderBytes
}

func (r *Reader) readLine() (string, error) {
	return readLine(r.BR, r.limit())
}

func readLine(br *bufio.Reader, limit int) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if limit > 0 && sb.Len() > limit {
			return "", ErrHeaderTooLarge
		}
	}
	return sb.String(), nil
}

func readHeaderBlock(br *bufio.Reader, limit int) (map[string][]string, error) {
	h := make(map[string][]string)
	for {
		line, err := readLine(br, limit)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, ErrMalformed
		}
		k := strings.TrimSpace(line[:i])
		v := strings.TrimSpace(line[i+1:])
		h[k] = append(h[k], v)
	}
	return h, nil
}

func firstValue(h map[string][]string, key string) string {
	for k, vv := range h {
		if strings.EqualFold(k, key) && len(vv) > 0 {
			return vv[0]
		}
	}
	return ""
}

func hasChunkedTE(h map[string][]string) bool {
	for k, vv := range h {
		if !strings.EqualFold(k, "transfer-encoding") {
			continue
		}
		for _, v := range vv {
			if strings.Contains(strings.ToLower(v), "chunked") {
				return true
			}
		}
	}
	return false
}
