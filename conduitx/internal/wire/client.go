package wire

import (
	"bufio"
	"strconv"
	"strings"
)

// StatusLine is the first line of a response.
type StatusLine struct {
	Proto  string
	Code   int
	Reason string
}

// ReadStatusLine parses the response status line.
func ReadStatusLine(br *bufio.Reader) (StatusLine, error) {
	line, err := readLine(br, 8<<10)
	if err != nil {
		return StatusLine{}, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/1.") {
		return StatusLine{}, ErrMalformed
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return StatusLine{}, ErrMalformed
	}
	st := StatusLine{Proto: parts[0], Code: code}
	if len(parts) == 3 {
		st.Reason = parts[2]
	}
	return st, nil
}

// ReadHeaders parses the response header block.
func ReadHeaders(br *bufio.Reader) (map[string][]string, error) {
	return readHeaderBlock(br, 8<<10)
}

// ContentLength extracts a response Content-Length, or -1 when absent
// (close-delimited body).
func ContentLength(h map[string][]string) (int64, error) {
	v := firstValue(h, "content-length")
	if v == "" {
		return -1, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0, ErrMalformed
	}
	return n, nil
}
