package conduitx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

const collectChunkSize = 4 << 10

// CollectBody drains the context's wire stream into a single raw body —
// the request body for inbound contexts, the response body for outbound
// ones — and then invokes cont with the updated context.
func CollectBody(c *Context, cont func(*Context)) error {
	raw, err := c.drainStream()
	if err != nil {
		return err
	}
	if c.Kind == Inbound {
		c.Request.Body = RawBody(raw)
	} else {
		c.Response.Body = RawBody(raw)
	}
	cont(c)
	return nil
}

// CollectJSONBody collects the raw body and decodes it as JSON. On an
// inbound context a malformed document finalizes a 400 parse-failure
// response and cont is never invoked; on an outbound context the decode
// failure is returned as an error.
func CollectJSONBody(c *Context, cont func(*Context)) error {
	raw, err := c.drainStream()
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(raw) {
		return c.failParse()
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return c.failParse()
	}
	if c.Kind == Inbound {
		c.Request.Body = ValueBody(v)
	} else {
		c.Response.Body = ValueBody(v)
	}
	cont(c)
	return nil
}

func (c *Context) drainStream() ([]byte, error) {
	if c.stream == nil {
		return nil, ErrNoBodyStream
	}
	var buf bytes.Buffer
	chunk := make([]byte, collectChunkSize)
	for {
		n, err := c.stream.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("conduitx: collect body: %w", err)
		}
	}
	_ = c.Close()
	return buf.Bytes(), nil
}

func (c *Context) failParse() error {
	if c.Kind == Inbound {
		return RespondWithBadRequest(c, CodeParseFailure, "Request body is not valid JSON")
	}
	return fmt.Errorf("conduitx: %s body is not valid json", c.Kind)
}
