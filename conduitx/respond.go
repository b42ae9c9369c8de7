package conduitx

import (
	"fmt"
	"strings"
)

// ErrorBody is the JSON error payload used by the canned responses.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes used by the canned responses and the body collector.
const (
	CodeNotFound         = "not-found"
	CodeMethodNotAllowed = "method-not-allowed"
	CodeBadRequest       = "bad-request"
	CodeParseFailure     = "parse-failure"
)

// Respond finalizes an inbound context: negotiates the wire body, applies
// the default status (204 when the body is absent, 200 otherwise), writes
// status, headers, and body through the transport handle, and hands a
// snapshot to the request logger. The call is terminal for the context; a
// second Respond returns ErrFinalized.
func Respond(c *Context) error {
	if c.Kind != Inbound || c.w == nil {
		return ErrNotInbound
	}
	if *c.fin {
		return ErrFinalized
	}
	payload, header, err := negotiateBody(c.Response.Header, c.Response.Body)
	if err != nil {
		// Nothing reached the wire; the context may still respond.
		return err
	}
	*c.fin = true
	status := c.Response.StatusCode
	if status == 0 {
		if c.Response.Body.Present() {
			status = 200
		} else {
			status = 204
		}
	}
	if err := c.w.WriteHead(status, header); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := c.w.Write(payload); err != nil {
			return err
		}
	}
	if err := c.w.End(); err != nil {
		return err
	}
	c.Response.StatusCode = status
	c.Response.Header = header
	logRequest(c)
	return nil
}

// RespondWithNotFound finalizes a 404. The default body can be replaced
// by passing an explicit one.
func RespondWithNotFound(c *Context, body ...ErrorBody) error {
	eb := ErrorBody{Error: CodeNotFound, Message: "URL not found"}
	if len(body) > 0 {
		eb = body[0]
	}
	return Respond(AttachJSON(c, eb).WithStatus(404))
}

// RespondWithMethodNotAllowed finalizes a 405 with an Allow header
// listing the permitted methods, uppercased, in the order supplied.
func RespondWithMethodNotAllowed(c *Context, allowed []string) error {
	list := make([]string, len(allowed))
	for i, m := range allowed {
		list[i] = strings.ToUpper(m)
	}
	c.Response.Header.Set("allow", strings.Join(list, ", "))
	eb := ErrorBody{
		Error: CodeMethodNotAllowed,
		Message: fmt.Sprintf(
			"Method %s is not allowed on this URL. See the Allow header for allowed methods",
			strings.ToUpper(c.Request.Method)),
	}
	return Respond(AttachJSON(c, eb).WithStatus(405))
}

// RespondWithBadRequest finalizes a 400 with a caller-supplied error code
// and message.
func RespondWithBadRequest(c *Context, code, message string) error {
	return Respond(AttachJSON(c, ErrorBody{Error: code, Message: message}).WithStatus(400))
}

// RespondWithServerError finalizes a 500 with no body and no detail. Any
// body already attached is dropped, so it also recovers a context whose
// own body failed to encode.
func RespondWithServerError(c *Context) error {
	c2 := c.WithStatus(500)
	c2.Response.Body = Body{}
	return Respond(c2)
}
