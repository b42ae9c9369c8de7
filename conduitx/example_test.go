package conduitx

import (
	"fmt"
	"strings"
)

func ExampleHeader_Lookup() {
	h := Header{}
	h.Set("Content-Type", "application/json")

	key, value, ok := h.Lookup("CONTENT-TYPE")
	fmt.Println(key, value, ok)
	// Output: content-type application/json true
}

func ExampleProcessPipeline() {
	c := NewInbound(&RawRequest{
		Method:     "GET",
		RequestURI: "/items/7",
		Proto:      "HTTP/1.1",
		RemoteAddr: "127.0.0.1:1234",
		Body:       strings.NewReader(""),
	}, &recWriter{})

	ProcessPipeline(c,
		func(c *Context, next Next) {
			fmt.Println("stage one:", c.Request.Method, c.Request.URL.Path)
			next(nil)
		},
		func(c *Context, _ Next) {
			fmt.Println("stage two finalizes")
			_ = Respond(c)
		},
	)
	// Output:
	// stage one: get /items/7
	// stage two finalizes
}
