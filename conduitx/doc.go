// Package conduitx is a small context‑oriented layer over a raw
// socket‑level HTTP transport. It turns an inbound connection (or an
// outbound request descriptor) into a uniform Context value, routes
// inbound contexts to handlers by path pattern and method, negotiates
// JSON bodies, and finalizes responses.
//
// Highlights
//   - Context: one value per exchange, tagged Inbound or Outbound,
//     with typed Request/Response records and case‑insensitive headers.
//   - Router: regexp path patterns with full‑path matching, method
//     dispatch, capture groups as URLParams, and pass‑through stages.
//   - Negotiation: exact application/json content types serialize as
//     two‑space‑indented JSON with a trailing newline; content‑length
//     is computed from the final byte length.
//   - Sender: outbound requests over plaintext or TLS, completion and
//     transport errors delivered through a single callback.
//   - Pipeline: ordered continuation stages driven by an explicit
//     loop, so a stage that finalized the response short‑circuits
//     the rest without stack growth.
//   - Tracing: inbound contexts capture W3C traceparent/tracestate
//     headers; the sender stamps them onto outbound requests, minting
//     ids where the caller supplied none.
//   - Hook: a single process‑wide request logger receives a snapshot
//     of every finalized inbound and completed outbound context.
//
// Quick start (server):
//
//	s := &conduitx.Server{Addr: ":8080", Root: func(c *conduitx.Context) {
//	    conduitx.ProcessPipeline(c,
//	        func(c *conduitx.Context, next conduitx.Next) {
//	            if rest := conduitx.HandleOrPassURL(c, itemsRe, []string{conduitx.MethodGet}, getItem); rest != nil {
//	                next(rest)
//	            }
//	        },
//	        func(c *conduitx.Context, _ conduitx.Next) {
//	            _ = conduitx.RespondWithNotFound(c)
//	        },
//	    )
//	}}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
//
// Quick start (client):
//
//	c := conduitx.NewOutbound(conduitx.Descriptor{URL: "http://127.0.0.1:8080/items/42"})
//	conduitx.Send(c, func(res *conduitx.Context, err error) {
//	    if err != nil { log.Fatal(err) }
//	    fmt.Println(res.Response.StatusCode)
//	})
package conduitx
