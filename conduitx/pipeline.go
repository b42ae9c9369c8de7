package conduitx

// Stage is one pipeline step. It receives the current context and a next
// continuation; a stage that does not call next ends the chain, which is
// how a stage that finalized the response short-circuits the rest. next
// must be called before the stage returns.
type Stage func(*Context, Next)

// Next hands control to the remaining stages. Passing nil keeps the
// current context; passing a context substitutes it.
type Next func(*Context)

// ProcessPipeline runs stages in order. The driver is an explicit loop
// rather than tail recursion, so long chains cannot grow the stack.
func ProcessPipeline(c *Context, stages ...Stage) {
	for _, stage := range stages {
		proceed := false
		stage(c, func(c2 *Context) {
			proceed = true
			if c2 != nil {
				c = c2
			}
		})
		if !proceed {
			return
		}
	}
}
