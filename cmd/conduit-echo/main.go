// conduit-echo is a small demo server for the conduitx layer: a pipeline
// with CORS, a couple of routed endpoints, and a terminal 404 fallback,
// with Prometheus metrics on a side listener and every finalized exchange
// logged through the request-logger hook.
package main

import (
	"flag"
	"log"
	"net/http"
	"regexp"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dqx0.com/go/conduit/conduitx"
	"dqx0.com/go/conduit/internal/config"
	"dqx0.com/go/conduit/internal/obs"
)

var (
	itemRe = regexp.MustCompile(`^/items/(\d+)$`)
	echoRe = regexp.MustCompile(`^/echo$`)
)

func main() {
	cfgPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if _, err := obs.Setup(cfg.Debug); err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	conduitx.SetRequestLogger(func(c *conduitx.Context) {
		zap.S().Infow("exchange",
			"id", c.ID,
			"kind", c.Kind.String(),
			"method", c.Request.Method,
			"status", c.Response.StatusCode,
			"client_ip", c.Request.ClientIP,
			"trace_id", c.Trace.TraceID,
		)
	})

	meter := obs.NewPromMeter(nil)
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				zap.S().Warnw("metrics listener stopped", "err", err)
			}
		}()
	}

	s := &conduitx.Server{
		Addr:  cfg.ListenAddr,
		CORS:  cfg.CORS,
		Meter: meter,
		Root:  root,
	}
	zap.S().Infow("listening", "addr", cfg.ListenAddr)
	if err := s.ListenAndServe(); err != nil {
		zap.S().Fatalw("server stopped", "err", err)
	}
}

func root(c *conduitx.Context) {
	conduitx.ProcessPipeline(c,
		func(c *conduitx.Context, next conduitx.Next) {
			conduitx.AddCORSHeaders(c)
			next(nil)
		},
		func(c *conduitx.Context, next conduitx.Next) {
			if rest := conduitx.HandleOrPassURL(c, itemRe, []string{conduitx.MethodGet}, getItem); rest != nil {
				next(rest)
			}
		},
		func(c *conduitx.Context, next conduitx.Next) {
			if rest := conduitx.HandleOrPassURL(c, echoRe, []string{conduitx.MethodPost}, postEcho); rest != nil {
				next(rest)
			}
		},
		func(c *conduitx.Context, _ conduitx.Next) {
			_ = conduitx.RespondWithNotFound(c)
		},
	)
}

func getItem(c *conduitx.Context) {
	id := c.Request.URLParams[0]
	_ = conduitx.Respond(conduitx.AttachJSON(c, map[string]any{"item": id}))
}

func postEcho(c *conduitx.Context) {
	err := conduitx.CollectJSONBody(c, func(c *conduitx.Context) {
		_ = conduitx.Respond(conduitx.AttachJSON(c, c.Request.Body.Value()))
	})
	if err != nil {
		zap.S().Warnw("echo collect failed", "err", err)
		_ = conduitx.RespondWithServerError(c)
	}
}
