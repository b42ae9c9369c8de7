// Package obs holds the observability seams: process logging setup on
// zap and a small Meter interface with no-op and Prometheus-backed
// implementations.
package obs

import "go.uber.org/zap"

// Setup installs the process-wide zap logger and returns it. debug
// selects the development console encoder; otherwise production JSON.
func Setup(debug bool) (*zap.Logger, error) {
	var (
		lg  *zap.Logger
		err error
	)
	if debug {
		lg, err = zap.NewDevelopment()
	} else {
		lg, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(lg)
	return lg, nil
}

// Nop silences the global logger, for tests.
func Nop() {
	zap.ReplaceGlobals(zap.NewNop())
}
