package append

import "github.com/datatrails/go-datatrails-common/logger"

// Option configures NewPipeline, following the same functional-options
// convention as hlc.Option (itself patterned on the teacher's
// massifs/options.go).
type Option func(*Pipeline)

// WithLogger overrides the pipeline's logger. Callers that want the
// teacher's zap-backed sugared logger at a non-default service name, or a
// test double, use this instead of mutating Log directly after
// construction.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) { p.Log = log }
}
