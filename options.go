package stm

import (
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// config is the package's global ambient configuration: a logger and an
// optional tracer. There is deliberately no per-call config object — spec
// §6's surface is a handful of free functions (Atomically, Retry, Or), not
// a constructed store, so the ambient stack is configured once, the way
// Jekaa-go-mvcc-map's options.go configures its MVCCMap's background
// workers.
type config struct {
	logger *zap.Logger
	tracer opentracing.Tracer
}

var (
	globalConfig   = config{logger: zap.NewNop()}
	globalConfigMu sync.RWMutex
)

// Option configures the package's ambient logging/tracing via Configure.
type Option func(*config)

// WithLogger replaces the default no-op logger. Atomically logs retries and
// aborts at debug level and nested-transaction panics at error level.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer enables an OpenTracing span per Atomically attempt, tagged
// with the attempt number and outcome.
func WithTracer(t opentracing.Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// Configure applies opts to the package's global configuration. Call it
// once during process startup, before the first Atomically.
func Configure(opts ...Option) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	for _, o := range opts {
		o(&globalConfig)
	}
}

func currentLogger() *zap.Logger {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig.logger
}

func currentTracer() opentracing.Tracer {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig.tracer
}
