// Package tracing constructs the Jaeger tracer used to trace ranking passes.
package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"golang.org/x/xerrors"
)

// Config controls the construction of a tracer.
type Config struct {
	// The name reported for emitted spans.
	ServiceName string

	// If set, a no-op tracer is returned.
	Disabled bool

	// If set, every span is sampled instead of using the sampler settings
	// from the JAEGER_* environment variables.
	SampleAll bool
}

// New returns a Jaeger tracer configured from the JAEGER_* environment
// variables. Callers must Close the returned io.Closer before exiting to
// flush any buffered spans.
func New(cfg Config) (opentracing.Tracer, io.Closer, error) {
	jCfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, nil, xerrors.Errorf("tracing: load jaeger settings: %w", err)
	}

	if cfg.ServiceName != "" {
		jCfg.ServiceName = cfg.ServiceName
	}
	if cfg.Disabled {
		jCfg.Disabled = true
	}
	if cfg.SampleAll {
		jCfg.Sampler = &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		}
	}

	tracer, closer, err := jCfg.NewTracer()
	if err != nil {
		return nil, nil, xerrors.Errorf("tracing: create tracer: %w", err)
	}
	return tracer, closer, nil
}
