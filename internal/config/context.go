package config

import "context"

type ctxKey struct{}

// WithConfig attaches the effective configuration to the context.
func WithConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the configuration attached by WithConfig.
// Returns the finalized default configuration if none is attached.
func FromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(ctxKey{}).(Config); ok {
		return cfg
	}
	cfg, _ := finalize(Default())
	return cfg
}
