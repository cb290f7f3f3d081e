package lattice

import "go.uber.org/zap"

type Option func(*containerConfig)

type containerConfig struct {
	logger    *zap.Logger
	onResolve []ResolveHook
}

func newConfig(opts ...Option) *containerConfig {
	cfg := &containerConfig{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithLogger(logger *zap.Logger) Option {
	return func(cfg *containerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}
