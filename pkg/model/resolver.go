package model

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-autoform/internal/model"
)

// Resolver turns a schema plus a value snapshot into a FormModel.
type Resolver interface {
	Resolve(in Input) (FormModel, error)
}

// ResolverOption configures the resolver behaviour.
type ResolverOption func(*resolverOptions)

type resolverOptions struct {
	labeler func(string) string
	logger  *zerolog.Logger
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) ResolverOption {
	return func(opts *resolverOptions) {
		opts.labeler = labeler
	}
}

// WithLogger receives debug events for omitted schema shapes.
func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(opts *resolverOptions) {
		opts.logger = &logger
	}
}

// NewResolver returns a Resolver backed by the internal implementation.
func NewResolver(options ...ResolverOption) Resolver {
	cfg := resolverOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	internalOpts := model.Options{Labeler: cfg.labeler, Logger: zerolog.Nop()}
	if cfg.logger != nil {
		internalOpts.Logger = *cfg.logger
	}
	return model.New(internalOpts)
}

// DefaultLabeler exposes the label derivation used when no labeler is set.
func DefaultLabeler(name string) string { return model.DefaultLabeler(name) }
