package model

import "github.com/rs/zerolog"

// Options configures the Resolver. The public adapter in pkg/model builds
// them from functional options.
type Options struct {
	Labeler func(string) string
	Logger  zerolog.Logger
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
		Logger:  zerolog.Nop(),
	}
}
