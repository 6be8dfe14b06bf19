package tui

import "github.com/rs/zerolog"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "path = value" line per leaf.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes applied to printed messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

type config struct {
	driver   PromptDriver
	theme    Theme
	logger   zerolog.Logger
	maxSteps int
}

func newConfig(options []Option) config {
	cfg := config{
		theme:    Theme{InfoPrefix: "i ", ErrorPrefix: "! "},
		logger:   zerolog.Nop(),
		maxSteps: 500,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(nil)
	}
	return cfg
}

// Option configures the renderer and sessions.
type Option func(*config)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *config) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(c *config) {
		c.theme = theme
	}
}

// WithLogger receives a debug event per prompt.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxSteps bounds the number of prompts one session may issue.
func WithMaxSteps(limit int) Option {
	return func(c *config) {
		if limit > 0 {
			c.maxSteps = limit
		}
	}
}
