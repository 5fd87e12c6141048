// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultAPIBase is used when no base address is configured.
const DefaultAPIBase = "http://localhost:8000"

// ClientConfig holds the settings shared by the submission and results
// screens.
type ClientConfig struct {
	// APIBase is the processing service base address every resource
	// locator in a ProcessingResult is resolved against.
	APIBase string `json:"api_base" yaml:"api_base" mapstructure:"api_base"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "paper-ingest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// WithDefaults returns a copy of c with empty fields filled in.
func (c ClientConfig) WithDefaults() ClientConfig {
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.UserAgent == "" {
		c.UserAgent = "paper-ingest/0.1"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}
