// Copyright 2026 VIP Research Exchange
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"time"
)

// Config holds configuration for the completion provider.
type Config struct {
	// Models is the fallback chain: candidate model identifiers in
	// priority order, cheaper or better-known models first.
	Models []string

	// Token is the provider API key.
	Token string

	// BaseURL overrides the provider endpoint. Empty uses the provider
	// default.
	BaseURL string

	// MaxTokens caps the reply length.
	// Default: 2048
	MaxTokens int

	// Temperature is the sampling temperature for replies.
	Temperature float64

	// Timeout bounds the whole fallback chain, summed across all
	// attempted candidates; zero disables the bound.
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithModels sets the fallback chain, replacing the default.
func WithModels(models ...string) ConfigOption {
	return func(c *Config) {
		c.Models = models
	}
}

// WithToken sets the provider API key.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithBaseURL sets the provider endpoint.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithMaxTokens sets the reply length cap.
func WithMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithTimeout sets the fallback-chain latency bound.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with the production fallback chain.
func DefaultConfig() *Config {
	return &Config{
		Models: []string{
			"claude-3-5-sonnet-20241022",
			"claude-3-5-sonnet-20240620",
			"claude-3-5-sonnet-latest",
			"claude-3-opus-20240229",
			"claude-3-sonnet-20240229",
			"claude-3-haiku-20240307",
		},
		MaxTokens: 2048,
		Timeout:   2 * time.Minute,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return errors.New("ai config: at least one model is required")
	}
	for _, model := range c.Models {
		if model == "" {
			return errors.New("ai config: model identifiers cannot be empty")
		}
	}
	if c.Token == "" {
		return errors.New("ai config: Token is required")
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	if c.Timeout < 0 {
		return errors.New("ai config: Timeout cannot be negative")
	}
	return nil
}
