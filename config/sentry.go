package config

import "fmt"

// SentryConfig enables error capture. An empty DSN keeps monitoring off.
type SentryConfig struct {
	DSN         string `json:"dsn"`
	Environment string `json:"environment"`
	Release     string `json:"release"`
	// TracesSampleRate is the share of transactions traced, 0 to 1.
	TracesSampleRate float64 `json:"traces_sample_rate"`
}

func (c *SentryConfig) SetDefaults() {
	if c.DSN != "" && c.Environment == "" {
		c.Environment = "production"
	}
}

func (c SentryConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("traces_sample_rate must be within [0, 1]")
	}
	return nil
}
