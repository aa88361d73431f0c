package config

import "fmt"

// APIConfig defines the HTTP listener.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on /api routes.
	Token string `json:"token"`
	// ShutdownSeconds bounds graceful shutdown.
	ShutdownSeconds int `json:"shutdown_seconds"`
}

func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ShutdownSeconds <= 0 {
		c.ShutdownSeconds = 5
	}
}

func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}
