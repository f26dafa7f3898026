package config

import "fmt"

// APIConfig defines settings for the HTTP forecast endpoint.
type APIConfig struct {
	// Addr is the listen address of the API server.
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("api: addr is required")
	}
	return nil
}
