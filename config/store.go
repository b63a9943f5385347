package config

import "fmt"

// StoreConfig selects and tunes the record store backend.
type StoreConfig struct {
	// Backend selects the store type: "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the SQLite database location, ignored for the memory backend.
	Path string `json:"path"`
	// CacheTTLSeconds is the read-cache staleness window; 0 disables the
	// cache entirely.
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
	// SeedFile optionally loads fixture rosters on startup.
	SeedFile string `json:"seed_file"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "sqlite"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "coordinator.db"
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown store backend %s", c.Backend)
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache_ttl_seconds must not be negative")
	}
	return nil
}

// APIConfig tunes the HTTP listener.
type APIConfig struct {
	Listen string `json:"listen"`
}

// SetDefaults applies the default listen address.
func (c *APIConfig) SetDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
}
