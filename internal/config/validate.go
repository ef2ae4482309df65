package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Auth.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("auth.base_url must be an absolute URL (got %q)", c.Auth.BaseURL)
	}

	if strings.TrimSpace(c.Auth.APIKey) == "" {
		return fmt.Errorf("auth.api_key must not be empty")
	}

	if c.Auth.RequestTimeout <= 0 {
		return fmt.Errorf("auth.request_timeout must be > 0 (got %v)", c.Auth.RequestTimeout)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if strings.TrimSpace(c.Local.Path) == "" {
		return fmt.Errorf("local.path must not be empty")
	}

	return nil
}
