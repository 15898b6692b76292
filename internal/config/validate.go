package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive (got %v)", c.Auth.SessionTTL)
	}
	if c.Auth.SessionCookie == "" {
		return fmt.Errorf("auth.session_cookie must not be empty")
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in %d..%d (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if c.GenAI.BaseURL == "" {
		return fmt.Errorf("genai.base_url must not be empty")
	}
	if c.GenAI.Timeout <= 0 {
		return fmt.Errorf("genai.timeout must be positive (got %v)", c.GenAI.Timeout)
	}

	if c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("database.connect_attempts must be at least 1 (got %d)", c.Database.ConnectAttempts)
	}

	if c.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate_limit.requests_per_minute must be at least 1 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}
