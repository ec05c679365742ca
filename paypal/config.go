package paypal

import (
	"fmt"
	"os"

	pkgerrors "github.com/mutinyhq/paypal-go/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the API credentials and endpoints for both protocols. It is
// loaded once, validated, and never mutated after the client is constructed,
// so a single client is safe for concurrent use.
type Config struct {
	Endpoint    string `yaml:"endpoint"`     // JSON protocol base URL
	EndpointNVP string `yaml:"endpoint_nvp"` // NVP protocol URL

	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Signature string `yaml:"signature"`
	AppID     string `yaml:"app_id"`

	MerchantInfo MerchantDetails `yaml:"merchant_info"`

	// Request timeout in seconds (default: 30)
	Timeout int `yaml:"timeout"`
}

// MerchantDetails holds the merchant identity attached to invoices.
type MerchantDetails struct {
	BusinessName string `yaml:"business_name"`
	Website      string `yaml:"website"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every field the transport layer depends on is set.
func (c *Config) Validate() error {
	required := []struct {
		name, value string
	}{
		{"endpoint", c.Endpoint},
		{"endpoint_nvp", c.EndpointNVP},
		{"username", c.Username},
		{"password", c.Password},
		{"signature", c.Signature},
		{"app_id", c.AppID},
	}
	for _, f := range required {
		if f.value == "" {
			return pkgerrors.NewValidationError(f.name, "is required")
		}
	}
	if c.Timeout < 0 {
		return pkgerrors.NewValidationError("timeout", "must not be negative")
	}
	return nil
}
