package paypal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mutinyhq/paypal-go/pkg/errors"
)

const testConfigYAML = `endpoint: https://svcs.sandbox.example.com/
endpoint_nvp: https://api-3t.sandbox.example.com/nvp
username: merchant_api1.example.com
password: secret
signature: AFcWxV21C7fd0v3bYYYRCpSSRl31A
app_id: APP-80W284485P519543T
merchant_info:
  business_name: Mutiny Pty Ltd
  website: https://example.com
timeout: 20
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paypal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://svcs.sandbox.example.com/", cfg.Endpoint)
	assert.Equal(t, "https://api-3t.sandbox.example.com/nvp", cfg.EndpointNVP)
	assert.Equal(t, "merchant_api1.example.com", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "AFcWxV21C7fd0v3bYYYRCpSSRl31A", cfg.Signature)
	assert.Equal(t, "APP-80W284485P519543T", cfg.AppID)
	assert.Equal(t, "Mutiny Pty Ltd", cfg.MerchantInfo.BusinessName)
	assert.Equal(t, "https://example.com", cfg.MerchantInfo.Website)
	assert.Equal(t, 20, cfg.Timeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, "endpoint: [unclosed"))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := testConfig()
	require.NoError(t, valid.Validate())

	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"endpoint", func(c *Config) { c.Endpoint = "" }},
		{"endpoint_nvp", func(c *Config) { c.EndpointNVP = "" }},
		{"username", func(c *Config) { c.Username = "" }},
		{"password", func(c *Config) { c.Password = "" }},
		{"signature", func(c *Config) { c.Signature = "" }},
		{"app_id", func(c *Config) { c.AppID = "" }},
		{"timeout", func(c *Config) { c.Timeout = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var validationErr *pkgerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}
