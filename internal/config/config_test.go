package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8081, cfg.HTTPPort)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 120*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, int64(20000), cfg.DeliveryFee)
	assert.Equal(t, 168, cfg.GuestCartTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MARKETPLACE_API_URL", "https://api.example.com/v1")
	t.Setenv("MPESA_POLL_INTERVAL", "5s")
	t.Setenv("MPESA_CONFIRM_TIMEOUT", "90s")
	t.Setenv("DELIVERY_FEE_CENTS", "15000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "https://api.example.com/v1", cfg.MarketplaceURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 90*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, int64(15000), cfg.DeliveryFee)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid port", "HTTP_PORT", "70000"},
		{"zero poll interval", "MPESA_POLL_INTERVAL", "0s"},
		{"timeout below poll interval", "MPESA_CONFIRM_TIMEOUT", "1s"},
		{"negative delivery fee", "DELIVERY_FEE_CENTS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
