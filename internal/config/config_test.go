package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTO_ACTIVATE_NEW_USERS", "")
	t.Setenv("EMAILS_ENABLE", "")
	t.Setenv("SERVER_URL", "")
	t.Setenv("CONFIRMATION_RESET_TIMEOUT", "")

	cfg := Load()

	assert.False(t, cfg.AutoActivateNewUsers)
	assert.False(t, cfg.EmailsEnable)
	assert.Equal(t, "http://localhost:3000", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.ConfirmationResetTimeout)
	assert.Equal(t, "accounts", cfg.DynamoTables.Accounts)
}

func TestLoad_FeatureFlags(t *testing.T) {
	t.Setenv("AUTO_ACTIVATE_NEW_USERS", "true")
	t.Setenv("EMAILS_ENABLE", "1")
	t.Setenv("SERVER_URL", "https://auth.example.com/")

	cfg := Load()

	assert.True(t, cfg.AutoActivateNewUsers)
	assert.True(t, cfg.EmailsEnable)
	assert.Equal(t, "https://auth.example.com", cfg.ServerURL)
}

func TestGetEnvBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, getEnvBool("SOME_FLAG", true))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("D_GO", "90s")
	t.Setenv("D_SECONDS", "120")
	t.Setenv("D_BAD", "soon")

	assert.Equal(t, 90*time.Second, getEnvDuration("D_GO", time.Minute))
	assert.Equal(t, 2*time.Minute, getEnvDuration("D_SECONDS", time.Minute))
	assert.Equal(t, time.Minute, getEnvDuration("D_BAD", time.Minute))
}

func TestGetEnvPrefixes(t *testing.T) {
	t.Setenv("PROXIES", "10.0.0.0/8, 192.168.1.10 ,bogus,,fd00::/8")

	got := getEnvPrefixes("PROXIES")

	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.10/32"),
		netip.MustParsePrefix("fd00::/8"),
	}, got)
}

func TestGetEnvPrefixes_Unset(t *testing.T) {
	t.Setenv("PROXIES", "")
	assert.Empty(t, getEnvPrefixes("PROXIES"))
}
