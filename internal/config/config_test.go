package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "BACKEND_URL", "BACKEND_TIMEOUT", "BACKEND_MODE", "CART_STORAGE", "PROMO_COUPON_ID", "SIGNUP_BALANCE", "LOGIN_WINDOW", "TRUST_PROXY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.URL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, BackendModeRemote, cfg.Backend.Mode)
	assert.Equal(t, "cookie", cfg.Cart.Storage)
	assert.Equal(t, 1, cfg.Store.PromoCouponID)
	assert.Equal(t, 1000.0, cfg.Store.SignupBalance)
	assert.Equal(t, 15*time.Minute, cfg.Security.LoginWindow)
	assert.False(t, cfg.Server.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BACKEND_URL", "http://api.internal:8080/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("BACKEND_MODE", "MOCK")
	t.Setenv("CART_STORAGE", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("SIGNUP_BALANCE", "250.5")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://api.internal:8080", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, BackendModeMock, cfg.Backend.Mode)
	assert.Equal(t, "redis", cfg.Cart.Storage)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, 250.5, cfg.Store.SignupBalance)
	assert.True(t, cfg.Server.TrustProxy)
}

func TestGetEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("CF_TEST_INT", "abc")
	t.Setenv("CF_TEST_DURATION", "soon")
	t.Setenv("CF_TEST_BOOL", "maybe")

	assert.Equal(t, 4, getEnvAsInt("CF_TEST_INT", 4))
	assert.Equal(t, time.Minute, getEnvAsDuration("CF_TEST_DURATION", time.Minute))
	assert.True(t, getEnvAsBool("CF_TEST_BOOL", true))
}
