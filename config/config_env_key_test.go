package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"store": map[string]any{
			"provider":     "memory",
			"auditTimeout": "1s",
			"retry": map[string]any{
				"maxAttempts": 3,
			},
		},
		"rateLimit": map[string]any{
			"enabled": true,
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "STORE_PROVIDER", want: "store.provider"},
		{envKey: "STORE_AUDITTIMEOUT", want: "store.auditTimeout"},
		{envKey: "STORE_RETRY_MAXATTEMPTS", want: "store.retry.maxAttempts"},
		{envKey: "RATELIMIT_ENABLED", want: "rateLimit.enabled"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Store.Timeout = 5 * time.Second

	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, "memory", cfg.Store.Provider)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout, "explicit values are kept")
	assert.Equal(t, defaultAuditTimeout, cfg.Store.AuditTimeout)
	assert.Equal(t, defaultRetryAttempts, cfg.Store.Retry.MaxAttempts)
	assert.Equal(t, defaultRetryBaseDelay, cfg.Store.Retry.BaseDelay)
	assert.Equal(t, defaultRateLimitWindow, cfg.RateLimit.Window)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}
