package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultLanguage, cfg.Analysis.Language)
	assert.Equal(t, DefaultDebounce, cfg.Analysis.Debounce)
	assert.Equal(t, DefaultMultiWordGap, cfg.Analysis.MultiWordGap)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, DefaultPostgresPort, cfg.Postgres.Port)
	assert.Equal(t, DefaultPostgresSSLMode, cfg.Postgres.SSLMode)
	assert.False(t, cfg.Postgres.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Analysis.Language = "en"
	cfg.Analysis.Debounce = 50 * time.Millisecond
	cfg.Server.Port = 9999
	ApplyDefaults(cfg)

	assert.Equal(t, "en", cfg.Analysis.Language)
	assert.Equal(t, 50*time.Millisecond, cfg.Analysis.Debounce)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
