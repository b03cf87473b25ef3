package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSRI() SRIConfig {
	return SRIConfig{EmitterRUC: "1790011674001", Environment: "1", Establishment: "001", EmissionPoint: "001"}
}

func TestSRIConfig_Validate(t *testing.T) {
	assert.NoError(t, validSRI().Validate())

	c := validSRI()
	c.EmitterRUC = "1790011675001"
	assert.Error(t, c.Validate())

	c = validSRI()
	c.Environment = "3"
	assert.Error(t, c.Validate())

	c = validSRI()
	c.Establishment = "1"
	assert.Error(t, c.Validate())

	c = validSRI()
	c.EmissionPoint = "0a1"
	assert.Error(t, c.Validate())
}

func TestFromViper_DefaultsYEnteros(t *testing.T) {
	v := viper.New()
	v.Set("SRI_EMITTER_RUC", "1790011674001")
	v.Set("DB_MAX_CONNS", " 10 ")
	v.Set("DB_AUTO_MIGRATE", "false")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "001", cfg.SRI.Establishment)
	assert.Equal(t, "1", cfg.SRI.Environment)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SamplingRatio)
}

func TestFromViper_Tracing(t *testing.T) {
	v := viper.New()
	v.Set("SRI_EMITTER_RUC", "1790011674001")
	v.Set("TRACING_ENABLED", "true")
	v.Set("TRACING_SAMPLING_RATIO", "0.25")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Enabled)
	assert.InDelta(t, 0.25, cfg.Tracing.SamplingRatio, 1e-9)
}

func TestFromViper_RUCInvalido(t *testing.T) {
	v := viper.New()
	v.Set("SRI_EMITTER_RUC", "123")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "f", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/f?sslmode=disable", c.ConnectionString())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
