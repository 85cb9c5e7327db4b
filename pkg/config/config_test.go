package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "cognitiva", cfg.DB.DBName)
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "http://localhost:8080", cfg.Client.APIURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestFromViper_SobrescribeDesdeVariables(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("AI_PROVIDER", "Anthropic")
	v.Set("REDIS_ADDR", "127.0.0.1:6379")
	v.Set("COGNITIVA_API_URL", "https://api.cognitiva.test/")
	v.Set("DB_FORCE_IPV4", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "https://api.cognitiva.test", cfg.Client.APIURL)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestFromViper_ProveedorIADesconocido(t *testing.T) {
	v := viper.New()
	v.Set("AI_PROVIDER", "ollama")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "cognitiva", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/cognitiva?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestFromViper_StorageMemoria(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE", "Memory")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.App.UsesMemory())

	v.Set("STORAGE", "sqlite")
	_, err = fromViper(v)
	assert.Error(t, err)
}
