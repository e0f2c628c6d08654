package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/pkg/config"
)

func TestNewPoolConfig_ValoresPorDefecto(t *testing.T) {
	pc, err := NewPoolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@localhost:5432/mew_bad?sslmode=disable",
	})
	require.NoError(t, err)

	assert.EqualValues(t, defaultMaxConns, pc.MaxConns)
	assert.EqualValues(t, 1, pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.NotNil(t, pc.AfterConnect, "registra el codec decimal")
	assert.Equal(t, "mew_bad", pc.ConnConfig.Database)
}

func TestNewPoolConfig_MaxConnsDesdeConfig(t *testing.T) {
	pc, err := NewPoolConfig(config.DBConfig{
		Host: "db", Port: 5433, User: "app", Password: "s3cr3t", DBName: "libros", SSLMode: "disable",
		MaxConns: 25,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 25, pc.MaxConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.EqualValues(t, 5433, pc.ConnConfig.Port)
	assert.Equal(t, "libros", pc.ConnConfig.Database)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := NewPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
