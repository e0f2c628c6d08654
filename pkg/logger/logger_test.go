package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"ruidoso": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestWithComponent_NoModificaOriginal(t *testing.T) {
	base := Nop()
	sub := base.WithComponent("billing")
	assert.NotSame(t, base, sub)
}

func TestNew_JSONConAppYFactura(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{App: "mew-bad", Env: "production", Level: "debug", Out: &buf})

	l.WithComponent("recompute").WithInvoice("inv-1").Debug().Msg("totales recalculados")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mew-bad", entry["app"])
	assert.Equal(t, "recompute", entry["component"])
	assert.Equal(t, "inv-1", entry["invoice_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Out: &buf})

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
