package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"pharmarx/src/infra/config"
)

func TestWithComponentAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)

	log = WithComponent(log, "catalog")
	log = WithRequestID(log, "req-123")
	log.Info("listing medicines")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "catalog", entry["component"])
	require.Equal(t, "req-123", entry["request_id"])
	require.Equal(t, "listing medicines", entry["msg"])
}

func TestPlainFormatWritesMessageOnly(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", Format: "plain"}, &buf)

	log.Info("server started", "port", 4003)

	require.Equal(t, "server started\n", buf.String())
}
