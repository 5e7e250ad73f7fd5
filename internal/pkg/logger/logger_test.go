package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parking.log")

	log := New("info", "json", path)
	log.With("component", "test").Info("Vehicle checked in", map[string]interface{}{
		"plate": "ABC1D23",
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"plate":"ABC1D23"`)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), "Vehicle checked in")
}

func TestOpenOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, openOutput(""))
	assert.Equal(t, os.Stderr, openOutput("stderr"))
	assert.Equal(t, os.Stdout, openOutput(filepath.Join(t.TempDir(), "missing", "dir", "x.log")))
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)

	log.Debug("Lifecycle state", map[string]interface{}{"occupied": 1})
	assert.Empty(t, buf.String(), "debug ниже уровня info")

	entryID := uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f")
	log.Warn("Check-in rejected", map[string]interface{}{
		"plate":    "ABC1D23",
		"spot_id":  7,
		"fee":      35.0,
		"entry_id": entryID,
		"error":    errors.New("capacity exceeded"),
	})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "warn", record["level"])
	assert.Equal(t, "parking-api", record["service"])
	assert.Equal(t, "ABC1D23", record["plate"])
	assert.Equal(t, 7.0, record["spot_id"])
	assert.Equal(t, 35.0, record["fee"])
	assert.Equal(t, entryID.String(), record["entry_id"])
	assert.Equal(t, "capacity exceeded", record["error"])
}
