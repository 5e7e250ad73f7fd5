package config

import (
	"testing"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, domain.MaxSpotID, cfg.Parking.Capacity)
	assert.Equal(t, TariffTableDefault, cfg.Parking.TariffTable)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)

	rates, err := cfg.Parking.Rates()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRates, rates)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PARKING_CAPACITY", "50")
	t.Setenv("TARIFF_TABLE", "Legacy")
	t.Setenv("TARIFF_ADD", "4.5")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("REDIS_ENABLED", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Parking.Capacity)
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Redis.Enabled)

	rates, err := cfg.Parking.Rates()
	require.NoError(t, err)
	assert.Equal(t, domain.LegacyRates.OneHour, rates.OneHour)
	assert.Equal(t, 4.5, rates.ExtraHour)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"нулевая вместимость", "PARKING_CAPACITY", "0"},
		{"вместимость больше числа мест", "PARKING_CAPACITY", "201"},
		{"неизвестная таблица", "TARIFF_TABLE", "weekend"},
		{"потолок меньше часа", "TARIFF_R6", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
