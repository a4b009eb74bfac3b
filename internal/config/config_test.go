package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	cfg := defaults()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Network.Port = 9000
	return cfg
}

func TestLoadConfigurationFromEnv(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyACM0")
	t.Setenv("SERIAL_BAUD_RATE", "115200")
	t.Setenv("TCP_IN_HOST", "10.0.0.5")
	t.Setenv("TCP_IN_PORT", "7000")
	t.Setenv("TCP_IN_FORMAT", "BINARY")
	t.Setenv("KAFKA_ENABLE", "true")

	cfg, err := LoadConfiguration()
	require.NoError(t, err)

	require.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	require.Equal(t, 115200, cfg.Serial.BaudRate)
	require.Equal(t, "10.0.0.5:7000", cfg.Network.Address())
	require.Equal(t, FormatBinary, cfg.Network.Format)
	require.True(t, cfg.Kafka.Enable)

	require.Equal(t, 10*time.Millisecond, cfg.Link.Tick())
	require.Equal(t, 3*time.Second, cfg.Link.Retry())
	require.Equal(t, time.Second, cfg.Link.NetRetry())
	require.Equal(t, 6*time.Second, cfg.Link.Liveness())
	require.False(t, cfg.Uplink.Enabled())
}

func TestLoadConfigurationFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rlink.yaml")

	data := `
serial:
  vendor_id: "0483"
  product_id: "5740"
  baud_rate: 400000
network:
  host: relay.local
  port: 6000
uplink:
  host: ground.local
  port: 6001
link:
  liveness_ms: 2000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("RLINK_CONFIG_FILE", path)
	t.Setenv("TCP_IN_PORT", "6500")

	cfg, err := LoadConfiguration()
	require.NoError(t, err)

	require.Equal(t, "0483", cfg.Serial.VendorID)
	require.Equal(t, "5740", cfg.Serial.ProductID)
	require.Equal(t, 400000, cfg.Serial.BaudRate)
	require.Equal(t, "relay.local:6500", cfg.Network.Address())
	require.True(t, cfg.Uplink.Enabled())
	require.Equal(t, "ground.local:6001", cfg.Uplink.Address())
	require.Equal(t, 2*time.Second, cfg.Link.Liveness())
	// значение по умолчанию не затирается файлом
	require.Equal(t, 10*time.Millisecond, cfg.Link.Tick())
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	t.Setenv("RLINK_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfiguration()
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestLoadConfigurationRejectsUnparsableEnv(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyACM0")
	t.Setenv("TCP_IN_PORT", "7000")
	t.Setenv("SERIAL_BAUD_RATE", "11520O")
	t.Setenv("LINK_LIVENESS_MS", "6s")
	t.Setenv("KAFKA_ENABLE", "yes please")

	cfg, err := LoadConfiguration()
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), `SERIAL_BAUD_RATE="11520O"`)
	require.Contains(t, err.Error(), `LINK_LIVENESS_MS="6s"`)
	require.Contains(t, err.Error(), "KAFKA_ENABLE")
}

func TestLoadConfigurationBadPortIsNotReportedAsRange(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyACM0")
	t.Setenv("TCP_IN_PORT", "70o0")

	_, err := LoadConfiguration()
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	require.Contains(t, err.Error(), `TCP_IN_PORT="70o0" is not an integer`)
	require.NotContains(t, err.Error(), "out of range")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *AppConfig)
		ok     bool
	}{
		{name: "valid", mutate: func(c *AppConfig) {}, ok: true},
		{name: "vid pid instead of port", mutate: func(c *AppConfig) {
			c.Serial.Port = ""
			c.Serial.VendorID = "10C4"
			c.Serial.ProductID = "EA60"
		}, ok: true},
		{name: "no port and no ids", mutate: func(c *AppConfig) { c.Serial.Port = "" }},
		{name: "only vendor id", mutate: func(c *AppConfig) {
			c.Serial.Port = ""
			c.Serial.VendorID = "10C4"
		}},
		{name: "zero baud", mutate: func(c *AppConfig) { c.Serial.BaudRate = 0 }},
		{name: "missing tcp port", mutate: func(c *AppConfig) { c.Network.Port = 0 }},
		{name: "tcp port too large", mutate: func(c *AppConfig) { c.Network.Port = 70000 }},
		{name: "empty tcp host", mutate: func(c *AppConfig) { c.Network.Host = "" }},
		{name: "unknown format", mutate: func(c *AppConfig) { c.Network.Format = "xml" }},
		{name: "uplink without port", mutate: func(c *AppConfig) { c.Uplink.Host = "ground" }},
		{name: "zero tick", mutate: func(c *AppConfig) { c.Link.TickMs = 0 }},
		{name: "zero report interval", mutate: func(c *AppConfig) { c.Telemetry.ReportMs = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
		})
	}
}
