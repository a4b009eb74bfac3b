package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFieldsAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&Config{Enabled: true, Level: "DEBUG"}, "RLinkBridge", &buf)

	l.WithPrefix("LINK").Info("Frame sent", "port", "/dev/ttyUSB0", "error", errors.New("boom"))

	out := buf.String()
	require.Contains(t, out, "Frame sent")
	require.Contains(t, out, "port=/dev/ttyUSB0")
	require.Contains(t, out, "error=boom")
	require.Contains(t, out, "RLinkBridge [LINK]")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&Config{Enabled: true, Level: "WARN"}, "", &buf)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")

	out := buf.String()
	require.NotContains(t, out, "debug message")
	require.NotContains(t, out, "info message")
	require.Contains(t, out, "warn message")

	require.True(t, l.ShouldLog("ERROR"))
	require.False(t, l.ShouldLog("DEBUG"))
}

func TestLoggerDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&Config{Enabled: false, Level: "DEBUG"}, "", &buf)

	l.Error("should not appear")
	require.Zero(t, buf.Len())
	require.False(t, l.ShouldLog("ERROR"))
}

func TestLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l := newLogger(&Config{Enabled: true, Level: "INFO", LogsDir: dir}, "", &buf)
	defer l.Close()

	l.Info("persisted message")

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "persisted message")
}
