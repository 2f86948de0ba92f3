package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
		Level:   logrus.WarnLevel,
		Message: "降级",
		Data:    logrus.Fields{"step": "search", "framework": "chain"},
	}

	out, err := (&CustomFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2025-01-02 03:04:05] [WARN] [] 降级 framework=chain step=search\n", string(out))
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "radar.log")
	require.NoError(t, InitLogger("debug", path))
	t.Cleanup(func() { Log = newLogger() })

	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	Log.Debug("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "hello\n"))
	assert.Contains(t, string(data), "[DEBU] [logger_test.go:")
}

func TestInitLoggerBadLevel(t *testing.T) {
	require.NoError(t, InitLogger("loud", ""))
	t.Cleanup(func() { Log = newLogger() })
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
