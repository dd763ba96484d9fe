package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	require.Error(t, err)
}

func TestNew_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floorplan.log")
	l, err := New(Config{AppName: "test", Level: "debug", File: path})
	require.NoError(t, err)

	l.Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), `"app":"test"`)
}

func TestDefault_IsNopUntilInit(t *testing.T) {
	require.NotNil(t, Default())
	assert.False(t, Default().Core().Enabled(zapcore.ErrorLevel))

	require.NoError(t, Init(Config{Level: "warn", Format: "console"}))
	t.Cleanup(func() {
		mu.Lock()
		defaultLogger = zap.NewNop()
		mu.Unlock()
	})
	assert.True(t, Default().Core().Enabled(zapcore.WarnLevel))
	assert.False(t, Default().Core().Enabled(zapcore.DebugLevel))
}
