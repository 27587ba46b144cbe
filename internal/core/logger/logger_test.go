package logger

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild_LevelAndJSON(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "warn", JSON: true, Out: zapcore.AddSync(&buf)})

	l.Info("hidden")
	l.Warn("shown", zap.String("k", "v"))
	cleanup()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestBuild_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "loud", JSON: true, Out: zapcore.AddSync(&buf)})
	l.Debug("debug")
	l.Info("info")
	cleanup()

	assert.NotContains(t, buf.String(), `"msg":"debug"`)
	assert.Contains(t, buf.String(), `"msg":"info"`)
}

func TestBuild_Rotate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, cleanup := Build(Options{
		Level:  "info",
		Out:    zapcore.AddSync(&buf),
		Rotate: FileRotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("to file")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "to file")
	assert.NotContains(t, string(b), "\x1b[", "no color codes in files")
}

func TestToWriter(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := ToWriter(zap.New(core), zap.WarnLevel)

	std := log.New(w, "", 0)
	std.Print("slow sql")
	_, _ = fmt.Fprint(w, "second\r\n")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow sql", logs.All()[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "second", logs.All()[1].Message)
}
