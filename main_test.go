package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/particle-demo/internal/config"
)

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func TestFramePrintsParticles(t *testing.T) {
	out, err := execute(t, noConfig(t), "frame", "--time", "18", "--from", "6000", "--count", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "t=18.000 phase="), lines[0])
	assert.Equal(t, "6000 0.065513 0.025851 0.626790", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "6001 "))
}

func TestFrameJSON(t *testing.T) {
	out, err := execute(t, noConfig(t), "frame", "--count", "3", "--json")
	require.NoError(t, err)

	var dump frameDump
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	assert.Equal(t, "tunnel", dump.Phase)
	require.Len(t, dump.Particles, 3)
	assert.True(t, dump.Particles[0].Hidden)
	assert.Equal(t, 10.0, dump.Particles[0].X)
	assert.Zero(t, dump.Particles[0].Brightness)
	assert.Equal(t, 2, dump.Particles[2].Index)
}

func TestFrameRejectsBadFlags(t *testing.T) {
	_, err := execute(t, noConfig(t), "frame", "--count", "-1")
	assert.Error(t, err)

	_, err = execute(t, noConfig(t), "frame", "--aspect", "0")
	assert.Error(t, err)
}

func TestFrameStaysInsideCloud(t *testing.T) {
	_, err := execute(t, noConfig(t), "frame", "--from", "14999", "--count", "2")
	assert.ErrorContains(t, err, "15000 particles")

	out, err := execute(t, noConfig(t), "frame", "--from", "14999", "--count", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "14999 "), lines[1])

	path := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(path, []byte("animation:\n  particles: 10\n"), 0o600))
	_, err = execute(t, path, "frame", "--count", "11")
	assert.ErrorContains(t, err, "10 particles")
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  backend: crt\n"), 0o644))

	_, err := execute(t, path, "frame")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crt")
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"
	logger, err := newLogger(cfg, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = newLogger(cfg, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "verbose enables debug")

	cfg.Log.Level = "loud"
	_, err = newLogger(cfg, false)
	assert.Error(t, err)
}
