package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-zome/zome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func testModel(t *testing.T) *zome.Model {
	t.Helper()
	m, err := zome.Load("../../zome/testdata/small_model.json")
	require.NoError(t, err)
	return m
}

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, zome.DefaultPath, o.modelPath)
	assert.False(t, o.force)

	o, err = parseFlags(newFlagSet(), []string{"-tuning", "linear", "-loop", "-input", "a.wav", "dome.json"})
	require.NoError(t, err)
	assert.Equal(t, "dome.json", o.modelPath)
	assert.Equal(t, "linear", o.tuning)
	assert.True(t, o.loop)

	_, err = parseFlags(newFlagSet(), []string{"a.json", "b.json"})
	assert.Error(t, err)
}

func TestResolveConfigTuningPrecedence(t *testing.T) {
	m := testModel(t) // options.tuning = linear

	cfg, err := resolveConfig(options{}, m)
	require.NoError(t, err)
	assert.Equal(t, "linear", cfg.Pattern.Tuning, "model option applies when nothing else is set")

	cfg, err = resolveConfig(options{tuning: "compressed"}, m)
	require.NoError(t, err)
	assert.Equal(t, "compressed", cfg.Pattern.Tuning)

	path := filepath.Join(t.TempDir(), "zome.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pattern: {tuning: compressed}\naudio: {device: mic}\n"), 0o644))

	cfg, err = resolveConfig(options{configPath: path}, m)
	require.NoError(t, err)
	assert.Equal(t, "compressed", cfg.Pattern.Tuning, "file beats model option")
	assert.Equal(t, "mic", cfg.Audio.Device)

	cfg, err = resolveConfig(options{configPath: path, device: "usb"}, m)
	require.NoError(t, err)
	assert.Equal(t, "usb", cfg.Audio.Device, "flag beats file")
}

func TestResolveConfigErrors(t *testing.T) {
	m := testModel(t)

	_, err := resolveConfig(options{tuning: "strobe"}, m)
	assert.Error(t, err)

	_, err = resolveConfig(options{loop: true}, m)
	assert.Error(t, err, "loop without input file")

	_, err = resolveConfig(options{configPath: filepath.Join(t.TempDir(), "nope.yaml")}, m)
	assert.Error(t, err)
}
