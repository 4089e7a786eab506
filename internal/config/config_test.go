package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRequiresAwaitAndShow(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.RequireFlavor.HasAwait)
	assert.True(t, cfg.RequireFlavor.HasShow)
	assert.False(t, cfg.DumpIR)
}

func TestRequireFlavorToFlavor(t *testing.T) {
	r := RequireFlavor{HasAwait: true, HasShow: false}
	f := r.ToFlavor()
	assert.True(t, f.HasAwait)
	assert.False(t, f.HasShow)
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "irc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dump_ir: true\nrequire_flavor:\n  has_await: false\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.DumpIR, "dump_ir from the file overrides the zero-value default")
	assert.False(t, cfg.RequireFlavor.HasAwait, "has_await from the file overrides Default()'s true")
	assert.False(t, cfg.DumpAfterEachPass, "an absent key keeps Default()'s zero value")
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dump_ir: [this is not a bool"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
