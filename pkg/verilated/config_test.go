package verilated

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
random_reset: ones
debug: 1
trace_ever_on: true
assertions: false
args: ["sim", "+seed=3"]
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.RandomReset)
	assert.Equal(t, AllBits, *cfg.RandomReset)
	require.NotNil(t, cfg.Debug)
	assert.Equal(t, 1, *cfg.Debug)
	assert.True(t, cfg.TraceEverOn)
	require.NotNil(t, cfg.Assertions)
	assert.False(t, *cfg.Assertions)
	assert.Nil(t, cfg.FatalOnVPIError)
	assert.Equal(t, []string{"sim", "+seed=3"}, cfg.Args)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestParseConfigRejects(t *testing.T) {
	_, err := ParseConfig([]byte("random_resett: ones\n"))
	assert.ErrorContains(t, err, "random_resett")

	_, err = ParseConfig([]byte("random_reset: 7\n"))
	assert.ErrorContains(t, err, "out of range")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verilated.yaml")
	require.NoError(t, os.WriteFile(path, []byte("random_reset: 0\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, AllZeros, *cfg.RandomReset)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigApply(t *testing.T) {
	d := useDetached(t)
	cfg, err := ParseConfig([]byte(`
random_reset: zeros
debug: 3
trace_ever_on: true
fatal_on_vpi_error: false
args: ["+trace"]
`))
	require.NoError(t, err)
	SetRandomReset(Randomize)

	require.NoError(t, cfg.Apply())
	assert.Equal(t, AllZeros, RandomReset())
	assert.Equal(t, 3, DebugLevel())
	assert.True(t, CalcUnusedSignals())
	assert.True(t, Assertions())
	assert.False(t, FatalOnVPIError())
	args, loaded := d.Args()
	assert.True(t, loaded)
	assert.Equal(t, []string{"+trace"}, args)

	var nilCfg *Config
	assert.NoError(t, nilCfg.Apply())
}

func TestConfigApplyBadArgsTouchesNothing(t *testing.T) {
	d := useDetached(t)
	mode := AllBits
	cfg := &Config{RandomReset: &mode, Args: []string{"ok", "n\x00o"}}

	var encErr *EncodingError
	require.ErrorAs(t, cfg.Apply(), &encErr)
	assert.Equal(t, 1, encErr.Index)
	assert.Equal(t, AllZeros, RandomReset())
	_, loaded := d.Args()
	assert.False(t, loaded)
}
