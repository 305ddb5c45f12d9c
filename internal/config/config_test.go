package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/db47h/dutsim/dut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
dut:
  width: 4
  expr: "input + acc"
stimulus: [1, 2, 15]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dut.DefaultName, cfg.Dut.Name)
	assert.Equal(t, 4, cfg.Dut.Width)
	assert.Equal(t, "input + acc", cfg.Dut.Expr)
	assert.Equal(t, 10*time.Nanosecond, cfg.Dut.ClockPeriod)
	assert.Equal(t, 64, cfg.Dut.ResultDepth)
	assert.Equal(t, time.Nanosecond, cfg.Sim.Resolution)
	assert.Equal(t, 100*time.Nanosecond, cfg.Sim.RunFor)
	assert.Equal(t, []uint64{1, 2, 15}, cfg.Stimulus)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParseDurations(t *testing.T) {
	cfg, err := Parse([]byte(`
dut:
  clock_period: 20us
sim:
  resolution: 1us
  run_for: 1ms
  steps_per_cycle: 8
  workers: 2
metrics:
  addr: ":9100"
log:
  level: debug
  development: true
`))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Microsecond, cfg.Dut.ClockPeriod)
	assert.Equal(t, time.Microsecond, cfg.Sim.Resolution)
	assert.Equal(t, time.Millisecond, cfg.Sim.RunFor)
	assert.Equal(t, uint(8), cfg.Sim.StepsPerCycle)
	assert.Len(t, cfg.CircuitOptions(), 3)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	log, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestValidate(t *testing.T) {
	td := []struct {
		name string
		data string
		err  string
	}{
		{"width", "dut: {width: 65}", "dut.width"},
		{"period", "dut: {clock_period: -1ns}", "dut.clock_period"},
		{"resolution", "dut: {clock_period: 10ns}\nsim: {resolution: 3ns}", "not a multiple"},
		{"stimulus", "dut: {width: 2}\nstimulus: [4]", "stimulus[0]"},
		{"log level", "log: {level: loud}", "log.level"},
		{"yaml", "dut: [", "decode config"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := Parse([]byte(d.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	dc := cfg.DutConfig(nil)
	m, err := dut.New(dc)
	require.NoError(t, err)
	assert.Equal(t, cfg.Dut.Width, m.Width())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
