// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the dutsim YAML configuration.
//
package config

import (
	"os"
	"time"

	"github.com/db47h/dutsim"
	"github.com/db47h/dutsim/dut"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPath is the environment variable holding the default config path.
const EnvPath = "DUTSIM_CONFIG"

// Config is the dutsim configuration file.
//
type Config struct {
	Dut      DutConfig     `yaml:"dut"`
	Sim      SimConfig     `yaml:"sim"`
	Stimulus []uint64      `yaml:"stimulus"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Log      LogConfig     `yaml:"log"`
}

// DutConfig describes the Dut. See dut.Config.
//
type DutConfig struct {
	Name        string        `yaml:"name"`
	Width       int           `yaml:"width"`
	ClockPeriod time.Duration `yaml:"clock_period"`
	Expr        string        `yaml:"expr"`
	ResultDepth int           `yaml:"result_depth"`
}

// SimConfig holds the circuit options and the simulation duration.
//
type SimConfig struct {
	Workers       int           `yaml:"workers"`
	Resolution    time.Duration `yaml:"resolution"`
	StepsPerCycle uint          `yaml:"steps_per_cycle"`
	RunFor        time.Duration `yaml:"run_for"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
//
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig selects the zap logger level and preset.
//
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns a configuration with all defaults applied.
//
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads and validates the configuration file at path.
//
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML configuration.
//
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dut.Name == "" {
		c.Dut.Name = dut.DefaultName
	}
	if c.Dut.Width == 0 {
		c.Dut.Width = dut.DefaultWidth
	}
	if c.Dut.ClockPeriod == 0 {
		c.Dut.ClockPeriod = dut.DefaultClockPeriod
	}
	if c.Dut.Expr == "" {
		c.Dut.Expr = dut.DefaultExpr
	}
	if c.Dut.ResultDepth == 0 {
		c.Dut.ResultDepth = dut.DefaultResultDepth
	}
	if c.Sim.Resolution == 0 {
		c.Sim.Resolution = time.Nanosecond
	}
	if c.Sim.StepsPerCycle == 0 {
		c.Sim.StepsPerCycle = 2
	}
	if c.Sim.RunFor == 0 {
		c.Sim.RunFor = 10 * c.Dut.ClockPeriod
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Dut.Width < 1 || c.Dut.Width > 64 {
		return errors.Errorf("dut.width must be in 1..64, got %d", c.Dut.Width)
	}
	if c.Dut.ClockPeriod < 0 {
		return errors.Errorf("dut.clock_period must be positive, got %v", c.Dut.ClockPeriod)
	}
	if c.Dut.ResultDepth < 0 {
		return errors.Errorf("dut.result_depth must be positive, got %d", c.Dut.ResultDepth)
	}
	if c.Sim.Resolution < 0 {
		return errors.Errorf("sim.resolution must be positive, got %v", c.Sim.Resolution)
	}
	if c.Dut.ClockPeriod%c.Sim.Resolution != 0 {
		return errors.Errorf("dut.clock_period %v is not a multiple of sim.resolution %v", c.Dut.ClockPeriod, c.Sim.Resolution)
	}
	if c.Sim.RunFor < 0 {
		return errors.Errorf("sim.run_for must be positive, got %v", c.Sim.RunFor)
	}
	max := uint64(1)<<uint(c.Dut.Width) - 1
	if c.Dut.Width == 64 {
		max = ^uint64(0)
	}
	for i, v := range c.Stimulus {
		if v > max {
			return errors.Errorf("stimulus[%d] = %d does not fit in %d bits", i, v, c.Dut.Width)
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// DutConfig returns the Dut configuration.
//
func (c *Config) DutConfig(log *zap.Logger) dut.Config {
	return dut.Config{
		Name:        c.Dut.Name,
		Width:       c.Dut.Width,
		ClockPeriod: c.Dut.ClockPeriod,
		Expr:        c.Dut.Expr,
		ResultDepth: c.Dut.ResultDepth,
		Logger:      log,
	}
}

// CircuitOptions returns the circuit options matching the sim section.
//
func (c *Config) CircuitOptions() []dutsim.Option {
	return []dutsim.Option{
		dutsim.WithWorkers(c.Sim.Workers),
		dutsim.WithResolution(c.Sim.Resolution),
		dutsim.WithStepsPerCycle(c.Sim.StepsPerCycle),
	}
}

// NewLogger builds a zap logger from the log section.
//
func (c *Config) NewLogger() (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	return zc.Build()
}
