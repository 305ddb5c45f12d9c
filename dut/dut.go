// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dut provides the device under test: a clocked processing block
// driven by its own clock generator, exported as a reusable chip.
//
// The Dut has two ports, in and out, of the same configurable width. On every
// rising edge of its internal clock, the processing block computes a new value
// from the input bus and its previous result, and drives it on out.
//
package dut

import (
	"strconv"
	"time"

	"github.com/db47h/dutsim"
	"github.com/db47h/dutsim/hwlib"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Defaults.
const (
	DefaultName        = "dut"
	DefaultWidth       = 8
	DefaultClockPeriod = 10 * time.Nanosecond
	DefaultResultDepth = 64
)

// Config holds the Dut parameters. Zero values are replaced by defaults.
//
type Config struct {
	Name        string
	Width       int
	ClockPeriod time.Duration
	Expr        string
	ResultDepth int
	Logger      *zap.Logger
	// OnResult, if not nil, is called from the simulation with every result.
	OnResult func(Result)
}

func (cfg *Config) setDefaults() {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.ClockPeriod == 0 {
		cfg.ClockPeriod = DefaultClockPeriod
	}
	if cfg.Expr == "" {
		cfg.Expr = DefaultExpr
	}
	if cfg.ResultDepth == 0 {
		cfg.ResultDepth = DefaultResultDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// Module is an elaborated Dut.
//
type Module struct {
	name    string
	width   int
	period  time.Duration
	results *ResultBuffer
	newPart dutsim.NewPartFn
}

// New elaborates a Dut.
//
//	Inputs: in[Width]
//	Outputs: out[Width]
//	Parts:
//		clock: out=clock
//		process: in=in, clk=clock, out=out
//
func New(cfg Config) (*Module, error) {
	cfg.setDefaults()
	if cfg.ResultDepth < 0 {
		return nil, errors.Errorf("%s: invalid result depth %d", cfg.Name, cfg.ResultDepth)
	}
	m := &Module{
		name:    cfg.Name,
		width:   cfg.Width,
		period:  cfg.ClockPeriod,
		results: NewResultBuffer(cfg.ResultDepth),
	}
	onResult := cfg.OnResult
	process, err := Processing(ProcessingSpec{
		Name:  "process",
		Width: cfg.Width,
		Expr:  cfg.Expr,
		OnResult: func(r Result) {
			m.results.Push(r)
			if onResult != nil {
				onResult(r)
			}
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, cfg.Name)
	}
	clock, err := hwlib.Clock(hwlib.ClockSpec{Name: "clock", Period: cfg.ClockPeriod})
	if err != nil {
		return nil, errors.Wrap(err, cfg.Name)
	}
	ws := "[" + strconv.Itoa(cfg.Width) + "]"
	m.newPart, err = dutsim.Chip(cfg.Name, PinIn+ws, PinOut+ws,
		clock("out=clock"),
		process("in=in, clk=clock, out=out"),
	)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Info("elaborated",
		zap.String("dut", cfg.Name),
		zap.Int("width", cfg.Width),
		zap.Duration("clock_period", cfg.ClockPeriod),
		zap.String("expr", cfg.Expr))
	return m, nil
}

// Part returns a new instance of the Dut with the given connections.
//
func (m *Module) Part(connections string) dutsim.Part { return m.newPart(connections) }

// Name returns the Dut name.
//
func (m *Module) Name() string { return m.name }

// Width returns the width of the in and out buses.
//
func (m *Module) Width() int { return m.width }

// ClockPeriod returns the period of the Dut clock.
//
func (m *Module) ClockPeriod() time.Duration { return m.period }

// Buffer returns the result buffer.
//
func (m *Module) Buffer() *ResultBuffer { return m.results }

// Results returns the buffered results, oldest first.
//
func (m *Module) Results() []Result { return m.results.Results() }

// Last returns the most recent result.
//
func (m *Module) Last() (Result, bool) { return m.results.Last() }
