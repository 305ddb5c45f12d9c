// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import (
	"context"
	"strconv"
	"time"

	"github.com/db47h/dutsim"
	"github.com/db47h/dutsim/hwlib"
)

// Bench is a test bench for a Dut: it feeds the Dut input from a stimulus
// list and records its output.
//
type Bench struct {
	m   *Module
	c   *dutsim.Circuit
	out uint64
}

// stimulus returns a part that drives out with stim[k] during the k-th period,
// wrapping around the list.
//
func stimulus(width int, period time.Duration, stim []uint64) dutsim.NewPartFn {
	return (&dutsim.PartSpec{
		Name:    "STIMULUS",
		Outputs: dutsim.Out("out[" + strconv.Itoa(width) + "]"),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			pins := s.Bus("out", width)
			return []dutsim.Component{func(c *dutsim.Circuit) {
				if len(stim) == 0 {
					return
				}
				k := uint64(c.Now()/period) % uint64(len(stim))
				hwlib.SetUint64(c, pins, stim[k])
			}}
		}}).NewPart
}

// NewBench builds a circuit around a new instance of m.
//
func NewBench(m *Module, stim []uint64, opts ...dutsim.Option) (*Bench, error) {
	b := &Bench{m: m}
	s := make([]uint64, len(stim))
	copy(s, stim)
	c, err := dutsim.NewCircuit(dutsim.Parts{
		stimulus(m.Width(), m.ClockPeriod(), s)("out=in"),
		m.Part("in=in, out=out"),
		hwlib.OutputN(m.Width(), func(v uint64) { b.out = v })("in=out"),
	}, opts...)
	if err != nil {
		return nil, err
	}
	b.c = c
	return b, nil
}

// Run runs the simulation for d simulated time. See Circuit.RunFor.
//
func (b *Bench) Run(ctx context.Context, d time.Duration) error {
	return b.c.RunFor(ctx, d)
}

// Output returns the last value seen on the Dut output.
//
func (b *Bench) Output() uint64 { return b.out }

// Circuit returns the underlying circuit.
//
func (b *Bench) Circuit() *dutsim.Circuit { return b.c }

// Module returns the Dut being tested.
//
func (b *Bench) Module() *Module { return b.m }

// Close disposes of the circuit.
//
func (b *Bench) Close() { b.c.Dispose() }
