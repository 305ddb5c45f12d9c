// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/dutsim"
)

// Uint64 returns the value of a bus. pins[0] is the least significant bit.
//
func Uint64(c *dutsim.Circuit, pins []int) uint64 {
	var v uint64
	for i, p := range pins {
		if c.Get(p) {
			v |= 1 << uint(i)
		}
	}
	return v
}

// SetUint64 drives a bus with v. Bits of v above len(pins) are ignored.
//
func SetUint64(c *dutsim.Circuit, pins []int, v uint64) {
	for i, p := range pins {
		c.Set(p, v>>uint(i)&1 != 0)
	}
}

func source(name string, bits int, f func() uint64) dutsim.NewPartFn {
	out := port{pOut, bits}
	return (&dutsim.PartSpec{
		Name:    partName(name, bits),
		Outputs: out.names(),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			pins := out.pins(s)
			return []dutsim.Component{func(c *dutsim.Circuit) {
				SetUint64(c, pins, f())
			}}
		}}).NewPart
}

func sink(name string, bits int, f func(uint64)) dutsim.NewPartFn {
	in := port{pIn, bits}
	return (&dutsim.PartSpec{
		Name:   partName(name, bits),
		Inputs: in.names(),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			pins := in.pins(s)
			return []dutsim.Component{func(c *dutsim.Circuit) {
				f(Uint64(c, pins))
			}}
		}}).NewPart
}

// Input creates a function based input. f is called on every step.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() bool) dutsim.NewPartFn {
	return source("INPUT", 0, func() uint64 {
		if f() {
			return 1
		}
		return 0
	})
}

// Output creates an output or probe. f is called with the state of in on
// every step.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(bool)) dutsim.NewPartFn {
	return sink("OUTPUT", 0, func(v uint64) { f(v != 0) })
}

// InputN creates an input bus of the given bits size.
//
//	Outputs: out[bits]
//	Function: out = f()
//
func InputN(bits int, f func() uint64) dutsim.NewPartFn { return source("INPUT", bits, f) }

// OutputN creates an output bus of the given bits size.
//
//	Inputs: in[bits]
//	Function: f(in)
//
func OutputN(bits int, f func(uint64)) dutsim.NewPartFn { return sink("OUTPUT", bits, f) }
