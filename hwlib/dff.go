// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/dutsim"
)

// newDFF returns a register sampling its input on the rising edge of the
// circuit's intrinsic clock.
func newDFF(bits int) dutsim.NewPartFn {
	in, out := port{pIn, bits}, port{pOut, bits}
	return (&dutsim.PartSpec{
		Name:    partName("DFF", bits),
		Inputs:  in.names(),
		Outputs: out.names(),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			ip, outp := in.pins(s), out.pins(s)
			var q uint64
			return []dutsim.Component{func(c *dutsim.Circuit) {
				if c.AtTick() {
					q = Uint64(c, ip)
				}
				SetUint64(c, outp, q)
			}}
		}}).NewPart
}

var dff1 = newDFF(0)

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) dutsim.Part { return dff1(w) }

// DFFN returns a N-bits register.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out(t) = in(t-1)
//
func DFFN(bits int) dutsim.NewPartFn { return newDFF(bits) }
