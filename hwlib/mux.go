// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/dutsim"
)

func newMux(bits int) dutsim.NewPartFn {
	a, b, sel, out := port{pA, bits}, port{pB, bits}, port{pSel, 0}, port{pOut, bits}
	return (&dutsim.PartSpec{
		Name:    partName("MUX", bits),
		Inputs:  append(append(a.names(), b.names()...), sel.name),
		Outputs: out.names(),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			ap, bp, sp, outp := a.pins(s), b.pins(s), s.Pin(sel.name), out.pins(s)
			return []dutsim.Component{func(c *dutsim.Circuit) {
				src := ap
				if c.Get(sp) {
					src = bp
				}
				SetUint64(c, outp, Uint64(c, src))
			}}
		}}).NewPart
}

func newDMux(bits int) dutsim.NewPartFn {
	in, sel, a, b := port{pIn, bits}, port{pSel, 0}, port{pA, bits}, port{pB, bits}
	return (&dutsim.PartSpec{
		Name:    partName("DMUX", bits),
		Inputs:  append(in.names(), sel.name),
		Outputs: append(a.names(), b.names()...),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			ip, sp, ap, bp := in.pins(s), s.Pin(sel.name), a.pins(s), b.pins(s)
			return []dutsim.Component{func(c *dutsim.Circuit) {
				v := Uint64(c, ip)
				if c.Get(sp) {
					SetUint64(c, ap, 0)
					SetUint64(c, bp, v)
				} else {
					SetUint64(c, ap, v)
					SetUint64(c, bp, 0)
				}
			}}
		}}).NewPart
}

var (
	mux1  = newMux(0)
	dmux1 = newDMux(0)
)

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(w string) dutsim.Part { return mux1(w) }

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux(w string) dutsim.Part { return dmux1(w) }

// MuxN returns a N-bits multiplexer.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: if sel == 0 { out = a } else { out = b }
//
func MuxN(bits int) dutsim.NewPartFn { return newMux(bits) }

// DMuxN returns a N-bits demultiplexer.
//
//	Inputs: in[bits], sel
//	Outputs: a[bits], b[bits]
//
func DMuxN(bits int) dutsim.NewPartFn { return newDMux(bits) }
