// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for dutsim.
//
// Parts come in two flavors: single bit parts with plain pin names (Not,
// And, Mux, DFF...) and N-bits parts with bus pins (NotN, AndN, MuxN,
// DFFN...). Both are implemented on top of the same word-level logic: bus
// values are read and written as uint64, pin 0 being the least significant
// bit.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/dutsim"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// port names a part port. A zero width denotes a single, unindexed pin.
type port struct {
	name string
	bits int
}

func (p port) names() []string {
	if p.bits == 0 {
		return []string{p.name}
	}
	return bus(p.bits, p.name)
}

func (p port) pins(s *dutsim.Socket) []int {
	if p.bits == 0 {
		return []int{s.Pin(p.name)}
	}
	return s.Bus(p.name, p.bits)
}

// bus returns the pin names of the given buses.
func bus(bits int, names ...string) []string {
	b := make([]string, 0, len(names)*bits)
	for _, n := range names {
		for j := 0; j < bits; j++ {
			b = append(b, dutsim.BusPinName(n, j))
		}
	}
	return b
}

func partName(name string, bits int) string {
	if bits == 0 {
		return name
	}
	return name + strconv.Itoa(bits)
}

func unaryGate(name string, bits int, op func(uint64) uint64) dutsim.NewPartFn {
	in, out := port{pIn, bits}, port{pOut, bits}
	return (&dutsim.PartSpec{
		Name:    partName(name, bits),
		Inputs:  in.names(),
		Outputs: out.names(),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			inp, outp := in.pins(s), out.pins(s)
			return []dutsim.Component{func(c *dutsim.Circuit) {
				SetUint64(c, outp, op(Uint64(c, inp)))
			}}
		}}).NewPart
}

func binaryGate(name string, bits int, op func(a, b uint64) uint64) dutsim.NewPartFn {
	a, b, out := port{pA, bits}, port{pB, bits}, port{pOut, bits}
	return (&dutsim.PartSpec{
		Name:    partName(name, bits),
		Inputs:  append(a.names(), b.names()...),
		Outputs: out.names(),
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			ap, bp, outp := a.pins(s), b.pins(s), out.pins(s)
			return []dutsim.Component{func(c *dutsim.Circuit) {
				SetUint64(c, outp, op(Uint64(c, ap), Uint64(c, bp)))
			}}
		}}).NewPart
}

// word level logic functions. Extra high bits are ignored by SetUint64.
func not(a uint64) uint64     { return ^a }
func and(a, b uint64) uint64  { return a & b }
func nand(a, b uint64) uint64 { return ^(a & b) }
func or(a, b uint64) uint64   { return a | b }
func nor(a, b uint64) uint64  { return ^(a | b) }
func xor(a, b uint64) uint64  { return a ^ b }
func xnor(a, b uint64) uint64 { return ^(a ^ b) }

var (
	not1  = unaryGate("NOT", 0, not)
	and1  = binaryGate("AND", 0, and)
	nand1 = binaryGate("NAND", 0, nand)
	or1   = binaryGate("OR", 0, or)
	nor1  = binaryGate("NOR", 0, nor)
	xor1  = binaryGate("XOR", 0, xor)
	xnor1 = binaryGate("XNOR", 0, xnor)
)

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) dutsim.Part { return not1(w) }

// And returns an AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func And(w string) dutsim.Part { return and1(w) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(w string) dutsim.Part { return nand1(w) }

// Or returns an OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func Or(w string) dutsim.Part { return or1(w) }

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func Nor(w string) dutsim.Part { return nor1(w) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a != b
//
func Xor(w string) dutsim.Part { return xor1(w) }

// Xnor returns a XNOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a == b
//
func Xnor(w string) dutsim.Part { return xnor1(w) }

// NotN returns a N-bits NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = ^in
//
func NotN(bits int) dutsim.NewPartFn { return unaryGate("NOT", bits, not) }

// GateN returns a N-bits gate computing out = f(a, b). Bits of f's result
// above bits are ignored.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//
func GateN(name string, bits int, f func(a, b uint64) uint64) dutsim.NewPartFn {
	return binaryGate(name, bits, f)
}

// AndN returns a N-bits AND gate.
//
func AndN(bits int) dutsim.NewPartFn { return binaryGate("AND", bits, and) }

// NandN returns a N-bits NAND gate.
//
func NandN(bits int) dutsim.NewPartFn { return binaryGate("NAND", bits, nand) }

// OrN returns a N-bits OR gate.
//
func OrN(bits int) dutsim.NewPartFn { return binaryGate("OR", bits, or) }

// NorN returns a N-bits NOR gate.
//
func NorN(bits int) dutsim.NewPartFn { return binaryGate("NOR", bits, nor) }

// XorN returns a N-bits XOR gate.
//
func XorN(bits int) dutsim.NewPartFn { return binaryGate("XOR", bits, xor) }

// XnorN returns a N-bits XNOR gate.
//
func XnorN(bits int) dutsim.NewPartFn { return binaryGate("XNOR", bits, xnor) }
