// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dutsim

import (
	"github.com/pkg/errors"
)

type chip struct {
	PartSpec       // PartSpec for this chip
	parts    Parts // sub parts
}

// mount mounts every part of the chip into a private namespace. Chip inputs and
// outputs are mapped to the pins allocated by the host socket s.
//
func (c *chip) mount(s *Socket) []Component {
	local := newSocket(s.c)
	for _, n := range c.Inputs {
		local.m[n] = s.Pin(n)
	}
	for _, n := range c.Outputs {
		local.m[n] = s.Pin(n)
	}

	subs := make([]*Socket, len(c.parts))
	// allocate output wires first so that every wire read has a pin number.
	for i, p := range c.parts {
		sub := newSocket(s.c)
		subs[i] = sub
		for _, o := range p.Outputs {
			ws := p.wires(o)
			if len(ws) == 0 {
				// unused output
				sub.m[o] = s.c.allocPin()
				continue
			}
			n := -1
			// Chip() ensures that at most one of them is a chip output.
			for _, w := range ws {
				if v, ok := local.m[w]; ok {
					n = v
					break
				}
			}
			if n < 0 {
				n = s.c.allocPin()
			}
			for _, w := range ws {
				local.m[w] = n
			}
			sub.m[o] = n
		}
	}

	var updaters []Component
	for i, p := range c.parts {
		sub := subs[i]
		for _, in := range p.Inputs {
			if ws := p.wires(in); len(ws) > 0 {
				sub.m[in] = local.Pin(ws[0])
			} else {
				// unconnected inputs read false
				sub.m[in] = cstFalse
			}
		}
		updaters = append(updaters, p.Mount(sub)...)
	}
	return updaters
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		hwlib.Nand("a=a, b=b, out=nandAB"),
//		hwlib.Nand("a=a, b=nandAB, out=w0"),
//		hwlib.Nand("a=b, b=nandAB, out=w1"),
//		hwlib.Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips:
//
//	xnor, err := Chip("XNOR", "a, b", "out",
//		xor("a=a, b=b, out=xorAB"),
//		hwlib.Not("in=xorAB, out=out"),
//	)
//
// Wiring errors are detected here, at elaboration time.
//
func Chip(name string, inputs string, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := ParseIOSpec(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" inputs")
	}
	outs, err := ParseIOSpec(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" outputs")
	}

	wr, err := newWiring(ins, outs)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	for _, p := range parts {
		if p.PartSpec == nil {
			return nil, errors.New("nil part in chip " + name)
		}
		if p.err != nil {
			return nil, p.err
		}
		for _, k := range p.Inputs {
			if ws := p.wires(k); len(ws) > 0 {
				wr.addInput(ws[0])
			}
		}
		for _, k := range p.Outputs {
			if ws := p.wires(k); len(ws) > 0 {
				if err := wr.addOutput(p.Name+"."+k, ws); err != nil {
					return nil, err
				}
			}
		}
	}

	if err = wr.check(); err != nil {
		return nil, err
	}

	c := &chip{
		PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: outs,
		},
		parts,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}
