// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/dutsim"
	"github.com/db47h/dutsim/hwlib"
	"github.com/pkg/errors"
)

// maxExhaustive is the maximum input count for which ComparePart tries every
// input combination.
const maxExhaustive = 12

func samePins(kind string, a, b []string) error {
	if len(a) != len(b) {
		return errors.Errorf("%s count mismatch: %d != %d", kind, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return errors.Errorf("%s #%d mismatch: %q != %q", kind, i, a[i], b[i])
		}
	}
	return nil
}

// conns maps every input pin to a wire with the same name and every output
// pin to a wire with the given prefix.
func conns(ins, outs []string, prefix string) string {
	var b strings.Builder
	add := func(pin, wire string) {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pin)
		b.WriteByte('=')
		b.WriteString(wire)
	}
	for _, n := range ins {
		add(n, n)
	}
	for _, n := range outs {
		add(n, prefix+n)
	}
	return b.String()
}

// ComparePart takes two parts and compares their outputs given the same inputs.
// Both parts must have the same pin names, in the same order.
//
// Inputs change once per clock cycle and outputs are compared at the end of
// every cycle. Parts with up to 12 inputs are tested exhaustively, others with
// 4096 random input vectors.
//
func ComparePart(t *testing.T, tpc uint, part1 dutsim.NewPartFn, part2 dutsim.NewPartFn) {
	t.Helper()

	ref, dut := part1(""), part2("")
	if err := samePins("input", ref.Inputs, dut.Inputs); err != nil {
		t.Fatal(err)
	}
	if err := samePins("output", ref.Outputs, dut.Outputs); err != nil {
		t.Fatal(err)
	}
	ins, outs := ref.Inputs, ref.Outputs

	inputs := make([]bool, len(ins))
	got := make([][2]bool, len(outs))

	parts := dutsim.Parts{
		part1(conns(ins, outs, "x_")),
		part2(conns(ins, outs, "y_")),
	}
	for i, n := range ins {
		i := i
		parts = append(parts, hwlib.Input(func() bool { return inputs[i] })("out="+n))
	}
	for i, n := range outs {
		i := i
		parts = append(parts,
			hwlib.Output(func(v bool) { got[i][0] = v })("in=x_"+n),
			hwlib.Output(func(v bool) { got[i][1] = v })("in=y_"+n))
	}

	c, err := dutsim.NewCircuit(parts, dutsim.WithStepsPerCycle(tpc))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	check := func() {
		t.Helper()
		c.TickTock()
		for o := range got {
			if got[o][0] != got[o][1] {
				var b strings.Builder
				for i, n := range ins {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(n)
					if inputs[i] {
						b.WriteString("=1")
					} else {
						b.WriteString("=0")
					}
				}
				t.Fatalf("%s: %s = %v, got %v", b.String(), outs[o], got[o][0], got[o][1])
			}
		}
	}

	start := time.Now()
	if len(ins) <= maxExhaustive {
		for v := 0; v < 1<<uint(len(ins)); v++ {
			for i := range inputs {
				inputs[i] = v>>uint(i)&1 != 0
			}
			check()
		}
	} else {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for n := 0; n < 1<<maxExhaustive; n++ {
			for i := range inputs {
				inputs[i] = rnd.Int63()&1 != 0
			}
			check()
		}
	}
	elapsed := time.Since(start)
	cycles := c.Steps() / c.SPC()
	t.Logf("%d components, %d steps in %v, %d clock cycles => %.2f Hz",
		c.Size(), c.Steps(), elapsed, cycles, float64(cycles)/elapsed.Seconds())
}
