package hwlib_test

import (
	"math/rand"
	"testing"

	hw "github.com/db47h/dutsim"
	hl "github.com/db47h/dutsim/hwlib"
	"github.com/db47h/dutsim/hwtest"
)

func randBool() bool {
	return rand.Int63()&(1<<62) != 0
}

func TestDFF(t *testing.T) {
	var in, out uint64

	dff4, err := hw.Chip("DFF4", "in[4]", "out[4]",
		hl.DFF("in=in[0], out=out[0]"),
		hl.DFF("in=in[1], out=out[1]"),
		hl.DFF("in=in[2], out=out[2]"),
		hl.DFF("in=in[3], out=out[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}

	c, err := hw.NewCircuit(hw.Parts{
		hl.InputN(4, func() uint64 { return in })("out=in"),
		dff4("in=in, out=out"),
		hl.OutputN(4, func(o uint64) { out = o })("in=out"),
	}, hw.WithStepsPerCycle(4))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	var prev uint64
	for i := 15; i >= 0; i-- {
		// inputs are delayed by one step, so DFFs do not see the new value
		// when we change it right at the beginning of a new clock cycle.
		in = uint64(i)

		c.TickTock()

		if prev != out {
			t.Fatalf("bad output for input %d: expected out = %d, got %d", prev, prev, out)
		}

		// here's the value that we should see at the end of the next cycle
		prev = uint64(i)
	}

	hwtest.ComparePart(t, 4, hl.DFFN(4), dff4)
}

func Test_bit_register(t *testing.T) {
	reg, err := hw.Chip("BitReg", "in, load", "out",
		hl.Mux("a=out, b=in, sel=load, out=muxOut"),
		hl.DFF("in=muxOut, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}

	var in, load, out bool

	c, err := hw.NewCircuit(hw.Parts{
		hl.Input(func() bool { return in })("out=dffI"),
		hl.Input(func() bool { return load })("out=dffLD"),
		reg("in=dffI, load=dffLD, out=dffO"),
		hl.Output(func(b bool) { out = b })("in=dffO"),
	}, hw.WithStepsPerCycle(4))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	p := in
	for i := 0; i < 1000; i++ {
		in = randBool()
		load = randBool()
		c.TickTock()
		if p != out {
			t.Fatal("p != out")
		}
		if load {
			p = in
		}
	}
}
