package dutsim_test

import (
	"context"
	"testing"
	"time"

	hw "github.com/db47h/dutsim"
	hl "github.com/db47h/dutsim/hwlib"
	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
)

const testTPC = 16

// Test a basic clock with a Nor gate.
//
// The purpose of this test is to catch changes in propagation delays
// from Inputs and Outputs as well as testing loops between input and outputs.
//
func Test_clock(t *testing.T) {
	var disable, tick bool

	check := func(v bool) {
		t.Helper()
		if tick != v {
			t.Errorf("expected %v, got %v", v, tick)
		}
	}
	// we could implement the clock directly as a Nor in the circuit (with no less gate delays)
	// but we wrap it into a stand-alone chip in order to add a layer complexity
	// for testing purposes.
	clk, err := hw.Chip("CLK", "disable", "tick",
		hl.Nor("a=disable, b=tick, out=tick"),
	)
	if err != nil {
		t.Fatal(err)
	}
	c, err := hw.NewCircuit(hw.Parts{
		hl.Input(func() bool { return disable })("out=disable"),
		clk("disable=disable, tick=out"),
		hl.Output(func(out bool) { tick = out })("in=out"),
	}, hw.WithStepsPerCycle(testTPC), hw.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	// we have two wires: "disable" and "out".
	// note that Output("out", ...) is delayed by one tick after the Nand updates it.

	disable = true
	c.Step()
	check(false)
	c.Step()
	// this is an expected signal change appearing in the first couple of ticks due to signal propagation delay
	check(true)
	c.Step()
	check(false)
	c.Step()
	check(false)

	disable = false
	c.Step()
	check(false)
	c.Step()
	check(false)
	c.Step()
	// the clock starts ticking now.
	check(true)
	c.Step()
	check(false)
	c.Step()
	check(true)
	disable = true
	c.Step()
	check(false)
	c.Step()
	check(true)
	c.Step()
	// the clock stops ticking now.
	check(false)
	c.Step()
	check(false)
}

func TestCircuit_TickTock(t *testing.T) {
	var clk []bool
	c, err := hw.NewCircuit(hw.Parts{
		hl.Output(func(v bool) { clk = append(clk, v) })("in=clk"),
	}, hw.WithStepsPerCycle(3), hw.WithResolution(2*time.Nanosecond))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	if c.SPC() != 4 {
		t.Fatalf("SPC() = %d, expected 4", c.SPC())
	}
	if !c.AtTick() || c.AtTock() {
		t.Fatal("step 0 must be at tick")
	}
	c.Tick()
	if c.Steps() != 2 || !c.AtTock() {
		t.Fatalf("after Tick: steps = %d, expected 2", c.Steps())
	}
	c.Tock()
	if c.Steps() != 4 || !c.AtTick() {
		t.Fatalf("after Tock: steps = %d, expected 4", c.Steps())
	}
	c.TickTock()
	if c.Now() != 16*time.Nanosecond {
		t.Fatalf("Now() = %v, expected 16ns", c.Now())
	}
	exp := []bool{true, true, false, false, true, true, false, false}
	if len(clk) != len(exp) {
		t.Fatalf("got %d samples, expected %d", len(clk), len(exp))
	}
	for i := range exp {
		if clk[i] != exp[i] {
			t.Fatalf("clk at step %d = %v, expected %v", i, clk[i], exp[i])
		}
	}
}

type stepCounter struct {
	steps uint
	now   time.Duration
}

func (s *stepCounter) ObserveStep(steps uint, now time.Duration) {
	s.steps, s.now = steps, now
}

func TestCircuit_RunFor(t *testing.T) {
	obs := new(stepCounter)
	c, err := hw.NewCircuit(hw.Parts{
		hl.Not("in=true, out=x"),
		hl.Output(func(bool) {})("in=x"),
	}, hw.WithWorkers(2), hw.WithObserver(obs))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	if err = c.RunFor(context.Background(), 100*time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	if c.Steps() != 100 || obs.steps != 100 || obs.now != 100*time.Nanosecond {
		t.Fatalf("steps = %d, observed %d steps at %v", c.Steps(), obs.steps, obs.now)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err = c.RunFor(ctx, time.Microsecond); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.Steps() != 100 {
		t.Fatalf("canceled run must not step, steps = %d", c.Steps())
	}
}

func TestCircuit_Fail(t *testing.T) {
	boom := errors.New("boom")
	failing := (&hw.PartSpec{
		Name:    "failing",
		Outputs: hw.Out("out"),
		Mount: func(s *hw.Socket) []hw.Component {
			out := s.Pin("out")
			return []hw.Component{func(c *hw.Circuit) {
				if c.Steps() == 5 {
					c.Fail(boom)
				}
				if c.Steps() == 6 {
					c.Fail(errors.New("second failure"))
				}
				c.Set(out, true)
			}}
		}}).NewPart
	c, err := hw.NewCircuit(hw.Parts{
		failing("out=x"),
		hl.Output(func(bool) {})("in=x"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	err = c.RunFor(context.Background(), time.Microsecond)
	if err != boom {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if c.Steps() != 6 {
		t.Fatalf("run must stop right after the failure, steps = %d", c.Steps())
	}
	c.Step()
	if c.Err() != boom {
		t.Fatalf("first failure must be kept, got %v", c.Err())
	}
	// Dispose is idempotent
	c.Dispose()
}
