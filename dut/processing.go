// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import (
	"strconv"

	"github.com/db47h/dutsim"
	"github.com/db47h/dutsim/hwlib"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Processing block pin names.
const (
	PinIn  = "in"
	PinClk = "clk"
	PinOut = "out"
)

// Expression variables.
const (
	VarInput = "input"
	VarAcc   = "acc"
	VarCycle = "cycle"
)

// DefaultExpr is the default processing expression. It registers the input.
const DefaultExpr = VarInput

// ProcessingSpec describes a processing block.
//
type ProcessingSpec struct {
	// Part name. Defaults to "process".
	Name string
	// Width of the in and out buses, 1 to 64 bits.
	Width int
	// Expr is evaluated on every rising edge of clk. It can use the input
	// bus value (input), the current register value (acc) and the clock
	// edge count (cycle). The result is truncated to Width bits.
	Expr string
	// OnResult, if not nil, is called with every computed result. It is
	// called from a circuit worker goroutine.
	OnResult func(Result)
}

func exprEnv(in, acc, cycle uint64) map[string]interface{} {
	return map[string]interface{}{
		VarInput: int64(in),
		VarAcc:   int64(acc),
		VarCycle: int64(cycle),
	}
}

// Processing returns a clocked processing block.
//
//	Inputs: in[width], clk
//	Outputs: out[width]
//	Function: on clk rising edge: out = Expr(input=in, acc=out, cycle=edge count)
//
// The expression is compiled here, so that syntax and type errors are caught
// before the block is mounted into a circuit. Evaluation errors are reported
// with Circuit.Fail and leave the register unchanged.
//
func Processing(spec ProcessingSpec) (dutsim.NewPartFn, error) {
	if spec.Name == "" {
		spec.Name = "process"
	}
	if spec.Width < 1 || spec.Width > 64 {
		return nil, errors.Errorf("%s: invalid width %d", spec.Name, spec.Width)
	}
	if spec.Expr == "" {
		spec.Expr = DefaultExpr
	}
	prog, err := expr.Compile(spec.Expr, expr.Env(exprEnv(0, 0, 0)), expr.AsInt64())
	if err != nil {
		return nil, errors.Wrapf(err, "%s: compile %q", spec.Name, spec.Expr)
	}
	mask := ^uint64(0)
	if spec.Width < 64 {
		mask = 1<<uint(spec.Width) - 1
	}
	ws := "[" + strconv.Itoa(spec.Width) + "]"
	p := &processing{spec: spec, prog: prog, mask: mask}
	return (&dutsim.PartSpec{
		Name:    spec.Name,
		Inputs:  dutsim.In(PinIn + ws + ", " + PinClk),
		Outputs: dutsim.Out(PinOut + ws),
		Mount:   p.mount,
	}).NewPart, nil
}

type processing struct {
	spec ProcessingSpec
	prog *vm.Program
	mask uint64
}

func (p *processing) mount(s *dutsim.Socket) []dutsim.Component {
	in, clk, out := s.Bus(PinIn, p.spec.Width), s.Pin(PinClk), s.Bus(PinOut, p.spec.Width)
	log := s.Logger().With(zap.String("part", p.spec.Name))
	var (
		reg   uint64
		prev  bool
		cycle uint64
	)
	return []dutsim.Component{
		func(c *dutsim.Circuit) {
			edge := c.Get(clk)
			if edge && !prev {
				v, err := expr.Run(p.prog, exprEnv(hwlib.Uint64(c, in), reg, cycle))
				if err != nil {
					log.Error("evaluation failed", zap.Uint64("cycle", cycle), zap.Error(err))
					c.Fail(errors.Wrapf(err, "%s: cycle %d", p.spec.Name, cycle))
				} else {
					reg = uint64(v.(int64)) & p.mask
					if p.spec.OnResult != nil {
						p.spec.OnResult(Result{Cycle: cycle, Time: c.Now(), Value: reg})
					}
				}
				cycle++
			}
			prev = edge
			hwlib.SetUint64(c, out, reg)
		}}
}
