// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package dutsim provides a cycle stepped logic simulator and the tools to
compose parts into chips and elaborate them into a runnable circuit.

A circuit is a set of boolean wires and components. Each simulation step,
every component reads the current wire states and writes the next ones. A
value written during a step is visible to other components on the next step.

Parts are described by a PartSpec and wired together with connection strings:

	xor, err := dutsim.Chip("XOR", "a, b", "out",
		hwlib.Nand("a=a, b=b, out=nandAB"),
		hwlib.Nand("a=a, b=nandAB, out=w0"),
		hwlib.Nand("a=b, b=nandAB, out=w1"),
		hwlib.Nand("a=w0, b=w1, out=out"),
	)

Chip checks the wiring once, at elaboration time. NewCircuit mounts the parts
and starts the worker goroutines that update the circuit.

Besides steps, a circuit keeps track of simulated time: each step advances
the clock by the circuit resolution (1ns by default). RunFor runs a circuit
for a given amount of simulated time.

The hwlib package provides basic parts and a clock generator. The dut package
builds a device under test from a clock generator and an expression driven
processing block.
*/
package dutsim
