package dut_test

import (
	"sync"
	"testing"

	"github.com/db47h/dutsim/dut"
	"github.com/stretchr/testify/assert"
)

func TestResultBuffer(t *testing.T) {
	b := dut.NewResultBuffer(3)
	_, ok := b.Last()
	assert.False(t, ok)
	assert.Empty(t, b.Results())

	for i := uint64(0); i < 5; i++ {
		b.Push(dut.Result{Cycle: i, Value: i * 10})
	}
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, uint64(5), b.Total())
	assert.Equal(t, []dut.Result{
		{Cycle: 2, Value: 20},
		{Cycle: 3, Value: 30},
		{Cycle: 4, Value: 40},
	}, b.Results())
	last, ok := b.Last()
	assert.True(t, ok)
	assert.Equal(t, uint64(40), last.Value)
}

func TestResultBuffer_minDepth(t *testing.T) {
	b := dut.NewResultBuffer(0)
	b.Push(dut.Result{Value: 1})
	b.Push(dut.Result{Value: 2})
	assert.Equal(t, []dut.Result{{Value: 2}}, b.Results())
}

func TestResultBuffer_concurrent(t *testing.T) {
	b := dut.NewResultBuffer(16)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				b.Push(dut.Result{Value: uint64(i)})
				b.Last()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(400), b.Total())
	assert.Equal(t, 16, b.Len())
}
