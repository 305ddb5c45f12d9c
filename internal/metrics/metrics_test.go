package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/db47h/dutsim"
	"github.com/db47h/dutsim/dut"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ dutsim.Observer = (*Metrics)(nil)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "dut")

	m.ObserveStep(1, time.Second)
	m.ObserveStep(2, 2*time.Second)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.steps))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.simTime))

	m.ObserveResult(dut.Result{Value: 42})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.results))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.resultValue))

	m.ObserveRun(time.Millisecond, nil)
	m.ObserveRun(time.Millisecond, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestMetrics_duplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "dut")
	assert.Panics(t, func() { New(reg, "dut") })
}

func TestMetrics_bench(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "dut")
	mod, err := dut.New(dut.Config{Expr: "cycle + 1", OnResult: m.ObserveResult})
	require.NoError(t, err)
	b, err := dut.NewBench(mod, nil, dutsim.WithObserver(m))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Run(context.Background(), 35*time.Nanosecond))
	assert.Equal(t, 35.0, testutil.ToFloat64(m.steps))
	assert.InDelta(t, 35e-9, testutil.ToFloat64(m.simTime), 1e-15)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.results))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.resultValue))
}
