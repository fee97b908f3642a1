package simulator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncrim/internal/component"
	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/netlist"
	"github.com/roach88/syncrim/internal/testutil"
)

func TestCounterAdvances(t *testing.T) {
	sim := mustNew(t, testutil.Counter(3))

	for cycle := 0; cycle < 5; cycle++ {
		assert.Equal(t, cycle, sim.Cycle())
		assert.Equal(t, ir.Signal(3*cycle), probe(t, sim, "p_count"))
		assert.Equal(t, ir.Signal(3*cycle+3), probe(t, sim, "p_next"))
		require.NoError(t, sim.Clock())
	}
}

func TestCounterWrapsAround(t *testing.T) {
	store := testutil.MustStore(
		&component.Register{Base: component.Base{ID: "count"}, RIn: testutil.In("add", 0), Init: 0xFFFFFFFF},
		component.NewConstant("one", 1),
		component.NewAdd("add", testutil.In("count", 0), testutil.In("one", 0)),
	)
	sim := mustNew(t, store)

	overflow, err := sim.Value("add", 1)
	require.NoError(t, err)
	assert.Equal(t, ir.Signal(1), overflow)

	require.NoError(t, sim.Clock())
	v, err := sim.Value("count", 0)
	require.NoError(t, err)
	assert.Equal(t, ir.Signal(0), v)
}

func TestClockThenUnClockRestoresState(t *testing.T) {
	stores := map[string]func() *netlist.Store{
		"register chain":    testutil.RegisterChain,
		"counter":           func() *netlist.Store { return testutil.Counter(7) },
		"regfile readfirst": func() *netlist.Store { return testutil.RegFileWrite(component.ReadFirst) },
		"regfile writefirst": func() *netlist.Store {
			return testutil.RegFileWrite(component.WriteFirst)
		},
	}

	for name, build := range stores {
		t.Run(name, func(t *testing.T) {
			sim := mustNew(t, build())
			initial := sim.State()

			n := 1 + rand.Intn(20)
			require.NoError(t, sim.Run(n))
			assert.Equal(t, n, sim.HistoryLen())

			for i := 0; i < n; i++ {
				require.NoError(t, sim.UnClock())
			}
			assert.Equal(t, initial, sim.State())
			assert.Equal(t, 0, sim.HistoryLen())
		})
	}
}

func TestUnClockRestoresEachIntermediateState(t *testing.T) {
	sim := mustNew(t, testutil.Counter(1))

	var seen []State
	for i := 0; i < 6; i++ {
		seen = append(seen, sim.State())
		require.NoError(t, sim.Clock())
	}

	for i := len(seen) - 1; i >= 0; i-- {
		require.NoError(t, sim.UnClock())
		assert.Equal(t, seen[i], sim.State(), "cycle %d", i)
	}
}

func TestUnClockUnderflow(t *testing.T) {
	sim := mustNew(t, testutil.RegisterChain())
	before := sim.State()

	err := sim.UnClock()
	assert.ErrorIs(t, err, ErrHistoryUnderflow)
	assert.True(t, IsHistoryUnderflow(err))
	assert.Equal(t, before, sim.State())

	require.NoError(t, sim.Clock())
	require.NoError(t, sim.UnClock())
	assert.True(t, IsHistoryUnderflow(sim.UnClock()))
}

func TestClockAfterUnClockRecomputes(t *testing.T) {
	sim := mustNew(t, testutil.Counter(2))
	require.NoError(t, sim.Run(3))
	after := sim.State()

	require.NoError(t, sim.UnClock())
	require.NoError(t, sim.Clock())
	assert.Equal(t, after, sim.State())
}

func TestReset(t *testing.T) {
	sim := mustNew(t, testutil.Counter(1))
	initial := sim.State()

	require.NoError(t, sim.Run(4))
	require.NoError(t, sim.Reset())

	assert.Equal(t, 0, sim.Cycle())
	assert.Equal(t, initial, sim.State())
	assert.Equal(t, 0, sim.HistoryLen())
	assert.True(t, IsHistoryUnderflow(sim.UnClock()))
}

func TestResetRestoresRegFileContents(t *testing.T) {
	sim := mustNew(t, testutil.RegFileWrite(component.ReadFirst))
	require.NoError(t, sim.Clock())
	assert.Equal(t, ir.Signal(42), probe(t, sim, "p_rd1"))

	require.NoError(t, sim.Reset())
	assert.Equal(t, ir.Signal(0), probe(t, sim, "p_rd1"))
}

func TestHistoryLimit(t *testing.T) {
	sim := mustNew(t, testutil.Counter(1), WithHistoryLimit(2))

	require.NoError(t, sim.Run(5))
	assert.Equal(t, 2, sim.HistoryLen())

	require.NoError(t, sim.UnClock())
	require.NoError(t, sim.UnClock())
	assert.Equal(t, 3, sim.Cycle())
	assert.Equal(t, ir.Signal(3), probe(t, sim, "p_count"))
	assert.True(t, IsHistoryUnderflow(sim.UnClock()))
}

func TestHistoryLimitReleasesDroppedSnapshots(t *testing.T) {
	sim := mustNew(t, testutil.Counter(1), WithHistoryLimit(2))
	require.NoError(t, sim.Run(6))

	require.Len(t, sim.history, 2)
	assert.Equal(t, 4, sim.history[0].Cycle)
	assert.Equal(t, 5, sim.history[1].Cycle)

	backing := sim.history[:cap(sim.history)]
	for i := len(sim.history); i < len(backing); i++ {
		assert.Nil(t, backing[i].Signals, "slot %d still holds a dropped snapshot", i)
		assert.Nil(t, backing[i].Storage, "slot %d still holds a dropped snapshot", i)
	}
}

// SelectCounter's select goes out of range on cycle 2.
func TestFailedClockLeavesStateIntact(t *testing.T) {
	sim := mustNew(t, testutil.SelectCounter())
	assert.Equal(t, ir.Signal(10), probe(t, sim, "p_mux"))

	require.NoError(t, sim.Clock())
	assert.Equal(t, ir.Signal(20), probe(t, sim, "p_mux"))
	before := sim.State()

	err := sim.Clock()
	require.Error(t, err)
	assert.True(t, IsIndexError(err))
	assert.Contains(t, err.Error(), "clock to cycle 2")

	assert.Equal(t, before, sim.State())
	assert.Equal(t, 1, sim.HistoryLen())

	require.NoError(t, sim.UnClock())
	assert.Equal(t, 0, sim.Cycle())
}

func TestRunStopsAtFirstError(t *testing.T) {
	sim := mustNew(t, testutil.SelectCounter())

	err := sim.Run(10)
	require.Error(t, err)
	assert.Equal(t, 1, sim.Cycle())
}
