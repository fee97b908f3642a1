package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncrim/internal/ir"
)

func TestGetRunState_Complete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", 2)

	for i := 0; i <= 2; i++ {
		require.NoError(t, s.WriteCycle(ctx, NewCycle("run-1", i, []ir.Signal{ir.Signal(i)}, nil, nil)))
	}

	state, err := s.GetRunState(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, state.IsComplete)
	assert.Equal(t, 2, state.LastCycle)
	assert.Len(t, state.Cycles, 3)
	assert.Empty(t, state.Missing)
	assert.Empty(t, state.Corrupt)
}

func TestGetRunState_Interrupted(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", 3)

	require.NoError(t, s.WriteCycle(ctx, NewCycle("run-1", 0, []ir.Signal{0}, nil, nil)))
	require.NoError(t, s.WriteCycle(ctx, NewCycle("run-1", 2, []ir.Signal{2}, nil, nil)))

	state, err := s.GetRunState(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, state.IsComplete)
	assert.Equal(t, 2, state.LastCycle)
	assert.Equal(t, []int{1, 3}, state.Missing)
}

func TestGetRunState_Corrupt(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", 0)

	c := NewCycle("run-1", 0, []ir.Signal{7}, nil, nil)
	c.StateHash = "tampered"
	require.NoError(t, s.WriteCycle(ctx, c))

	state, err := s.GetRunState(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, state.IsComplete)
	assert.Equal(t, []int{0}, state.Corrupt)
}

func TestGetRunState_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	state, err := s.GetRunState(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, -1, state.LastCycle)
}

func TestUUIDv7Generator(t *testing.T) {
	var gen RunIDGenerator = UUIDv7Generator{}

	a, b := gen.Generate(), gen.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
