package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncrim/internal/ir"
)

func TestLoadNetlist(t *testing.T) {
	s := createTestStore(t)
	run := seedRun(t, s, "run-1", 0)

	body, err := s.LoadNetlist(context.Background(), run.NetlistHash)
	require.NoError(t, err)
	assert.Equal(t, testNetlist, string(body))

	_, err = s.LoadNetlist(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadRun(t *testing.T) {
	s := createTestStore(t)
	want := seedRun(t, s, "run-1", 4)

	got, err := s.ReadRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.ReadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRuns_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	seedRun(t, s, "zz", 1)
	seedRun(t, s, "aa", 1)

	runs, err = s.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "zz", runs[0].ID)
	assert.Equal(t, "aa", runs[1].ID)
}

func TestReadCycles_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", 1)

	// Written out of order; read back by cycle number.
	c1 := NewCycle("run-1", 1, []ir.Signal{3, 0xFFFFFFFF}, []ir.Signal{3}, []Probe{{ID: "p_reg", Value: 3}})
	c0 := NewCycle("run-1", 0, []ir.Signal{3, 0}, []ir.Signal{0}, []Probe{{ID: "p_reg", Value: 0}})
	require.NoError(t, s.WriteCycle(ctx, c1))
	require.NoError(t, s.WriteCycle(ctx, c0))

	cycles, err := s.ReadCycles(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []Cycle{c0, c1}, cycles)
}

func TestReadCycles_EmptyRun(t *testing.T) {
	s := createTestStore(t)

	cycles, err := s.ReadCycles(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, cycles)
	assert.Empty(t, cycles)
}

func TestUnmarshalSignals_RejectsWideValues(t *testing.T) {
	_, err := unmarshalSignals("[4294967296]")
	assert.Error(t, err)

	_, err = unmarshalSignals("[-1]")
	assert.Error(t, err)

	got, err := unmarshalSignals("[]")
	require.NoError(t, err)
	assert.Empty(t, got)
}
