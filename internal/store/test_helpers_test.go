package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/syncrim/internal/ir"
)

// createTestStore opens a store in a fresh temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const testNetlist = `[{"type":"Constant","id":"c","pos":[0,0],"value":3}]`

// seedRun saves testNetlist and a run over it.
func seedRun(t *testing.T, s *Store, id string, cycles int) Run {
	t.Helper()
	ctx := context.Background()
	hash := ir.MustNetlistHash([]byte(testNetlist))
	require.NoError(t, s.SaveNetlist(ctx, hash, []byte(testNetlist)))

	run, err := s.WriteRun(ctx, Run{
		ID:            id,
		NetlistHash:   hash,
		Source:        "test.json",
		EngineVersion: ir.EngineVersion,
		Cycles:        cycles,
	})
	require.NoError(t, err)
	return run
}
