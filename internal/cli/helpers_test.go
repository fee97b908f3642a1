package cli

import (
	"bytes"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncrim/internal/netlist"
)

const (
	regChainCUE = "../compiler/testdata/reg_chain.cue"
	regChainHCL = "../compiler/testdata/reg_chain.hcl"
	regFileHCL  = "../harness/testdata/netlists/regfile.hcl"
	counterCUE  = "../harness/testdata/netlists/counter.cue"
	scenarioDir = "../harness/testdata/scenarios"
	goldenDir   = "../harness/testdata/golden"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeNetlist saves st as JSON under a temp dir and returns the path.
func writeNetlist(t *testing.T, st *netlist.Store) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netlist.json")
	require.NoError(t, st.SaveFile(path))
	return path
}

// writeFile writes content under a temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// danglingNetlist has a Wire reading a component that does not exist.
const danglingNetlist = `[
  {"type": "Constant", "id": "c", "pos": [0, 0], "value": 1},
  {"type": "Wire", "id": "w", "pos": [0, 0], "delta": [10, 0], "input": {"id": "ghost", "index": 0}}
]`

// execSQL edits a recorder database behind the store's back.
func execSQL(t *testing.T, dbPath, query string, args ...any) {
	t.Helper()
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	res, err := db.Exec(query, args...)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	require.Equal(t, int64(1), n, "query must touch exactly one row")
}
