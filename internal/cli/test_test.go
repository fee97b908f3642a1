package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wrongValueScenario = `name: wrong_value
components:
  - {type: Constant, id: c, value: 3}
  - {type: Probe, id: p, input: {id: c, index: 0}}
expect:
  p: 4
`

func TestTestCommandRunsScenarios(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), scenarioDir, "--golden-dir", goldenDir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ register_delay\n")
	assert.Contains(t, out, "✓ mux_out_of_range\n")
	assert.Contains(t, out, "✓ combinatorial_loop\n")
	assert.Contains(t, out, "7 passed, 0 failed, 7 total")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), scenarioDir, "--filter", "register_*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)
	for _, s := range resp.Data.Scenarios {
		assert.Contains(t, []string{"register_delay", "register_loop"}, s.Name)
	}
}

func TestTestCommandSingleFile(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		filepath.Join(scenarioDir, "mux_select.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandUpdateGolden(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		filepath.Join(scenarioDir, "register_delay.yaml"), "--golden-dir", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ register_delay (golden updated)")

	got, err := os.ReadFile(filepath.Join(dir, "register_delay.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(goldenDir, "register_delay.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	_, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		filepath.Join(scenarioDir, "register_delay.yaml"), "--golden-dir", dir)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "register_delay.golden"), []byte(`{"trace":[]}`), 0644))

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		filepath.Join(scenarioDir, "register_delay.yaml"), "--golden-dir", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ register_delay")
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandFailingScenario(t *testing.T) {
	path := writeFile(t, "wrong_value.yaml", wrongValueScenario)

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_value")
	assert.Contains(t, out, "probe p = 3, want 4")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTestCommandInvalidScenario(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), "../harness/testdata/invalid")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Failed)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	for _, s := range resp.Data.Scenarios {
		require.NotEmpty(t, s.Errors)
		assert.Contains(t, s.Errors[0], "failed to load scenario")
	}
}

func TestTestCommandNoScenarios(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingPath(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
