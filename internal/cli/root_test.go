package cli

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncrim/internal/testutil"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "syncrim", cmd.Use)
	assert.Contains(t, cmd.Short, "SyncRim")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "run", "inspect", "replay", "test", "trace"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command string
		flag    string
		defVal  string
	}{
		{"compile", "output", ""},
		{"run", "cycles", "1"},
		{"run", "db", ""},
		{"run", "probe", "[]"},
		{"run", "history-limit", "0"},
		{"inspect", "cycles", "0"},
		{"replay", "db", ""},
		{"replay", "run", ""},
		{"trace", "db", ""},
		{"trace", "run", ""},
		{"trace", "plot", ""},
		{"test", "update", "false"},
		{"test", "filter", ""},
		{"test", "golden-dir", ""},
	}

	root := NewRootCommand()
	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			sub, _, err := root.Find([]string{tt.command})
			require.NoError(t, err)
			f := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.defVal, f.DefValue)
		})
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "validate", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestVerboseConfiguresLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	buf := &bytes.Buffer{}
	configureLogging(buf, true)
	slog.Debug("clocked", "cycle", 3)
	assert.Contains(t, buf.String(), "clocked cycle=3")

	buf.Reset()
	configureLogging(buf, false)
	slog.Debug("clocked", "cycle", 4)
	slog.Warn("slow")
	assert.NotContains(t, buf.String(), "clocked")
	assert.Contains(t, buf.String(), "slow")
}

func TestRootRunsSubcommand(t *testing.T) {
	path := writeNetlist(t, testutil.RegisterChain())

	cmd := NewRootCommand()
	out, err := execute(t, cmd, "--format", "text", "run", path, "--cycles", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "cycle 1: p_reg=3")
}
