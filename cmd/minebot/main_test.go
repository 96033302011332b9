package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), errOut.String())
	return out.String()
}

func TestPlayEmptyBoard(t *testing.T) {
	out := run(t, "play", "--height", "3", "--width", "3", "--mines", "0", "--seed", "1")
	assert.Contains(t, out, "3x3(0) seed 1")
	assert.Contains(t, out, "random move")
	assert.Contains(t, out, "won after 9 moves (8 safe, 1 random)")
}

func TestPlayQuiet(t *testing.T) {
	out := run(t, "play", "-q", "--seed", "5")
	assert.NotContains(t, out, "move (")
	assert.Regexp(t, `(won|lost) after \d+ moves`, out)
}

func TestBenchJSON(t *testing.T) {
	out := run(t, "bench", "-n", "6", "-j", "2", "--seed", "3", "--json")
	var summary game.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 6, summary.Games)
	assert.Equal(t, 6, summary.Won+summary.Lost+summary.Stuck)
}

func TestRejectsBadParams(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"play", "--mines", "100"})
	assert.ErrorIs(t, cmd.Execute(), game.ErrInvalidParams)
}
