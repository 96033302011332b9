package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	games := 40
	if testing.Short() {
		games = 8
	}

	summary, err := RunBatch(context.Background(), DefaultParams, games, 4, 100)
	require.NoError(t, err)

	assert.Equal(t, games, summary.Games)
	assert.Equal(t, games, summary.Won+summary.Lost)
	assert.Zero(t, summary.Stuck)
	assert.InDelta(t, float64(summary.Won)/float64(games), summary.WinRate, 1e-9)
	assert.Positive(t, summary.SafeMoves)
	assert.GreaterOrEqual(t, summary.RandomMoves, games)

	again, err := RunBatch(context.Background(), DefaultParams, games, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, summary, again, "a batch is reproducible from its seed")
}

func TestRunBatchInvalidParams(t *testing.T) {
	_, err := RunBatch(context.Background(), Params{Height: 2, Width: 2, Mines: 5}, 3, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunBatch(ctx, DefaultParams, 10, 2, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
