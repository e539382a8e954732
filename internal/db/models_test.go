package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/besuhoff/dungeon-maze-go/internal/replay"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

func TestNewRunPacksRecording(t *testing.T) {
	rec := replay.Recording{
		Level:    4,
		Seed:     99,
		Commands: []types.Command{types.CmdThrust, types.CmdFire, types.CmdRotateLeft},
	}

	run, err := NewRun(rec, 1234, "completed", "abc")
	require.NoError(t, err)
	assert.Equal(t, 4, run.Level)
	assert.Equal(t, int64(99), run.Seed)
	assert.Equal(t, int64(1234), run.Ticks)
	assert.Equal(t, 3, run.Commands)
	assert.NotEmpty(t, run.Recording)

	back, err := run.Replay()
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestNewRunRejectsEmptyRecording(t *testing.T) {
	_, err := NewRun(replay.Recording{Level: 1}, 10, "completed", "")
	assert.ErrorIs(t, err, replay.ErrEmptyRecording)
}

func TestDisabledWithoutConnection(t *testing.T) {
	assert.False(t, Enabled())
	assert.NoError(t, Disconnect())
}
