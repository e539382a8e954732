package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

func seq() []types.Command {
	return []types.Command{types.CmdThrust, types.CmdRotateLeft, types.CmdFire}
}

func TestRecorderWindow(t *testing.T) {
	r := NewRecorder(3)
	for _, cmd := range []types.Command{types.CmdNoAction, types.CmdThrust, types.CmdRotateLeft, types.CmdFire} {
		r.Record(cmd)
	}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, seq(), r.Commands())
	assert.Equal(t, types.CmdThrust, r.At(0))

	unbounded := NewRecorderFrom(0, seq())
	unbounded.Record(types.CmdNoAction)
	assert.Equal(t, 4, unbounded.Len())
}

func TestCommandsReturnsCopy(t *testing.T) {
	r := NewRecorderFrom(0, seq())
	cmds := r.Commands()
	cmds[0] = types.CmdRotateRight
	assert.Equal(t, types.CmdThrust, r.At(0))
}

func TestCursorPolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    string
		want      []types.Command
		wantOK    []bool
		exhausted bool
	}{
		{
			name:   "loop",
			policy: config.ReplayLoop,
			want:   []types.Command{types.CmdThrust, types.CmdRotateLeft, types.CmdFire, types.CmdThrust, types.CmdRotateLeft},
			wantOK: []bool{true, true, true, true, true},
		},
		{
			name:      "idle",
			policy:    config.ReplayIdle,
			want:      []types.Command{types.CmdThrust, types.CmdRotateLeft, types.CmdFire, types.CmdNoAction, types.CmdNoAction},
			wantOK:    []bool{true, true, true, false, false},
			exhausted: true,
		},
		{
			name:      "despawn",
			policy:    config.ReplayDespawn,
			want:      []types.Command{types.CmdThrust, types.CmdRotateLeft, types.CmdFire, types.CmdNoAction, types.CmdNoAction},
			wantOK:    []bool{true, true, true, false, false},
			exhausted: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorderFrom(0, seq())
			c := NewCursor(tt.policy)
			for i := range tt.want {
				cmd, ok := c.Next(r)
				if cmd != tt.want[i] || ok != tt.wantOK[i] {
					t.Errorf("Next() #%d = %v, %v, want %v, %v", i, cmd, ok, tt.want[i], tt.wantOK[i])
				}
			}
			assert.Equal(t, tt.exhausted, c.Exhausted)
		})
	}
}

func TestIdleCursorResumesWhenRecordingGrows(t *testing.T) {
	r := NewRecorderFrom(0, seq())
	c := NewCursor(config.ReplayIdle)
	for range 4 {
		c.Next(r)
	}
	require.True(t, c.Exhausted)

	r.Record(types.CmdRotateRight)
	cmd, ok := c.Next(r)
	assert.True(t, ok)
	assert.Equal(t, types.CmdRotateRight, cmd)
	assert.False(t, c.Exhausted)
}

func TestCursorOnEmptyRecorder(t *testing.T) {
	c := NewCursor(config.ReplayLoop)
	cmd, ok := c.Next(NewRecorder(0))
	assert.False(t, ok)
	assert.Equal(t, types.CmdNoAction, cmd)
}

func TestCursorStateRoundTrip(t *testing.T) {
	r := NewRecorderFrom(0, seq())
	c := NewCursor(config.ReplayLoop)
	c.Next(r)

	resumed := Resume(c.State(), config.ReplayLoop)
	cmd, ok := resumed.Next(r)
	require.True(t, ok)
	assert.Equal(t, types.CmdRotateLeft, cmd)
}

func TestEncodeDecode(t *testing.T) {
	rec := Recording{Level: 4, Seed: 4, Commands: seq()}
	data, err := Encode(rec)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeRejects(t *testing.T) {
	empty, err := Encode(Recording{Level: 1, Seed: 1})
	require.NoError(t, err)
	_, err = Decode(empty)
	assert.ErrorIs(t, err, ErrEmptyRecording)

	bad, err := Encode(Recording{Level: 1, Seed: 1, Commands: []types.Command{types.CmdFire + 3}})
	require.NoError(t, err)
	_, err = Decode(bad)
	assert.Error(t, err)

	_, err = Decode([]byte{0xc1})
	assert.Error(t, err)
}
