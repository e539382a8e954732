package replay

import (
	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// Recorder is the append-only command log replaying enemies read from.
// With a window size it keeps only the most recent commands.
type Recorder struct {
	commands []types.Command
	window   int
}

// NewRecorder creates a recorder. A window of 0 keeps everything.
func NewRecorder(window int) *Recorder {
	return &Recorder{window: window}
}

// NewRecorderFrom seeds a recorder with a previous run's commands.
func NewRecorderFrom(window int, commands []types.Command) *Recorder {
	r := NewRecorder(window)
	for _, cmd := range commands {
		r.Record(cmd)
	}
	return r
}

// Record appends a command, dropping the oldest when the window is full.
func (r *Recorder) Record(cmd types.Command) {
	r.commands = append(r.commands, cmd)
	if r.window > 0 && len(r.commands) > r.window {
		// shift in place so the backing array does not grow without bound
		n := copy(r.commands, r.commands[len(r.commands)-r.window:])
		r.commands = r.commands[:n]
	}
}

func (r *Recorder) Len() int {
	return len(r.commands)
}

// At returns the i-th command of the current window.
func (r *Recorder) At(i int) types.Command {
	return r.commands[i]
}

// Commands returns a copy of the current window.
func (r *Recorder) Commands() []types.Command {
	return append([]types.Command(nil), r.commands...)
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// Cursor walks a recorder one command per call.
type Cursor struct {
	Position  int
	Exhausted bool
	policy    string
}

// NewCursor creates a cursor at the start of the recording that applies
// policy once it runs past the end.
func NewCursor(policy string) *Cursor {
	return &Cursor{policy: policy}
}

// Resume rebuilds a cursor from saved state.
func Resume(state types.ReplayState, policy string) *Cursor {
	return &Cursor{Position: state.Cursor, Exhausted: state.Exhausted, policy: policy}
}

// State returns the cursor as stored on the enemy.
func (c *Cursor) State() types.ReplayState {
	return types.ReplayState{Cursor: c.Position, Exhausted: c.Exhausted}
}

// Next returns the command under the cursor and advances it. The boolean is
// false when there is nothing left to execute under the cursor's policy.
func (c *Cursor) Next(r *Recorder) (types.Command, bool) {
	if r.Len() == 0 {
		return types.CmdNoAction, false
	}
	if c.Position >= r.Len() {
		if c.policy != config.ReplayLoop {
			c.Exhausted = true
			return types.CmdNoAction, false
		}
		c.Position %= r.Len()
	}
	c.Exhausted = false
	cmd := r.At(c.Position)
	c.Position++
	if c.Position >= r.Len() && c.policy == config.ReplayLoop {
		c.Position = 0
	}
	return cmd, true
}
