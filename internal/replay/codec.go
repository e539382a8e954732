package replay

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

// ErrEmptyRecording is returned when decoding a recording without commands.
var ErrEmptyRecording = errors.New("recording is empty")

// Recording is a finished run's command log, handed to later sessions and
// stored in the run archive.
type Recording struct {
	Level    int             `msgpack:"level"`
	Seed     int64           `msgpack:"seed"`
	Commands []types.Command `msgpack:"commands"`
}

// Encode serializes a recording with msgpack.
func Encode(rec Recording) ([]byte, error) {
	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recording: %w", err)
	}
	return data, nil
}

// Decode parses a msgpack recording and rejects unknown commands.
func Decode(data []byte) (Recording, error) {
	var rec Recording
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return Recording{}, fmt.Errorf("failed to decode recording: %w", err)
	}
	if len(rec.Commands) == 0 {
		return Recording{}, ErrEmptyRecording
	}
	for i, cmd := range rec.Commands {
		if cmd > types.CmdFire {
			return Recording{}, fmt.Errorf("failed to decode recording: command %d at %d is unknown", cmd, i)
		}
	}
	return rec, nil
}
