package level

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/maze"
)

// MazeOverride replaces maze parameters.
type MazeOverride struct {
	Complexity *string `yaml:"complexity" json:"complexity,omitempty"`
	GridSize   *int    `yaml:"grid_size" json:"grid_size,omitempty"`
}

// EnemyOverride replaces individual enemy counts.
type EnemyOverride struct {
	Static      *int `yaml:"static" json:"static,omitempty"`
	Patrol      *int `yaml:"patrol" json:"patrol,omitempty"`
	Aggressive  *int `yaml:"aggressive" json:"aggressive,omitempty"`
	Replay      *int `yaml:"replay" json:"replay,omitempty"`
	Flighthouse *int `yaml:"flighthouse" json:"flighthouse,omitempty"`
	SplitBoss   *int `yaml:"split_boss" json:"split_boss,omitempty"`
	MotherBoss  *int `yaml:"mother_boss" json:"mother_boss,omitempty"`
}

// Overrides is the content of a per-level file. Absent fields keep their
// computed defaults.
type Overrides struct {
	Seed    *int64         `yaml:"seed" json:"seed,omitempty"`
	Maze    *MazeOverride  `yaml:"maze" json:"maze,omitempty"`
	Enemies *EnemyOverride `yaml:"enemies" json:"enemies,omitempty"`
}

// LoadOverrides reads <dir>/<level>.yaml, .yml or .json. A level without a
// file has no overrides and yields nil.
func LoadOverrides(dir string, level int) (*Overrides, error) {
	name := strconv.Itoa(level)
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(dir, name+ext)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return DecodeOverrides(f, path)
	}
	return nil, nil
}

// DecodeOverrides parses YAML or JSON overrides, rejecting unknown keys.
func DecodeOverrides(r io.Reader, source string) (*Overrides, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var o Overrides
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return &o, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedOverride, source, err)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return &o, nil
}

// Validate rejects values no level could use.
func (o *Overrides) Validate() error {
	if m := o.Maze; m != nil {
		if m.Complexity != nil {
			if _, err := maze.ParseComplexity(*m.Complexity); err != nil {
				return fmt.Errorf("%w: %w", ErrMalformedOverride, err)
			}
		}
		if m.GridSize != nil && (*m.GridSize < config.MinMazeSize || *m.GridSize > config.MaxMazeSize) {
			return fmt.Errorf("%w: %w: %d", ErrMalformedOverride, maze.ErrInvalidGridSize, *m.GridSize)
		}
	}
	if e := o.Enemies; e != nil {
		for _, c := range []struct {
			name  string
			value *int
		}{
			{"static", e.Static},
			{"patrol", e.Patrol},
			{"aggressive", e.Aggressive},
			{"replay", e.Replay},
			{"flighthouse", e.Flighthouse},
			{"split_boss", e.SplitBoss},
			{"mother_boss", e.MotherBoss},
		} {
			if c.value != nil && *c.value < 0 {
				return fmt.Errorf("%w: negative %s count %d", ErrMalformedOverride, c.name, *c.value)
			}
		}
	}
	return nil
}

func (o *Overrides) apply(p *Plan) {
	if o.Seed != nil {
		p.Seed = *o.Seed
	}
	if m := o.Maze; m != nil {
		if m.Complexity != nil {
			p.Complexity = maze.Complexity(*m.Complexity)
		}
		if m.GridSize != nil {
			p.GridSize = *m.GridSize
		}
	}
	if e := o.Enemies; e != nil {
		set(&p.Counts.Static, e.Static)
		set(&p.Counts.Patrol, e.Patrol)
		set(&p.Counts.Aggressive, e.Aggressive)
		set(&p.Counts.Replay, e.Replay)
		set(&p.Counts.Flighthouse, e.Flighthouse)
		set(&p.Counts.SplitBoss, e.SplitBoss)
		set(&p.Counts.MotherBoss, e.MotherBoss)
	}
}

func set(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
