package maze

import "fmt"

// Complexity selects a carving preset.
type Complexity string

const (
	ComplexityEmpty   Complexity = "empty"
	ComplexitySimple  Complexity = "simple"
	ComplexityNormal  Complexity = "normal"
	ComplexityComplex Complexity = "complex"
	ComplexityExtreme Complexity = "extreme"
)

// Preset holds the carving parameters of a complexity level.
type Preset struct {
	StepSize             int // lattice spacing of the backtracker
	PassageWidth         int // extra cells cleared around each corridor
	ClearRadius          int // radius of random extra clearings
	CornerClearSize      int // side of the square opened at start and exit
	ExtraPathsMultiplier int
}

var presets = map[Complexity]Preset{
	ComplexityEmpty:   {StepSize: 2, CornerClearSize: 3},
	ComplexitySimple:  {StepSize: 3, PassageWidth: 1, ClearRadius: 2, CornerClearSize: 3, ExtraPathsMultiplier: 2},
	ComplexityNormal:  {StepSize: 2, PassageWidth: 1, ClearRadius: 2, CornerClearSize: 3, ExtraPathsMultiplier: 2},
	ComplexityComplex: {StepSize: 2, ClearRadius: 1, CornerClearSize: 3, ExtraPathsMultiplier: 1},
	ComplexityExtreme: {StepSize: 2, ClearRadius: 1, CornerClearSize: 3},
}

// PresetFor returns the preset of a complexity.
func PresetFor(c Complexity) (Preset, error) {
	p, ok := presets[c]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownComplexity, string(c))
	}
	return p, nil
}

// ParseComplexity validates a complexity name.
func ParseComplexity(name string) (Complexity, error) {
	c := Complexity(name)
	if _, err := PresetFor(c); err != nil {
		return "", err
	}
	return c, nil
}

// ComplexityForLevel bands levels: 1 empty, 2-3 simple, 4-7 normal,
// 8-11 complex, 12+ extreme.
func ComplexityForLevel(level int) Complexity {
	switch {
	case level <= 1:
		return ComplexityEmpty
	case level <= 3:
		return ComplexitySimple
	case level <= 7:
		return ComplexityNormal
	case level <= 11:
		return ComplexityComplex
	default:
		return ComplexityExtreme
	}
}
