package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadConfigOverlaysEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WALL_RESTITUTION", "0.5")
	t.Setenv("SPATIAL_CELL_SIZE", "200")
	t.Setenv("REPLAY_EXHAUSTED", "despawn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Physics.WallRestitution)
	assert.Equal(t, 200.0, cfg.Level.SpatialCellSize)
	assert.Equal(t, ReplayDespawn, cfg.Enemy.ReplayExhausted)
}

func TestLoadConfigRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("WALL_RESTITUTION", "bouncy")

	_, err := LoadConfig()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		valid  bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
			valid:  true,
		},
		{
			name:   "restitution above one",
			mutate: func(c *Config) { c.Physics.WallRestitution = 1.2 },
			valid:  false,
		},
		{
			name:   "zero cell size",
			mutate: func(c *Config) { c.Level.SpatialCellSize = 0 },
			valid:  false,
		},
		{
			name:   "inverted fire interval",
			mutate: func(c *Config) { c.Enemy.FireIntervalMax = c.Enemy.FireIntervalMin - 1 },
			valid:  false,
		},
		{
			name:   "unknown replay policy",
			mutate: func(c *Config) { c.Enemy.ReplayExhausted = "rewind" },
			valid:  false,
		},
		{
			name:   "egg as tough as others",
			mutate: func(c *Config) { c.Enemy.RequiredHitsEgg = c.Enemy.RequiredHits },
			valid:  false,
		},
		{
			name:   "crystal chance above one",
			mutate: func(c *Config) { c.Enemy.CrystalDropChance = 1.5 },
			valid:  false,
		},
		{
			name:   "missing gun fire rate",
			mutate: func(c *Config) { c.Ship.GunFireRate = c.Ship.GunFireRate[:1] },
			valid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, want valid=%v", err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestMaxRadiusCoversBosses(t *testing.T) {
	ec := Default().Enemy
	assert.Equal(t, ReplayEnemyRadius*MotherBossSizeFactor, ec.MaxRadius())

	ec.FlighthouseRadius = 50
	assert.Equal(t, 50.0, ec.MaxRadius())
}
