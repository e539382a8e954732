package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// ReplayExhausted policies
const (
	ReplayLoop    = "loop"
	ReplayIdle    = "idle"
	ReplayDespawn = "despawn"
)

type ShipConfig struct {
	Radius             float64
	RotationSpeed      float64
	ThrustForce        float64
	Friction           float64
	MaxSpeed           float64
	InitialFuel        int
	FuelPerThrust      int
	InitialAmmo        int
	FireCooldownTicks  int
	ShieldInitialTicks int
	ShieldFuelPerTick  int
	GunMaxLevel        int
	GunFireRate        []float64 // cooldown divisor per upgrade level
}

type PhysicsConfig struct {
	WallRestitution       float64
	PenetrationTolerance  float64
	ProjectileSpeed       float64
	ProjectileRadius      float64
	ProjectileLifetime    int
	ProjectileImpactForce float64
	EnemyImpactForce      float64
	EnemyFriction         float64
	SweepBisectionSteps   int
	SweepTolerance        float64
}

type EnemyConfig struct {
	StaticRadius         float64
	DynamicRadius        float64
	PatrolSpeed          float64
	PatrolDistanceMin    float64
	PatrolDistanceMax    float64
	AggressiveSpeed      float64
	AggressiveTurnRate   float64
	AggressiveAlertRange float64
	FireIntervalMin      int
	FireIntervalMax      int
	FireRange            float64
	Damage               int
	ReplayRadius         float64
	ReplayMaxSpeedFactor float64
	ReplayFireAngle      float64
	ReplayWindowSize     int
	ReplayMinCommands    int
	ReplayExhausted      string
	EggInitialRadius     float64
	EggMaxRadius         float64
	EggGrowthRateMin     float64
	EggGrowthRateMax     float64
	EggSpawnOffset       float64
	BabyRadius           float64
	SplitBossSizeFactor  float64
	SplitBossSpawnOffset float64
	SplitBossSplitSpeed  float64
	MotherBossSizeFactor float64
	MotherBossEggTicks   int
	MotherBossMaxEggs    int
	RequiredHits         int
	RequiredHitsEgg      int
	RequiredHitsSplit    int
	RequiredHitsMother   int

	FlockerRadius           float64
	FlockerSpeedFactor      float64
	FlockerSeparationRadius float64
	FlockerNeighborRadius   float64
	FlockerSeparationWeight float64
	FlockerAlignmentWeight  float64
	FlockerCohesionWeight   float64
	FlockerSeekWeight       float64
	RequiredHitsFlocker     int
	FlighthouseRadius       float64
	FlighthouseVisionRange  float64
	FlighthouseVisionCone   float64
	FlighthouseScanSpeed    float64
	FlighthouseTrackSpeed   float64
	FlighthouseSpawnTicks   int
	FlighthouseMaxFlockers  int
	FlighthouseLaunchSpeed  float64
	RequiredHitsFlighthouse int

	CrystalRadius     float64
	CrystalDropChance float64
}

// MaxRadius is the largest radius any enemy kind spawns with.
func (c EnemyConfig) MaxRadius() float64 {
	return max(
		c.StaticRadius,
		c.DynamicRadius,
		c.ReplayRadius*max(1, c.SplitBossSizeFactor, c.MotherBossSizeFactor),
		c.EggMaxRadius,
		c.FlighthouseRadius,
	)
}

type LevelConfig struct {
	BaseMazeSize         int
	MazeSizeIncrement    int
	BaseEnemyCount       int
	EnemyCountIncrement  int
	WorldWidth           float64
	WorldHeight          float64
	MazeFillRatio        float64
	SpatialCellSize      float64
	SpawnMinDistance     float64
	SpawnClearance       float64
	SpawnAttemptsPerItem int
	ExitRadius           float64
	LevelsDir            string
}

type ServerConfig struct {
	Host        string
	Port        string
	MongoDBURL  string
	FrontendURL string
	UseTLS      bool
	TLSCert     string
	TLSKey      string
}

// Config holds every tunable of the simulation. It is built once and passed
// by value or pointer into the components; nothing mutates it afterwards.
type Config struct {
	Ship    ShipConfig
	Physics PhysicsConfig
	Enemy   EnemyConfig
	Level   LevelConfig
	Server  ServerConfig
}

// Default returns the tuned constants without consulting the environment.
func Default() *Config {
	return &Config{
		Ship: ShipConfig{
			Radius:             ShipRadius,
			RotationSpeed:      ShipRotationSpeed,
			ThrustForce:        ShipThrustForce,
			Friction:           ShipFriction,
			MaxSpeed:           ShipMaxSpeed,
			InitialFuel:        ShipInitialFuel,
			FuelPerThrust:      ShipFuelPerThrust,
			InitialAmmo:        ShipInitialAmmo,
			FireCooldownTicks:  ShipFireCooldownTicks,
			ShieldInitialTicks: ShieldInitialTicks,
			ShieldFuelPerTick:  ShieldFuelPerTick,
			GunMaxLevel:        GunMaxLevel,
			GunFireRate:        append([]float64(nil), GunFireRateMultipliers...),
		},
		Physics: PhysicsConfig{
			WallRestitution:       WallRestitution,
			PenetrationTolerance:  PenetrationTolerance,
			ProjectileSpeed:       ProjectileSpeed,
			ProjectileRadius:      ProjectileRadius,
			ProjectileLifetime:    ProjectileLifetime,
			ProjectileImpactForce: ProjectileImpactForce,
			EnemyImpactForce:      EnemyImpactForce,
			EnemyFriction:         EnemyFriction,
			SweepBisectionSteps:   SweepBisectionSteps,
			SweepTolerance:        SweepTolerance,
		},
		Enemy: EnemyConfig{
			StaticRadius:         StaticEnemyRadius,
			DynamicRadius:        DynamicEnemyRadius,
			PatrolSpeed:          PatrolSpeed,
			PatrolDistanceMin:    PatrolDistanceMin,
			PatrolDistanceMax:    PatrolDistanceMax,
			AggressiveSpeed:      AggressiveSpeed,
			AggressiveTurnRate:   AggressiveTurnRate,
			AggressiveAlertRange: AggressiveAlertRange,
			FireIntervalMin:      EnemyFireIntervalMin,
			FireIntervalMax:      EnemyFireIntervalMax,
			FireRange:            EnemyFireRange,
			Damage:               EnemyDamage,
			ReplayRadius:         ReplayEnemyRadius,
			ReplayMaxSpeedFactor: ReplayMaxSpeedFactor,
			ReplayFireAngle:      ReplayFireAngle,
			ReplayWindowSize:     ReplayWindowSize,
			ReplayMinCommands:    ReplayMinCommands,
			ReplayExhausted:      ReplayLoop,
			EggInitialRadius:     EggInitialRadius,
			EggMaxRadius:         EggMaxRadius,
			EggGrowthRateMin:     EggGrowthRateMin,
			EggGrowthRateMax:     EggGrowthRateMax,
			EggSpawnOffset:       EggSpawnOffset,
			BabyRadius:           BabyRadius,
			SplitBossSizeFactor:  SplitBossSizeFactor,
			SplitBossSpawnOffset: SplitBossSpawnOffset,
			SplitBossSplitSpeed:  SplitBossSplitSpeed,
			MotherBossSizeFactor: MotherBossSizeFactor,
			MotherBossEggTicks:   MotherBossEggInterval,
			MotherBossMaxEggs:    MotherBossMaxEggs,
			RequiredHits:         RequiredHitsDefault,
			RequiredHitsEgg:      RequiredHitsEgg,
			RequiredHitsSplit:    RequiredHitsSplitBoss,
			RequiredHitsMother:   RequiredHitsMotherBoss,

			FlockerRadius:           FlockerRadius,
			FlockerSpeedFactor:      FlockerSpeedFactor,
			FlockerSeparationRadius: FlockerSeparationRadius,
			FlockerNeighborRadius:   FlockerNeighborRadius,
			FlockerSeparationWeight: FlockerSeparationWeight,
			FlockerAlignmentWeight:  FlockerAlignmentWeight,
			FlockerCohesionWeight:   FlockerCohesionWeight,
			FlockerSeekWeight:       FlockerSeekWeight,
			RequiredHitsFlocker:     RequiredHitsFlocker,
			FlighthouseRadius:       FlighthouseRadius,
			FlighthouseVisionRange:  FlighthouseVisionRange,
			FlighthouseVisionCone:   FlighthouseVisionCone,
			FlighthouseScanSpeed:    FlighthouseScanSpeed,
			FlighthouseTrackSpeed:   FlighthouseTrackSpeed,
			FlighthouseSpawnTicks:   FlighthouseSpawnInterval,
			FlighthouseMaxFlockers:  FlighthouseMaxFlockers,
			FlighthouseLaunchSpeed:  FlighthouseLaunchSpeed,
			RequiredHitsFlighthouse: RequiredHitsFlighthouse,

			CrystalRadius:     CrystalRadius,
			CrystalDropChance: CrystalDropChance,
		},
		Level: LevelConfig{
			BaseMazeSize:         BaseMazeSize,
			MazeSizeIncrement:    MazeSizeIncrement,
			BaseEnemyCount:       BaseEnemyCount,
			EnemyCountIncrement:  EnemyCountIncrement,
			WorldWidth:           WorldWidth,
			WorldHeight:          WorldHeight,
			MazeFillRatio:        MazeFillRatio,
			SpatialCellSize:      SpatialCellSize,
			SpawnMinDistance:     SpawnMinDistance,
			SpawnClearance:       SpawnClearance,
			SpawnAttemptsPerItem: SpawnAttemptsPerItem,
			ExitRadius:           ExitRadius,
			LevelsDir:            "levels",
		},
		Server: ServerConfig{
			Host:        "localhost",
			Port:        "8080",
			FrontendURL: "*",
		},
	}
}

// LoadConfig loads configuration from environment variables on top of the
// defaults.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := Default()

	cfg.Server.Host = getEnvOrDefault("HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvOrDefault("PORT", cfg.Server.Port)
	cfg.Server.MongoDBURL = getEnvOrDefault("MONGODB_URL", "")
	cfg.Server.FrontendURL = getEnvOrDefault("FRONTEND_URL", cfg.Server.FrontendURL)
	cfg.Server.UseTLS = os.Getenv("USE_TLS") == "true"
	cfg.Server.TLSCert = getEnvOrDefault("TLS_CERT", "")
	cfg.Server.TLSKey = getEnvOrDefault("TLS_KEY", "")
	cfg.Level.LevelsDir = getEnvOrDefault("LEVELS_DIR", cfg.Level.LevelsDir)
	cfg.Enemy.ReplayExhausted = getEnvOrDefault("REPLAY_EXHAUSTED", cfg.Enemy.ReplayExhausted)

	var err error
	if cfg.Physics.WallRestitution, err = getEnvFloat("WALL_RESTITUTION", cfg.Physics.WallRestitution); err != nil {
		return nil, err
	}
	if cfg.Level.SpatialCellSize, err = getEnvFloat("SPATIAL_CELL_SIZE", cfg.Level.SpatialCellSize); err != nil {
		return nil, err
	}
	if cfg.Enemy.ReplayWindowSize, err = getEnvInt("REPLAY_WINDOW_SIZE", cfg.Enemy.ReplayWindowSize); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Physics.WallRestitution < 0 || c.Physics.WallRestitution > 1 {
		return fmt.Errorf("%w: wall restitution %v outside [0,1]", ErrInvalidConfig, c.Physics.WallRestitution)
	}
	if c.Level.SpatialCellSize <= 0 {
		return fmt.Errorf("%w: spatial cell size must be positive", ErrInvalidConfig)
	}
	if c.Level.WorldWidth <= 0 || c.Level.WorldHeight <= 0 {
		return fmt.Errorf("%w: world size must be positive", ErrInvalidConfig)
	}
	if c.Enemy.FireIntervalMin <= 0 || c.Enemy.FireIntervalMax < c.Enemy.FireIntervalMin {
		return fmt.Errorf("%w: fire interval [%d,%d]", ErrInvalidConfig, c.Enemy.FireIntervalMin, c.Enemy.FireIntervalMax)
	}
	if c.Enemy.ReplayWindowSize < 0 {
		return fmt.Errorf("%w: replay window size %d", ErrInvalidConfig, c.Enemy.ReplayWindowSize)
	}
	switch c.Enemy.ReplayExhausted {
	case ReplayLoop, ReplayIdle, ReplayDespawn:
	default:
		return fmt.Errorf("%w: unknown replay exhaustion policy %q", ErrInvalidConfig, c.Enemy.ReplayExhausted)
	}
	if c.Enemy.RequiredHitsEgg >= c.Enemy.RequiredHits {
		return fmt.Errorf("%w: egg must need fewer hits than other kinds", ErrInvalidConfig)
	}
	if c.Enemy.CrystalDropChance < 0 || c.Enemy.CrystalDropChance > 1 {
		return fmt.Errorf("%w: crystal drop chance %v outside [0,1]", ErrInvalidConfig, c.Enemy.CrystalDropChance)
	}
	if len(c.Ship.GunFireRate) < c.Ship.GunMaxLevel {
		return fmt.Errorf("%w: %d gun levels but %d fire rates", ErrInvalidConfig, c.Ship.GunMaxLevel, len(c.Ship.GunFireRate))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	return i, nil
}
