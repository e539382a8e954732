package config

import "time"

// Ship
const (
	ShipRadius            = 6.0
	ShipRotationSpeed     = 4.0 // degrees per tick
	ShipThrustForce       = 0.15
	ShipFriction          = 0.998
	ShipMaxSpeed          = 8.0
	ShipInitialFuel       = 1000
	ShipFuelPerThrust     = 1
	ShipInitialAmmo       = 50
	ShipFireCooldownTicks = 10
	ShieldInitialTicks    = 180 // counted from the first move
	ShieldFuelPerTick     = 1
	GunMaxLevel           = 3
)

// GunFireRateMultipliers divide the fire cooldown per gun upgrade level.
var GunFireRateMultipliers = []float64{1.5, 2.0, 3.0}

// Physics
const (
	WallRestitution       = 0.8
	PenetrationTolerance  = 0.5
	ProjectileSpeed       = 10.0
	ProjectileRadius      = 4.0
	ProjectileLifetime    = 120 // ticks
	ProjectileImpactForce = 0.1
	EnemyImpactForce      = 0.3
	EnemyFriction         = 0.98
	SweepBisectionSteps   = 32
	SweepTolerance        = 1e-6
)

// Enemies
const (
	StaticEnemyRadius      = 15.0
	DynamicEnemyRadius     = 12.0
	PatrolSpeed            = 1.5
	PatrolDistanceMin      = 50.0
	PatrolDistanceMax      = 150.0
	AggressiveSpeed        = 2.0
	AggressiveTurnRate     = 5.0 // degrees per tick
	AggressiveAlertRange   = 300.0
	EnemyFireIntervalMin   = 60
	EnemyFireIntervalMax   = 300
	EnemyFireRange         = 400.0
	EnemyDamage            = 10
	ReplayEnemyRadius      = 12.0
	ReplayMaxSpeedFactor   = 0.3
	ReplayFireAngle        = 15.0
	ReplayWindowSize       = 300
	ReplayMinCommands      = 60
	EggInitialRadius       = 6.0
	EggMaxRadius           = 18.0
	EggGrowthRateMin       = 0.02
	EggGrowthRateMax       = 0.05
	EggSpawnOffset         = 30.0
	BabyRadius             = 5.0
	SplitBossSizeFactor    = 2.5
	SplitBossSpawnOffset   = 40.0
	SplitBossSplitSpeed    = 3.0
	MotherBossSizeFactor   = 3.0
	MotherBossEggInterval  = 300
	MotherBossMaxEggs      = 4
	RequiredHitsDefault    = 3
	RequiredHitsEgg        = 2
	RequiredHitsSplitBoss  = 10
	RequiredHitsMotherBoss = 15

	FlockerRadius            = 8.0
	FlockerSpeedFactor       = 0.6
	FlockerSeparationRadius  = 30.0
	FlockerNeighborRadius    = 90.0
	FlockerSeparationWeight  = 1.5
	FlockerAlignmentWeight   = 1.0
	FlockerCohesionWeight    = 1.0
	FlockerSeekWeight        = 1.2
	RequiredHitsFlocker      = 1
	FlighthouseRadius        = 16.0
	FlighthouseVisionRange   = 350.0
	FlighthouseVisionCone    = 60.0 // degrees, full width
	FlighthouseScanSpeed     = 1.0  // degrees per tick
	FlighthouseTrackSpeed    = 2.0  // degrees per tick
	FlighthouseSpawnInterval = 240
	FlighthouseMaxFlockers   = 6
	FlighthouseLaunchSpeed   = 2.0
	RequiredHitsFlighthouse  = 5

	CrystalRadius     = 8.0
	CrystalDropChance = 0.3
)

// Levels and world
const (
	BaseMazeSize         = 15
	MazeSizeIncrement    = 2
	MinMazeSize          = 5
	MaxMazeSize          = 100
	BaseEnemyCount       = 2
	EnemyCountIncrement  = 1
	WorldWidth           = 1200.0
	WorldHeight          = 800.0
	MazeFillRatio        = 0.9
	SpatialCellSize      = 150.0
	SpawnMinDistance     = 100.0
	SpawnClearance       = 15.0
	SpawnAttemptsPerItem = 50
	ExitRadius           = 20.0
)

// Server
const (
	GameLoopInterval = 16 * time.Millisecond
	RunSaveTimeout   = 5 * time.Second
)
