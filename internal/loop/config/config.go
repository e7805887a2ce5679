// Package config centralizes all tunable game parameters.
package config

import "time"

// Arena - the default playfield in logical units. Frontends may resize the
// arena to match the terminal; all speeds are in units per second.
const (
	ArenaWidth  = 160
	ArenaHeight = 100
)

// Simulation clock
const (
	MaxTickDelta = 100 * time.Millisecond // Larger gaps (stalls, backgrounding) are clamped
)

// Ship
const (
	ShipRadius          = 2.5
	ShipRotationSpeed   = 4.5  // Radians per second
	ShipMaxSpeed        = 55.0 // Units per second
	ShipFriction        = 0.55 // Fraction of velocity kept after one second
	ShipNoseOffset      = 3.0  // Distance from centre to the nose
	ShipDebrisCount     = 24
	ShipExplosionTime   = 1500 * time.Millisecond
	InvincibilityTime   = 3 * time.Second
	PlayerBlinkFreq     = 10.0 // Hz
	HyperspaceCooldown  = 6 * time.Second
	HyperspaceShield    = 1 * time.Second
	HyperspaceSafeDist  = 15.0
	HyperspaceSpeedKeep = 0.5 // Velocity factor applied on jump
)

// InvincibilityWatchdogTicks bounds how many ticks without elapsed time the
// ship may stay invincible before invincibility is force-cleared.
const InvincibilityWatchdogTicks = 120

// Projectiles
const (
	ProjectileSpeed    = 80.0
	ProjectileLifetime = 1200 * time.Millisecond
	ProjectileRadius   = 0.5
)

// Asteroids
const (
	AsteroidRadiusLarge  = 8.0
	AsteroidRadiusMedium = 4.5
	AsteroidRadiusSmall  = 2.2
	AsteroidMaxSpin      = 1.0  // Radians per second, either direction
	FragmentSpread       = 0.6  // Max angular offset of fragments from parent heading (radians)
	FragmentMinSpread    = 0.15 // Keeps sibling fragments apart
	FragmentOffsetFactor = 0.5  // Fragment offset from parent centre, in parent radii
)

// Scoring
const (
	ScoreLargeAsteroid  = 20
	ScoreMediumAsteroid = 50
	ScoreSmallAsteroid  = 100
	BonusLifeThreshold  = 10000
)

// Levels
const (
	LevelSpeedGrowth     = 1.05 // Speed multiplier factor applied per level
	SpawnGrowthPerLevel  = 1    // Extra asteroids per level
	MaxSpawnCount        = 12
	SpawnSafeDistance    = 25.0
	SafeSpawnMaxAttempts = 50
	LevelBannerTime      = 2 * time.Second
)

// Leaderboard
const (
	LeaderboardSize     = 10
	MaxInitials         = 3
	PersistenceTimeout  = 5 * time.Second
	StatusMessageTime   = 4 * time.Second
	LeaderboardFileName = "leaderboard.msgpack"
)

// Shutdown
const (
	ShutdownDisplayTime = 3 * time.Second // Shutdown notice shown before auto-disconnect
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 200 // Columns; larger terminals get a centred border
	MaxTermHeight         = 60  // Rows
)

// Idle handling for remote sessions
const (
	IdleWarnTime       = 2 * time.Minute
	IdleDisconnectTime = 3 * time.Minute
)
