package session

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/object"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

// LevelState is the director's view of the current level.
type LevelState struct {
	Number          int     // Starts at 1
	SpeedMultiplier float64 // Starts at 1, grows every level
	ActiveObstacles int     // Asteroids on the field after the last tick
	Difficulty      config.Difficulty
}

// Director starts levels: it decides how many asteroids to spawn, where to
// put them and how fast they move.
type Director struct {
	state   LevelState
	profile config.Profile
	logger  *log.Logger
}

// NewDirector creates a director for the given difficulty. Call Begin to
// spawn the first level.
func NewDirector(difficulty config.Difficulty, profile config.Profile, logger *log.Logger) *Director {
	return &Director{
		state:   LevelState{Number: 1, SpeedMultiplier: 1, Difficulty: difficulty},
		profile: profile,
		logger:  logger,
	}
}

// State returns the current level state.
func (d *Director) State() LevelState {
	return d.state
}

// SpawnCount returns how many large asteroids a level starts with.
func SpawnCount(profile config.Profile, level int) int {
	count := profile.Obstacles + config.SpawnGrowthPerLevel*(level-1)
	return max(1, min(count, config.MaxSpawnCount))
}

// Begin resets to level 1 and returns its asteroids, placed away from the
// ship at (shipX, shipY).
func (d *Director) Begin(arena object.Arena, shipX, shipY float64, rng object.Rand) []*object.Asteroid {
	d.state.Number = 1
	d.state.SpeedMultiplier = 1
	return d.spawnWave(arena, shipX, shipY, rng)
}

// Advance moves to the next level, raises the speed multiplier and returns
// the new wave.
func (d *Director) Advance(arena object.Arena, shipX, shipY float64, rng object.Rand) []*object.Asteroid {
	d.state.Number++
	d.state.SpeedMultiplier *= config.LevelSpeedGrowth
	return d.spawnWave(arena, shipX, shipY, rng)
}

// Observe records the number of asteroids left on the field.
func (d *Director) Observe(active int) {
	d.state.ActiveObstacles = active
}

func (d *Director) spawnWave(arena object.Arena, shipX, shipY float64, rng object.Rand) []*object.Asteroid {
	count := SpawnCount(d.profile, d.state.Number)
	ship := []object.Collidable{point{x: shipX, y: shipY}}

	wave := make([]*object.Asteroid, 0, count)
	for range count {
		x, y, ok := SafePosition(arena, rng, config.SpawnSafeDistance+config.AsteroidRadiusLarge, ship)
		if !ok && d.logger != nil {
			d.logger.Warn("no safe spawn position", "level", d.state.Number, "attempts", config.SafeSpawnMaxAttempts)
		}
		wave = append(wave, object.SpawnAsteroid(x, y, object.AsteroidLarge, object.RandomVariant(rng),
			d.profile.Speeds, d.state.SpeedMultiplier, rng))
	}
	d.state.ActiveObstacles = len(wave)

	if d.logger != nil {
		d.logger.Debug("level started", "level", d.state.Number, "asteroids", count,
			"speed", math.Round(d.state.SpeedMultiplier*1000)/1000)
	}
	return wave
}

// SafePosition samples random arena positions until one lies at least
// minDistance plus the hazard's radius away from every hazard. After
// config.SafeSpawnMaxAttempts misses it returns the last candidate and false.
func SafePosition(arena object.Arena, rng object.Rand, minDistance float64, hazards []object.Collidable) (float64, float64, bool) {
	var x, y float64
	for range config.SafeSpawnMaxAttempts {
		x = rng.Float64() * arena.Width
		y = rng.Float64() * arena.Height
		if clearOf(arena, x, y, minDistance, hazards) {
			return x, y, true
		}
	}
	return x, y, false
}

// clearOf measures through the wrapping edges, the way collisions do.
func clearOf(arena object.Arena, x, y, minDistance float64, hazards []object.Collidable) bool {
	for _, h := range hazards {
		hx, hy := h.Position()
		limit := minDistance + h.CollisionRadius()
		if physics.WrappedDistanceSquared(x, y, hx, hy, arena.Width, arena.Height) < limit*limit {
			return false
		}
	}
	return true
}

// point is a zero-radius hazard.
type point struct{ x, y float64 }

func (p point) Position() (float64, float64) { return p.x, p.y }
func (p point) CollisionRadius() float64     { return 0 }
