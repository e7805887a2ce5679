package session

import (
	"math/rand/v2"
	"testing"

	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/object"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

func TestSpawnCount(t *testing.T) {
	profiles := config.DefaultProfiles()
	tests := []struct {
		difficulty config.Difficulty
		level      int
		want       int
	}{
		{config.Easy, 1, 2},
		{config.Medium, 1, 3},
		{config.Medium, 4, 6},
		{config.Difficult, 1, 5},
		{config.Difficult, 50, config.MaxSpawnCount},
	}
	for _, tt := range tests {
		if got := SpawnCount(profiles[tt.difficulty], tt.level); got != tt.want {
			t.Errorf("SpawnCount(%s, %d) = %d, want %d", tt.difficulty, tt.level, got, tt.want)
		}
	}
}

func TestDirectorAdvanceScalesSpeed(t *testing.T) {
	profile := config.DefaultProfiles()[config.Medium]
	d := NewDirector(config.Medium, profile, nil)
	rng := rand.New(rand.NewPCG(5, 6))
	arena := object.Arena{Width: 160, Height: 100}

	d.Begin(arena, 80, 50, rng)
	var wave []*object.Asteroid
	for range 3 {
		wave = d.Advance(arena, 80, 50, rng)
	}

	state := d.State()
	if state.Number != 4 {
		t.Errorf("level = %d, want 4", state.Number)
	}
	want := config.LevelSpeedGrowth * config.LevelSpeedGrowth * config.LevelSpeedGrowth
	if diff := state.SpeedMultiplier - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("SpeedMultiplier = %v, want %v", state.SpeedMultiplier, want)
	}

	large := profile.Speeds.Large
	for _, a := range wave {
		speed := a.Speed()
		if speed < large.Min*want-1e-9 || speed > large.Max*want+1e-9 {
			t.Errorf("speed %v outside scaled range [%v, %v]", speed, large.Min*want, large.Max*want)
		}
		if physics.Distance(a.X, a.Y, 80, 50) < config.SpawnSafeDistance {
			t.Errorf("asteroid at (%.1f, %.1f) too close to the ship", a.X, a.Y)
		}
	}
}

// alwaysCentre draws the same point every time.
type alwaysCentre struct{}

func (alwaysCentre) Float64() float64 { return 0.5 }
func (alwaysCentre) IntN(int) int     { return 0 }

func TestSafePositionGivesUp(t *testing.T) {
	arena := object.Arena{Width: 100, Height: 100}
	hazards := []object.Collidable{point{x: 50, y: 50}}

	x, y, ok := SafePosition(arena, alwaysCentre{}, 10, hazards)
	if ok {
		t.Fatal("expected SafePosition to give up")
	}
	if x != 50 || y != 50 {
		t.Errorf("fallback = (%v, %v), want last candidate", x, y)
	}

	if _, _, ok := SafePosition(arena, alwaysCentre{}, 10, nil); !ok {
		t.Error("no hazards should always be safe")
	}
}

func TestResolveIsPure(t *testing.T) {
	profile := config.DefaultProfiles()[config.Medium]
	ship := object.NewShip(50, 50, profile)
	asteroids := []*object.Asteroid{
		still(20, 20, object.AsteroidLarge),
		still(24, 20, object.AsteroidMedium),
		still(51, 50, object.AsteroidSmall),
	}
	projectiles := []*object.Projectile{object.NewProjectile(22, 20, 0)}
	arena := object.Arena{Width: 160, Height: 100}
	grid := physics.NewSpatialGrid(arena.Width, arena.Height, collisionCellSize)

	got := Resolve(arena, ship, asteroids, projectiles, grid, nil)

	want := []Collision{
		{Kind: ProjectileHit, Asteroid: 0, Projectile: 0},
		{Kind: ShipHit, Asteroid: 2, Projectile: -1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("collision %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if ship.State != object.ShipAlive || projectiles[0].IsDestroyed() {
		t.Error("Resolve mutated actors")
	}
	for _, a := range asteroids {
		if a.IsDestroyed() {
			t.Error("Resolve destroyed an asteroid")
		}
	}
}

func TestResolveSkipsShipOffField(t *testing.T) {
	profile := config.DefaultProfiles()[config.Medium]
	ship := object.NewShip(50, 50, profile)
	asteroids := []*object.Asteroid{still(50, 50, object.AsteroidLarge)}
	arena := object.Arena{Width: 160, Height: 100}
	grid := physics.NewSpatialGrid(arena.Width, arena.Height, collisionCellSize)

	ship.Respawn(object.Arena{Width: 100, Height: 100}, 0)
	if got := Resolve(arena, ship, asteroids, nil, grid, nil); len(got) != 0 {
		t.Errorf("invincible ship collided: %+v", got)
	}

	ship.State = object.ShipExploding
	if got := Resolve(arena, ship, asteroids, nil, grid, nil); len(got) != 0 {
		t.Errorf("exploding ship collided: %+v", got)
	}

	if got := Resolve(arena, nil, asteroids, nil, grid, nil); len(got) != 0 {
		t.Errorf("nil ship collided: %+v", got)
	}
}

func TestResolveAcrossWrapEdge(t *testing.T) {
	arena := object.Arena{Width: 160, Height: 100}
	grid := physics.NewSpatialGrid(arena.Width, arena.Height, collisionCellSize)
	profile := config.DefaultProfiles()[config.Medium]

	// A Large asteroid hanging off the left edge is drawn again at x=154.
	ship := object.NewShip(156, 50, profile)
	asteroids := []*object.Asteroid{still(-6, 50, object.AsteroidLarge)}
	got := Resolve(arena, ship, asteroids, nil, grid, nil)
	if len(got) != 1 || got[0].Kind != ShipHit {
		t.Errorf("ship across the edge: got %+v, want one ship hit", got)
	}

	projectiles := []*object.Projectile{object.NewProjectile(150, 20, 0)}
	asteroids = []*object.Asteroid{still(-6, 20, object.AsteroidLarge)}
	got = Resolve(arena, nil, asteroids, projectiles, grid, nil)
	if len(got) != 1 || got[0].Kind != ProjectileHit {
		t.Errorf("projectile across the edge: got %+v, want one projectile hit", got)
	}
}

func TestSafePositionMeasuresAcrossEdges(t *testing.T) {
	arena := object.Arena{Width: 100, Height: 100}
	// The only candidate sits at the origin; a hazard at the far corner is
	// only a couple of units away through the wrap.
	hazards := []object.Collidable{point{x: 98, y: 98}}
	if _, _, ok := SafePosition(arena, origin{}, 5, hazards); ok {
		t.Error("position next to a hazard across the corner reported safe")
	}
}

// origin always samples the arena's top-left corner.
type origin struct{}

func (origin) Float64() float64 { return 0 }
func (origin) IntN(int) int     { return 0 }
