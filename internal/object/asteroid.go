package object

import (
	"math"

	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

// AsteroidSize represents the size tier of an asteroid.
type AsteroidSize int

const (
	AsteroidSmall  AsteroidSize = 1
	AsteroidMedium AsteroidSize = 2
	AsteroidLarge  AsteroidSize = 3
)

// String returns the tier name.
func (s AsteroidSize) String() string {
	switch s {
	case AsteroidSmall:
		return "small"
	case AsteroidMedium:
		return "medium"
	case AsteroidLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Radius returns the collision radius of the tier.
func (s AsteroidSize) Radius() float64 {
	switch s {
	case AsteroidLarge:
		return config.AsteroidRadiusLarge
	case AsteroidMedium:
		return config.AsteroidRadiusMedium
	default:
		return config.AsteroidRadiusSmall
	}
}

// Score returns the points for destroying an asteroid of this tier.
// Smaller asteroids are worth more.
func (s AsteroidSize) Score() int {
	switch s {
	case AsteroidLarge:
		return config.ScoreLargeAsteroid
	case AsteroidMedium:
		return config.ScoreMediumAsteroid
	case AsteroidSmall:
		return config.ScoreSmallAsteroid
	default:
		return 0
	}
}

// speedRange picks the tier's row from a difficulty speed table.
func (s AsteroidSize) speedRange(speeds config.TierSpeeds) config.SpeedRange {
	switch s {
	case AsteroidLarge:
		return speeds.Large
	case AsteroidMedium:
		return speeds.Medium
	default:
		return speeds.Small
	}
}

// AsteroidVariant is the visual/type tag of an asteroid. Fragments keep
// their parent's variant.
type AsteroidVariant int

const (
	VariantRocky AsteroidVariant = iota
	VariantMetallic
	VariantIcy
	variantCount
)

// Asteroid is a destructible space rock.
type Asteroid struct {
	X, Y          float64         // Position (center)
	VX, VY        float64         // Velocity
	Angle         float64         // Current rotation angle
	RotationSpeed float64         // Rotation speed (radians/sec)
	Size          AsteroidSize    // Size tier
	Variant       AsteroidVariant // Visual/type tag
	Radius        float64         // Collision/draw radius
	Vertices      []float64       // Vertex distances from center (for irregular shape)

	// Difficulty context, inherited by fragments.
	Speeds     config.TierSpeeds
	SpeedScale float64

	destroyed bool
}

// NewAsteroid creates an asteroid at (x, y) moving at speed along heading.
func NewAsteroid(x, y float64, size AsteroidSize, variant AsteroidVariant, speed, heading float64, rng Rand) *Asteroid {
	radius := size.Radius()

	// Irregular polygon: 8-12 vertices at ±30% of the radius
	numVerts := 8 + rng.IntN(5)
	vertices := make([]float64, numVerts)
	for i := range vertices {
		vertices[i] = radius * (0.7 + rng.Float64()*0.6)
	}

	return &Asteroid{
		X:             x,
		Y:             y,
		VX:            math.Cos(heading) * speed,
		VY:            math.Sin(heading) * speed,
		Angle:         rng.Float64() * 2 * math.Pi,
		RotationSpeed: (rng.Float64()*2 - 1) * config.AsteroidMaxSpin,
		Size:          size,
		Variant:       variant,
		Radius:        radius,
		Vertices:      vertices,
		SpeedScale:    1,
	}
}

// SpawnAsteroid creates an asteroid whose speed is sampled from the tier's
// row of speeds and multiplied by scale, with a uniformly random heading.
func SpawnAsteroid(x, y float64, size AsteroidSize, variant AsteroidVariant, speeds config.TierSpeeds, scale float64, rng Rand) *Asteroid {
	speed := size.speedRange(speeds).Sample(rng.Float64()) * scale
	heading := rng.Float64() * 2 * math.Pi
	a := NewAsteroid(x, y, size, variant, speed, heading, rng)
	a.Speeds = speeds
	a.SpeedScale = scale
	return a
}

// RandomVariant draws one of the asteroid variants.
func RandomVariant(rng Rand) AsteroidVariant {
	return AsteroidVariant(rng.IntN(int(variantCount)))
}

// Update moves and rotates the asteroid. Asteroids have no friction.
func (a *Asteroid) Update(ctx UpdateContext) (bool, error) {
	if a.destroyed {
		return true, nil
	}

	dt := ctx.Delta.Seconds()
	a.Angle += a.RotationSpeed * dt
	a.X += a.VX * dt
	a.Y += a.VY * dt
	ctx.Arena.Wrap(&a.X, &a.Y, a.Radius)

	return false, nil
}

// Speed returns the scalar speed.
func (a *Asteroid) Speed() float64 {
	return physics.Magnitude(a.VX, a.VY)
}

// fragmentRule maps a roll below Below to the listed fragment tiers.
type fragmentRule struct {
	Below float64
	Sizes []AsteroidSize
}

var fragmentTable = map[AsteroidSize][]fragmentRule{
	AsteroidMedium: {
		{0.70, []AsteroidSize{AsteroidSmall, AsteroidSmall}},
		{1.00, []AsteroidSize{AsteroidSmall}},
	},
	AsteroidLarge: {
		{0.25, []AsteroidSize{AsteroidMedium, AsteroidMedium}},
		{0.45, []AsteroidSize{AsteroidSmall, AsteroidSmall}},
		{0.75, []AsteroidSize{AsteroidMedium, AsteroidSmall}},
		{0.90, []AsteroidSize{AsteroidMedium}},
		{1.00, []AsteroidSize{AsteroidSmall}},
	},
}

// FragmentSizes returns the fragment tiers for a destroyed asteroid of the
// given size and a roll r in [0,1). Small asteroids never fragment.
func FragmentSizes(size AsteroidSize, r float64) []AsteroidSize {
	rules := fragmentTable[size]
	for _, rule := range rules {
		if r < rule.Below {
			return rule.Sizes
		}
	}
	if len(rules) > 0 {
		return rules[len(rules)-1].Sizes
	}
	return nil
}

// Fragment splits the destroyed asteroid. It draws exactly one roll to pick
// the outcome, then places each fragment a short way from the parent along
// its heading, mirrored around it so siblings never overlap exactly. Each
// fragment gets a fresh heading and a speed re-sampled from its own tier's
// range, scaled by the parent's speed multiplier.
func (a *Asteroid) Fragment(rng Rand) []*Asteroid {
	sizes := FragmentSizes(a.Size, rng.Float64())
	if len(sizes) == 0 {
		return nil
	}

	heading := physics.Heading(a.VX, a.VY, 0)
	dist := a.Radius * config.FragmentOffsetFactor

	fragments := make([]*Asteroid, 0, len(sizes))
	for i, size := range sizes {
		angle := heading
		if len(sizes) > 1 {
			spread := config.FragmentMinSpread + rng.Float64()*(config.FragmentSpread-config.FragmentMinSpread)
			if i%2 == 0 {
				angle += spread
			} else {
				angle -= spread
			}
		}
		x := a.X + math.Cos(angle)*dist
		y := a.Y + math.Sin(angle)*dist
		fragments = append(fragments, SpawnAsteroid(x, y, size, a.Variant, a.Speeds, a.SpeedScale, rng))
	}
	return fragments
}

// MarkDestroyed marks the asteroid for removal (implements Destructible).
func (a *Asteroid) MarkDestroyed() {
	a.destroyed = true
}

// IsDestroyed returns true if the asteroid is marked for destruction (implements Destructible).
func (a *Asteroid) IsDestroyed() bool {
	return a.destroyed
}

// Position returns the asteroid's center position.
func (a *Asteroid) Position() (float64, float64) {
	return a.X, a.Y
}

// CollisionRadius returns the asteroid's collision radius.
func (a *Asteroid) CollisionRadius() float64 {
	return a.Radius
}
