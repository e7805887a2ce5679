package object

import (
	"math"
	"sync"
	"time"
)

// particlePool reuses Particle values; explosions create dozens at once.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived piece of decorative debris. It never collides.
type Particle struct {
	X, Y        float64       // Position
	VX, VY      float64       // Velocity
	Lifetime    time.Duration // Remaining
	MaxLifetime time.Duration // Initial lifetime (for fade calculation)
	Drag        float64       // Fraction of velocity kept after one second
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy float64, lifetime time.Duration) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.05,
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion emits count particles in a circular burst around (x, y).
func SpawnExplosion(x, y float64, count int, speed float64, lifetime time.Duration, rng Rand, spawner Spawner) {
	if spawner == nil {
		return
	}

	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rng.Float64())                                 // 50% to 150%
		life := time.Duration(float64(lifetime) * (0.5 + rng.Float64()*0.5)) // 50% to 100%

		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	p.Lifetime -= ctx.Delta
	if p.Lifetime <= 0 {
		return true, nil
	}

	dt := ctx.Delta.Seconds()
	drag := math.Pow(p.Drag, dt)
	p.VX *= drag
	p.VY *= drag
	p.X += p.VX * dt
	p.Y += p.VY * dt

	// Debris is not wrapped; it fades before it matters.
	return false, nil
}

// Fade returns the remaining fraction of the particle's life in [0, 1].
func (p *Particle) Fade() float64 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	return max(0, float64(p.Lifetime)/float64(p.MaxLifetime))
}
