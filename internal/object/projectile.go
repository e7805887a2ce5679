package object

import (
	"math"
	"time"

	"github.com/tomz197/asteroids-arcade/internal/loop/config"
)

// Projectile is a bullet fired by the ship. It flies at a fixed speed along
// a fixed heading and wraps at the arena edges until its lifetime runs out.
type Projectile struct {
	X, Y      float64       // Position
	VX, VY    float64       // Velocity
	Heading   float64       // Direction of travel
	Lifetime  time.Duration // Remaining time before removal
	Radius    float64
	destroyed bool
}

// NewProjectile creates a projectile at (x, y) traveling along heading.
func NewProjectile(x, y, heading float64) *Projectile {
	return &Projectile{
		X:        x,
		Y:        y,
		VX:       math.Cos(heading) * config.ProjectileSpeed,
		VY:       math.Sin(heading) * config.ProjectileSpeed,
		Heading:  heading,
		Lifetime: config.ProjectileLifetime,
		Radius:   config.ProjectileRadius,
	}
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
	p.Lifetime = 0
}

// IsDestroyed returns true if the projectile is marked for destruction.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed || p.Lifetime <= 0
}

// Update moves the projectile and checks lifetime.
func (p *Projectile) Update(ctx UpdateContext) (bool, error) {
	if p.destroyed {
		return true, nil
	}

	p.Lifetime -= ctx.Delta
	if p.Lifetime <= 0 {
		p.Lifetime = 0
		return true, nil
	}

	dt := ctx.Delta.Seconds()
	p.X += p.VX * dt
	p.Y += p.VY * dt
	ctx.Arena.Wrap(&p.X, &p.Y, p.Radius)

	return false, nil
}

// Position returns the projectile position.
func (p *Projectile) Position() (float64, float64) {
	return p.X, p.Y
}

// CollisionRadius returns the projectile collision radius.
func (p *Projectile) CollisionRadius() float64 {
	return p.Radius
}
