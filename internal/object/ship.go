package object

import (
	"math"
	"time"

	"github.com/tomz197/asteroids-arcade/internal/input"
	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

// ShipState is the ship's lifecycle state.
type ShipState int

const (
	ShipAlive      ShipState = iota // Flying and vulnerable
	ShipExploding                   // Hit; debris only, no input
	ShipInvincible                  // Flying, collisions ignored
	ShipDestroyed                   // Out of lives; terminal
)

// String returns the state name.
func (s ShipState) String() string {
	switch s {
	case ShipAlive:
		return "alive"
	case ShipExploding:
		return "exploding"
	case ShipInvincible:
		return "invincible"
	case ShipDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Ship is the player-controlled spaceship.
type Ship struct {
	X, Y      float64 // Position (center of ship)
	VX, VY    float64 // Velocity (momentum)
	Angle     float64 // Heading in radians (0 = right, -π/2 = up)
	Radius    float64 // Collision radius, fixed for the ship's lifetime
	State     ShipState
	Thrusting bool // Thrust engaged on the last update, for rendering

	Acceleration  float64       // Units per second squared while thrusting
	RotationSpeed float64       // Radians per second
	MaxSpeed      float64       // Velocity magnitude cap
	Friction      float64       // Fraction of velocity kept after one second
	FireInterval  time.Duration // Minimum time between shots

	// Deadlines on the simulated clock.
	nextFire        time.Duration
	nextHyperspace  time.Duration
	invincibleUntil time.Duration
	explosionEnd    time.Duration

	stalledTicks int // Invincible updates that saw no time pass, for the watchdog
}

// NewShip creates a ship at (x, y) pointing up, tuned by the difficulty profile.
func NewShip(x, y float64, profile config.Profile) *Ship {
	return &Ship{
		X:             x,
		Y:             y,
		Angle:         -math.Pi / 2,
		Radius:        config.ShipRadius,
		State:         ShipAlive,
		Acceleration:  profile.ShipAcceleration,
		RotationSpeed: config.ShipRotationSpeed,
		MaxSpeed:      config.ShipMaxSpeed,
		Friction:      config.ShipFriction,
		FireInterval:  profile.FireInterval(),
	}
}

// Update handles rotation, thrust, momentum physics, shooting and hyperspace.
// Exploding and destroyed ships ignore input entirely.
func (s *Ship) Update(ctx UpdateContext) (bool, error) {
	s.Thrusting = false
	if s.State == ShipExploding || s.State == ShipDestroyed {
		return false, nil
	}

	if s.State == ShipInvincible {
		if ctx.Delta <= 0 {
			s.stalledTicks++
		}
		if ctx.Now >= s.invincibleUntil || s.stalledTicks > config.InvincibilityWatchdogTicks {
			s.clearInvincibility()
			ctx.report(NoticeShieldDown, s.X, s.Y)
		}
	}

	dt := ctx.Delta.Seconds()
	in := ctx.Input
	if in == nil {
		in = input.None
	}

	// Rotation (left/right)
	if in.Engaged(input.RotateLeft) {
		s.Angle -= s.RotationSpeed * dt
	}
	if in.Engaged(input.RotateRight) {
		s.Angle += s.RotationSpeed * dt
	}
	s.Angle = physics.NormalizeAngle(s.Angle)

	// Thrust (accelerate in facing direction)
	if in.Engaged(input.Thrust) {
		s.Thrusting = true
		s.VX += math.Cos(s.Angle) * s.Acceleration * dt
		s.VY += math.Sin(s.Angle) * s.Acceleration * dt
	}

	// Friction, then clamp to max speed
	damping := math.Pow(s.Friction, dt)
	s.VX *= damping
	s.VY *= damping
	s.VX, s.VY = physics.ClampMagnitude(s.VX, s.VY, s.MaxSpeed)

	s.X += s.VX * dt
	s.Y += s.VY * dt
	ctx.Arena.Wrap(&s.X, &s.Y, s.Radius)

	if in.Engaged(input.Fire) {
		s.fire(ctx)
	}
	if in.Engaged(input.Hyperspace) {
		s.hyperspace(ctx)
	}

	return false, nil
}

// fire spawns a projectile from the nose when the cooldown has elapsed.
func (s *Ship) fire(ctx UpdateContext) {
	if ctx.Now < s.nextFire || ctx.Spawner == nil {
		return
	}
	s.nextFire = ctx.Now + s.FireInterval

	noseX, noseY := s.Nose()
	ctx.Spawner.Spawn(NewProjectile(noseX, noseY, s.Angle))
	ctx.report(NoticeFired, noseX, noseY)
}

// hyperspace jumps to a safe random spot, halves the velocity and grants a
// short invincibility window. It has its own long cooldown.
func (s *Ship) hyperspace(ctx UpdateContext) {
	if ctx.Now < s.nextHyperspace || ctx.Placer == nil {
		return
	}
	s.nextHyperspace = ctx.Now + config.HyperspaceCooldown

	s.X, s.Y = ctx.Placer.SafePosition(config.HyperspaceSafeDist)
	s.VX *= config.HyperspaceSpeedKeep
	s.VY *= config.HyperspaceSpeedKeep
	s.makeInvincible(ctx.Now + config.HyperspaceShield)
	ctx.report(NoticeHyperspace, s.X, s.Y)
}

// Damage handles an asteroid hit. Only an alive ship can be damaged: it
// starts exploding and bursts into debris. Returns false when the hit has no
// effect (invincible, exploding or destroyed).
func (s *Ship) Damage(now time.Duration, rng Rand, spawner Spawner) bool {
	if s.State != ShipAlive {
		return false
	}
	s.State = ShipExploding
	s.Thrusting = false
	s.explosionEnd = now + config.ShipExplosionTime
	SpawnExplosion(s.X, s.Y, config.ShipDebrisCount, 25.0, time.Second, rng, spawner)
	return true
}

// ExplosionOver reports whether an exploding ship has finished its explosion.
func (s *Ship) ExplosionOver(now time.Duration) bool {
	return s.State == ShipExploding && now >= s.explosionEnd
}

// Respawn puts the ship back at the arena centre, at rest and pointing up,
// with an invincibility window.
func (s *Ship) Respawn(arena Arena, now time.Duration) {
	s.X, s.Y = arena.Center()
	s.VX, s.VY = 0, 0
	s.Angle = -math.Pi / 2
	s.makeInvincible(now + config.InvincibilityTime)
}

// Destroy marks the ship as permanently destroyed.
func (s *Ship) Destroy() {
	s.State = ShipDestroyed
	s.VX, s.VY = 0, 0
	s.invincibleUntil = 0
}

func (s *Ship) makeInvincible(until time.Duration) {
	if s.State != ShipInvincible || until > s.invincibleUntil {
		s.invincibleUntil = until
	}
	s.State = ShipInvincible
	s.stalledTicks = 0
}

func (s *Ship) clearInvincibility() {
	s.State = ShipAlive
	s.invincibleUntil = 0
	s.stalledTicks = 0
}

// InvincibleRemaining returns how much invincibility is left at now.
// It is never negative and is zero for a ship that is not invincible.
func (s *Ship) InvincibleRemaining(now time.Duration) time.Duration {
	if s.State != ShipInvincible || now >= s.invincibleUntil {
		return 0
	}
	return s.invincibleUntil - now
}

// HyperspaceReady reports whether a hyperspace jump is available at now.
func (s *Ship) HyperspaceReady(now time.Duration) bool {
	return now >= s.nextHyperspace
}

// Vulnerable reports whether asteroid collisions affect the ship.
func (s *Ship) Vulnerable() bool {
	return s.State == ShipAlive
}

// Flying reports whether the ship is on the field and takes part in
// collision tests (alive or invincible).
func (s *Ship) Flying() bool {
	return s.State == ShipAlive || s.State == ShipInvincible
}

// Nose returns the position projectiles are fired from.
func (s *Ship) Nose() (float64, float64) {
	return s.X + math.Cos(s.Angle)*config.ShipNoseOffset,
		s.Y + math.Sin(s.Angle)*config.ShipNoseOffset
}

// Position returns the ship's center position.
func (s *Ship) Position() (float64, float64) {
	return s.X, s.Y
}

// CollisionRadius returns the ship's collision radius.
func (s *Ship) CollisionRadius() float64 {
	return s.Radius
}
