// Package object implements the actors of the simulation: the ship, asteroids,
// projectiles and decorative debris.
package object

import (
	"time"

	"github.com/tomz197/asteroids-arcade/internal/input"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Placer finds a position at least minDistance away from every asteroid.
type Placer interface {
	SafePosition(minDistance float64) (x, y float64)
}

// Reporter receives gameplay notices raised by actors during update.
type Reporter interface {
	Report(n Notice)
}

// NoticeKind identifies a gameplay notice.
type NoticeKind int

const (
	NoticeFired NoticeKind = iota
	NoticeHyperspace
	NoticeShieldDown
)

// Notice is something an actor did that its owner may want to surface.
type Notice struct {
	Kind NoticeKind
	X, Y float64
}

// Rand is the random source actors draw from. *rand.Rand from math/rand/v2
// satisfies it; tests substitute scripted sources.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta    time.Duration // Clamped time since the previous tick
	Now      time.Duration // Simulated time since session start
	Input    input.State
	Arena    Arena
	Rand     Rand
	Spawner  Spawner
	Placer   Placer
	Reporter Reporter
}

func (ctx UpdateContext) report(kind NoticeKind, x, y float64) {
	if ctx.Reporter != nil {
		ctx.Reporter.Report(Notice{Kind: kind, X: x, Y: y})
	}
}

// Object is an updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)
}

// Collidable is implemented by everything that takes part in collision tests.
type Collidable interface {
	Position() (x, y float64)
	CollisionRadius() float64
}

// Destructible is implemented by actors that are marked during a tick and
// compacted out of their collection afterwards.
type Destructible interface {
	MarkDestroyed()
	IsDestroyed() bool
}

// Releasable is implemented by pooled actors.
type Releasable interface {
	Release()
}

// ReleaseObject returns obj to its pool when it is pooled.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if an object with remaining protection/invincibility
// time should be rendered this frame (for blinking effect).
// Returns true always if remaining <= 0 (no protection).
func ShouldRenderBlink(remaining time.Duration, frequency float64) bool {
	if remaining <= 0 {
		return true
	}
	phase := int(remaining.Seconds() * frequency)
	return phase%2 != 0
}
