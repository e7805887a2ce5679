package session

import (
	"github.com/tomz197/asteroids-arcade/internal/object"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

// World holds the actors of one session, grouped by kind so the collision
// pass never has to type-switch.
type World struct {
	Arena       object.Arena
	Ship        *object.Ship
	Asteroids   []*object.Asteroid
	Projectiles []*object.Projectile
	Debris      []*object.Particle

	toSpawn []object.Object // Objects to add after the current update pass

	grid       *physics.SpatialGrid
	collisions []Collision
}

func newWorld(arena object.Arena) *World {
	return &World{
		Arena: arena,
		grid:  physics.NewSpatialGrid(arena.Width, arena.Height, collisionCellSize),
	}
}

// Spawn queues an object to be added after the current update pass.
// Implements object.Spawner.
func (w *World) Spawn(obj object.Object) {
	w.toSpawn = append(w.toSpawn, obj)
}

// FlushSpawned moves all queued objects into their collections.
func (w *World) FlushSpawned() {
	for _, obj := range w.toSpawn {
		switch o := obj.(type) {
		case *object.Projectile:
			w.Projectiles = append(w.Projectiles, o)
		case *object.Asteroid:
			w.Asteroids = append(w.Asteroids, o)
		case *object.Particle:
			w.Debris = append(w.Debris, o)
		}
	}
	clear(w.toSpawn)
	w.toSpawn = w.toSpawn[:0]
}

// Resize changes the arena bounds. Actors outside the new bounds wrap back
// in on their next update.
func (w *World) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	w.Arena = object.Arena{Width: width, Height: height}
	w.grid.Resize(width, height)
}

// hazards returns the live asteroids as collidables.
func (w *World) hazards() []object.Collidable {
	out := make([]object.Collidable, 0, len(w.Asteroids))
	for _, a := range w.Asteroids {
		if !a.IsDestroyed() {
			out = append(out, a)
		}
	}
	return out
}

// compactAsteroids drops destroyed asteroids in place.
func (w *World) compactAsteroids() {
	w.Asteroids = compact(w.Asteroids)
}

// compactProjectiles drops spent projectiles in place.
func (w *World) compactProjectiles() {
	w.Projectiles = compact(w.Projectiles)
}

// compact drops destroyed items in place and clears the freed tail.
func compact[T object.Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}

// discard drops every actor, returning pooled ones, including any still
// queued for spawning.
func (w *World) discard() {
	for _, p := range w.Debris {
		p.Release()
	}
	for _, obj := range w.toSpawn {
		object.ReleaseObject(obj)
	}
	clear(w.toSpawn)
	w.toSpawn = w.toSpawn[:0]
	w.Ship = nil
	w.Asteroids = nil
	w.Projectiles = nil
	w.Debris = nil
}
