package session

import (
	"github.com/tomz197/asteroids-arcade/internal/object"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

// CollisionKind tells what an asteroid collided with.
type CollisionKind int

const (
	ProjectileHit CollisionKind = iota
	ShipHit
)

// Collision is one resolved contact. Indexes refer to the slices passed to
// Resolve; Projectile is -1 for ship hits.
type Collision struct {
	Kind       CollisionKind
	Asteroid   int
	Projectile int
}

// collisionCellSize covers the largest asteroid plus a projectile, so every
// contact is found within the 3x3 neighbourhood of a cell.
const collisionCellSize = 10.0

// Resolve finds this tick's contacts without touching any actor. Each
// asteroid takes part in at most one collision, a projectile hit winning
// over a ship contact, and each projectile hits at most one asteroid. The
// ship is reported at most once and only while it is vulnerable; contacts
// with an invincible ship are tested but produce nothing. Distances are
// measured across the arena's wrapping edges, matching how actors are drawn
// on both sides of an edge. grid is scratch space for the projectile broad
// phase.
func Resolve(arena object.Arena, ship *object.Ship, asteroids []*object.Asteroid, projectiles []*object.Projectile, grid *physics.SpatialGrid, out []Collision) []Collision {
	out = out[:0]

	grid.Clear()
	for i, p := range projectiles {
		if !p.IsDestroyed() {
			grid.Insert(p.X, p.Y, i)
		}
	}
	spent := make([]bool, len(projectiles))

	shipTaken := ship == nil || !ship.Flying()
	for ai, a := range asteroids {
		if a.IsDestroyed() {
			continue
		}

		hit := -1
		grid.QueryAround(a.X, a.Y, func(pi int) bool {
			if spent[pi] {
				return false
			}
			p := projectiles[pi]
			if physics.CirclesOverlapWrapped(a.X, a.Y, a.Radius, p.X, p.Y, p.Radius, arena.Width, arena.Height) {
				if hit < 0 || pi < hit {
					hit = pi
				}
			}
			return false
		})
		if hit >= 0 {
			spent[hit] = true
			out = append(out, Collision{Kind: ProjectileHit, Asteroid: ai, Projectile: hit})
			continue
		}

		if shipTaken {
			continue
		}
		if physics.CirclesOverlapWrapped(ship.X, ship.Y, ship.Radius, a.X, a.Y, a.Radius, arena.Width, arena.Height) &&
			ship.Vulnerable() {
			shipTaken = true
			out = append(out, Collision{Kind: ShipHit, Asteroid: ai, Projectile: -1})
		}
	}
	return out
}
