package object

import (
	"time"

	"github.com/tomz197/asteroids-arcade/internal/input"
)

// scriptedRand replays fixed values, then returns 0.5 forever.
type scriptedRand struct {
	values []float64
	next   int
}

func (r *scriptedRand) Float64() float64 {
	if r.next < len(r.values) {
		v := r.values[r.next]
		r.next++
		return v
	}
	return 0.5
}

func (r *scriptedRand) IntN(n int) int {
	return 0
}

// collector records spawned objects.
type collector struct {
	objects []Object
}

func (c *collector) Spawn(obj Object) {
	c.objects = append(c.objects, obj)
}

func (c *collector) projectiles() []*Projectile {
	var out []*Projectile
	for _, obj := range c.objects {
		if p, ok := obj.(*Projectile); ok {
			out = append(out, p)
		}
	}
	return out
}

// fixedPlacer always answers the same position.
type fixedPlacer struct {
	x, y float64
}

func (p fixedPlacer) SafePosition(float64) (float64, float64) {
	return p.x, p.y
}

// noticeLog records reported notices.
type noticeLog struct {
	notices []Notice
}

func (l *noticeLog) Report(n Notice) {
	l.notices = append(l.notices, n)
}

var testArena = Arena{Width: 160, Height: 100}

func testContext(now, delta time.Duration, in input.State, spawner Spawner) UpdateContext {
	return UpdateContext{
		Delta:   delta,
		Now:     now,
		Input:   in,
		Arena:   testArena,
		Rand:    &scriptedRand{},
		Spawner: spawner,
		Placer:  fixedPlacer{x: 10, y: 20},
	}
}
