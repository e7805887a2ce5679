package client

import (
	"math"
	"time"

	"github.com/tomz197/asteroids-arcade/internal/draw"
	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/loop/session"
	"github.com/tomz197/asteroids-arcade/internal/object"
)

// variantColors maps asteroid variants to palette colours.
var variantColors = map[object.AsteroidVariant]draw.Color{
	object.VariantRocky:    draw.White,
	object.VariantMetallic: draw.Cyan,
	object.VariantIcy:      draw.Blue,
}

// drawWorld draws every actor of the game onto the canvas.
func (c *Client) drawWorld(game *session.Session) {
	arena := game.Arena()

	for _, p := range game.Debris() {
		color := draw.Yellow
		if p.Fade() < 0.4 {
			color = draw.Gray
		}
		c.canvas.Plot(p.X, p.Y, color)
	}

	for _, a := range game.Asteroids() {
		for _, off := range wrapOffsets(a.X, a.Y, a.Radius, arena) {
			c.drawAsteroid(a, off)
		}
	}

	for _, p := range game.Projectiles() {
		c.canvas.Plot(p.X, p.Y, draw.Yellow)
	}

	if ship := game.Ship(); ship != nil && ship.Flying() &&
		object.ShouldRenderBlink(ship.InvincibleRemaining(game.Now()), config.PlayerBlinkFreq) {
		for _, off := range wrapOffsets(ship.X, ship.Y, ship.Radius, arena) {
			c.drawShip(ship, off, game.Now())
		}
	}
}

// drawAsteroid draws the irregular outline around the asteroid's centre,
// shifted by off.
func (c *Client) drawAsteroid(a *object.Asteroid, off draw.Point) {
	n := len(a.Vertices)
	if n < 3 {
		return
	}
	points := c.canvas.BorrowPoints(n)
	step := 2 * math.Pi / float64(n)
	for i, dist := range a.Vertices {
		angle := a.Angle + float64(i)*step
		points[i] = draw.Point{
			X: a.X + off.X + math.Cos(angle)*dist,
			Y: a.Y + off.Y + math.Sin(angle)*dist,
		}
	}
	color, ok := variantColors[a.Variant]
	if !ok {
		color = draw.White
	}
	c.canvas.Polygon(points, color, false)
}

// drawShip draws the ship as a triangle pointing along its heading, with a
// flickering flame while thrusting.
func (c *Client) drawShip(s *object.Ship, off draw.Point, now time.Duration) {
	x, y := s.X+off.X, s.Y+off.Y
	nose := draw.Point{X: x + math.Cos(s.Angle)*config.ShipNoseOffset, Y: y + math.Sin(s.Angle)*config.ShipNoseOffset}
	left := draw.Point{X: x + math.Cos(s.Angle+2.5)*s.Radius, Y: y + math.Sin(s.Angle+2.5)*s.Radius}
	right := draw.Point{X: x + math.Cos(s.Angle-2.5)*s.Radius, Y: y + math.Sin(s.Angle-2.5)*s.Radius}

	points := c.canvas.BorrowPoints(3)
	points[0], points[1], points[2] = nose, left, right
	c.canvas.Polygon(points, draw.Green, true)

	if s.Thrusting && now/(50*time.Millisecond)%2 == 0 {
		tail := draw.Point{
			X: x - math.Cos(s.Angle)*(s.Radius+1.5),
			Y: y - math.Sin(s.Angle)*(s.Radius+1.5),
		}
		c.canvas.Line(left, tail, draw.Red)
		c.canvas.Line(right, tail, draw.Red)
	}
}

// wrapOffsets returns the translations at which an object of radius r must
// be drawn so that it shows on both sides of a wrapping edge.
func wrapOffsets(x, y, r float64, arena object.Arena) []draw.Point {
	xs := []float64{0}
	if x < r {
		xs = append(xs, arena.Width)
	} else if x > arena.Width-r {
		xs = append(xs, -arena.Width)
	}
	ys := []float64{0}
	if y < r {
		ys = append(ys, arena.Height)
	} else if y > arena.Height-r {
		ys = append(ys, -arena.Height)
	}

	out := make([]draw.Point, 0, len(xs)*len(ys))
	for _, dx := range xs {
		for _, dy := range ys {
			out = append(out, draw.Point{X: dx, Y: dy})
		}
	}
	return out
}
