package object

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

func testParent(size AsteroidSize) *Asteroid {
	speeds := config.DefaultProfiles()[config.Medium].Speeds
	a := SpawnAsteroid(50, 40, size, VariantIcy, speeds, 1.2, &scriptedRand{})
	return a
}

func sizesOf(fragments []*Asteroid) []AsteroidSize {
	out := make([]AsteroidSize, len(fragments))
	for i, f := range fragments {
		out[i] = f.Size
	}
	return out
}

func TestFragmentBranches(t *testing.T) {
	S, M := AsteroidSmall, AsteroidMedium
	tests := []struct {
		name string
		size AsteroidSize
		roll float64
		want []AsteroidSize
	}{
		{"large two medium low", AsteroidLarge, 0.00, []AsteroidSize{M, M}},
		{"large two medium high", AsteroidLarge, 0.2499, []AsteroidSize{M, M}},
		{"large two small low", AsteroidLarge, 0.25, []AsteroidSize{S, S}},
		{"large two small high", AsteroidLarge, 0.4499, []AsteroidSize{S, S}},
		{"large medium and small low", AsteroidLarge, 0.45, []AsteroidSize{M, S}},
		{"large medium and small high", AsteroidLarge, 0.7499, []AsteroidSize{M, S}},
		{"large one medium low", AsteroidLarge, 0.75, []AsteroidSize{M}},
		{"large one medium high", AsteroidLarge, 0.8999, []AsteroidSize{M}},
		{"large one small low", AsteroidLarge, 0.90, []AsteroidSize{S}},
		{"large one small high", AsteroidLarge, 0.9999, []AsteroidSize{S}},
		{"medium two small low", AsteroidMedium, 0.00, []AsteroidSize{S, S}},
		{"medium two small high", AsteroidMedium, 0.6999, []AsteroidSize{S, S}},
		{"medium one small low", AsteroidMedium, 0.70, []AsteroidSize{S}},
		{"medium one small high", AsteroidMedium, 0.9999, []AsteroidSize{S}},
		{"small never fragments", AsteroidSmall, 0.00, nil},
		{"small never fragments high", AsteroidSmall, 0.99, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := testParent(tt.size)
			fragments := parent.Fragment(&scriptedRand{values: []float64{tt.roll}})
			got := sizesOf(fragments)
			if len(tt.want) == 0 {
				if len(got) != 0 {
					t.Fatalf("fragments = %v, want none", got)
				}
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("fragments = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFragmentSeededOutcomesStayInTable(t *testing.T) {
	allowed := map[AsteroidSize][][]AsteroidSize{}
	for size, rules := range fragmentTable {
		for _, rule := range rules {
			allowed[size] = append(allowed[size], rule.Sizes)
		}
	}

	rng := rand.New(rand.NewPCG(42, 7))
	for _, size := range []AsteroidSize{AsteroidLarge, AsteroidMedium} {
		seen := make(map[int]bool)
		for i := 0; i < 2000; i++ {
			got := sizesOf(testParent(size).Fragment(rng))
			idx := slices.IndexFunc(allowed[size], func(s []AsteroidSize) bool { return slices.Equal(s, got) })
			if idx < 0 {
				t.Fatalf("%s produced %v, not in the outcome table", size, got)
			}
			seen[idx] = true
		}
		if len(seen) != len(allowed[size]) {
			t.Errorf("%s: saw %d of %d outcomes in 2000 draws", size, len(seen), len(allowed[size]))
		}
	}
}

func TestFragmentInheritsContext(t *testing.T) {
	parent := testParent(AsteroidLarge)
	parent.VX, parent.VY = 10, 0

	fragments := parent.Fragment(&scriptedRand{values: []float64{0.1, 0.0, 0.3, 0.9}})
	if len(fragments) != 2 {
		t.Fatalf("got %d fragments, want 2", len(fragments))
	}

	for _, f := range fragments {
		if f.Variant != parent.Variant {
			t.Errorf("variant = %v, want %v", f.Variant, parent.Variant)
		}
		if f.Speeds != parent.Speeds || f.SpeedScale != parent.SpeedScale {
			t.Errorf("difficulty context not inherited: %+v x%g", f.Speeds, f.SpeedScale)
		}
		r := f.Size.speedRange(parent.Speeds)
		speed := f.Speed()
		if speed < r.Min*parent.SpeedScale-1e-9 || speed > r.Max*parent.SpeedScale+1e-9 {
			t.Errorf("speed %g outside [%g, %g]", speed, r.Min*parent.SpeedScale, r.Max*parent.SpeedScale)
		}
		if f.Radius != f.Size.Radius() {
			t.Errorf("radius = %g, want %g", f.Radius, f.Size.Radius())
		}
	}

	a, b := fragments[0], fragments[1]
	if physics.Distance(a.X, a.Y, b.X, b.Y) < 1e-6 {
		t.Error("sibling fragments spawned on top of each other")
	}
	if a.X == parent.X && a.Y == parent.Y {
		t.Error("fragment spawned exactly on the parent")
	}
}

func TestFragmentZeroVelocityParent(t *testing.T) {
	parent := testParent(AsteroidMedium)
	parent.VX, parent.VY = 0, 0

	fragments := parent.Fragment(&scriptedRand{values: []float64{0.0}})
	for _, f := range fragments {
		if !physics.IsFinite(f.X, f.Y, f.VX, f.VY) {
			t.Fatalf("non-finite fragment: %+v", f)
		}
	}
}

func TestAsteroidScoreOrdering(t *testing.T) {
	if !(AsteroidLarge.Score() < AsteroidMedium.Score() && AsteroidMedium.Score() < AsteroidSmall.Score()) {
		t.Errorf("scores not increasing as size shrinks: L=%d M=%d S=%d",
			AsteroidLarge.Score(), AsteroidMedium.Score(), AsteroidSmall.Score())
	}
}

func TestAsteroidWrapsAtEdges(t *testing.T) {
	a := testParent(AsteroidLarge)
	a.VX, a.VY = 0, 0
	a.X = -a.Radius - 1
	a.Y = testArena.Height + a.Radius + 1

	if _, err := a.Update(testContext(0, 0, nil, nil)); err != nil {
		t.Fatal(err)
	}
	if math.Abs(a.X-(testArena.Width+a.Radius)) > 1e-9 {
		t.Errorf("x = %g, want %g", a.X, testArena.Width+a.Radius)
	}
	if math.Abs(a.Y-(-a.Radius)) > 1e-9 {
		t.Errorf("y = %g, want %g", a.Y, -a.Radius)
	}
}

func TestWrapKeepsActorsInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		arena := Arena{Width: 20 + rng.Float64()*300, Height: 20 + rng.Float64()*300}
		a := SpawnAsteroid(rng.Float64()*arena.Width, rng.Float64()*arena.Height,
			AsteroidSmall, VariantRocky, config.DefaultProfiles()[config.Difficult].Speeds, 3, rng)
		ctx := testContext(0, 100*time.Millisecond, nil, nil)
		ctx.Arena = arena
		for step := 0; step < 50; step++ {
			a.Update(ctx)
			if a.X < -a.Radius || a.X > arena.Width+a.Radius || a.Y < -a.Radius || a.Y > arena.Height+a.Radius {
				t.Fatalf("asteroid at (%g, %g) outside %gx%g ± %g", a.X, a.Y, arena.Width, arena.Height, a.Radius)
			}
		}
	}
}

func TestDestroyedAsteroidIsRemoved(t *testing.T) {
	a := testParent(AsteroidSmall)
	a.MarkDestroyed()
	remove, err := a.Update(testContext(0, 0, nil, nil))
	if err != nil || !remove {
		t.Errorf("Update = (%v, %v), want (true, nil)", remove, err)
	}
}
