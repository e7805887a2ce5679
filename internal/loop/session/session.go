// Package session runs one single-player game: the fixed per-tick pipeline
// of actor updates, collision resolution, scoring and level progression.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/asteroids-arcade/internal/input"
	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/object"
	"github.com/tomz197/asteroids-arcade/internal/physics"
)

// ErrCorruptState is reported through EventFault when the session finds its
// own state inconsistent. The session ends instead of continuing.
var ErrCorruptState = errors.New("corrupt session state")

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseOver          // Lives ran out; Result is available
	PhaseEnded         // Ended by the player or by a fault
)

// Result summarises a finished game.
type Result struct {
	Score      int
	Level      int
	Elapsed    time.Duration
	Difficulty config.Difficulty
}

// Options configure a new session. Zero values fall back to defaults.
type Options struct {
	Difficulty config.Difficulty
	Profiles   config.Profiles // Defaults to config.DefaultProfiles()
	Width      float64         // Arena width, defaults to config.ArenaWidth
	Height     float64         // Arena height, defaults to config.ArenaHeight
	Rand       object.Rand     // Defaults to a randomly seeded PCG
	Logger     *log.Logger     // Defaults to a discarding logger
}

// Session is one game from start to game over. It is not safe for
// concurrent use; the owning frontend ticks it from a single goroutine.
type Session struct {
	id         uuid.UUID
	difficulty config.Difficulty
	profile    config.Profile
	phase      Phase
	clock      Clock
	world      *World
	director   *Director
	ledger     Ledger
	events     eventQueue
	rng        object.Rand
	logger     *log.Logger
	result     Result
}

// New creates a session and spawns level 1.
func New(opts Options) (*Session, error) {
	profiles := opts.Profiles
	if profiles == nil {
		profiles = config.DefaultProfiles()
	}
	profile := profiles.Lookup(opts.Difficulty)
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("difficulty %s: %w", opts.Difficulty, err)
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = config.ArenaWidth, config.ArenaHeight
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		id:         uuid.New(),
		difficulty: opts.Difficulty,
		profile:    profile,
		clock:      NewClock(config.MaxTickDelta),
		world:      newWorld(object.Arena{Width: width, Height: height}),
		ledger:     NewLedger(profile.StartingLives, config.BonusLifeThreshold),
		rng:        rng,
	}
	s.logger = logger.With("session", s.id.String()[:8])
	s.director = NewDirector(opts.Difficulty, profile, s.logger)

	cx, cy := s.world.Arena.Center()
	s.world.Ship = object.NewShip(cx, cy, profile)
	s.world.Asteroids = s.director.Begin(s.world.Arena, cx, cy, s.rng)
	s.events.push(Event{Kind: EventLevelStarted, Level: 1, Score: 0, Lives: s.ledger.Lives})

	s.logger.Info("session started", "difficulty", opts.Difficulty, "lives", s.ledger.Lives)
	return s, nil
}

// Tick advances the session to wall time now with the given input. It does
// nothing once the session is over or ended.
func (s *Session) Tick(now time.Time, in input.State) {
	if s.phase != PhasePlaying {
		return
	}
	dt := s.clock.Advance(now)
	s.step(dt, in)
}

func (s *Session) step(dt time.Duration, in input.State) {
	w := s.world
	now := s.clock.Now()
	ctx := object.UpdateContext{
		Delta:    dt,
		Now:      now,
		Input:    in,
		Arena:    w.Arena,
		Rand:     s.rng,
		Spawner:  w,
		Placer:   s,
		Reporter: s,
	}

	// Ship
	if _, err := w.Ship.Update(ctx); err != nil {
		s.fault(fmt.Errorf("ship update: %w", err))
		return
	}
	if w.Ship.ExplosionOver(now) {
		if s.ledger.Lives > 0 {
			w.Ship.Respawn(w.Arena, now)
			s.emit(Event{Kind: EventRespawned, X: w.Ship.X, Y: w.Ship.Y})
		} else {
			w.Ship.Destroy()
			s.gameOver()
			return
		}
	}

	// Non-player actors with no input
	ctx.Input = input.None
	for _, a := range w.Asteroids {
		if _, err := a.Update(ctx); err != nil {
			s.fault(fmt.Errorf("asteroid update: %w", err))
			return
		}
	}
	for _, p := range w.Projectiles {
		if _, err := p.Update(ctx); err != nil {
			s.fault(fmt.Errorf("projectile update: %w", err))
			return
		}
	}
	kept := w.Debris[:0]
	for _, p := range w.Debris {
		if remove, _ := p.Update(ctx); remove {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(w.Debris[len(kept):])
	w.Debris = kept
	w.compactProjectiles()
	w.FlushSpawned()

	// Collisions
	w.collisions = Resolve(w.Arena, w.Ship, w.Asteroids, w.Projectiles, w.grid, w.collisions)
	s.applyCollisions(now)

	// Level progression
	s.director.Observe(len(w.Asteroids))
	if cleared := s.director.State(); cleared.ActiveObstacles == 0 && w.Ship.State != object.ShipDestroyed {
		s.emit(Event{Kind: EventLevelCleared, Level: cleared.Number})
		w.Asteroids = s.director.Advance(w.Arena, w.Ship.X, w.Ship.Y, s.rng)
		level := s.director.State()
		s.emit(Event{Kind: EventLevelStarted, Level: level.Number})
		s.logger.Info("level cleared", "next", level.Number, "score", s.ledger.Score)
	}

	if err := s.validate(); err != nil {
		s.fault(err)
	}
}

// applyCollisions turns resolved contacts into state changes.
func (s *Session) applyCollisions(now time.Duration) {
	w := s.world
	if len(w.collisions) == 0 {
		return
	}

	var fragments []*object.Asteroid
	for _, c := range w.collisions {
		a := w.Asteroids[c.Asteroid]
		switch c.Kind {
		case ProjectileHit:
			w.Projectiles[c.Projectile].MarkDestroyed()
		case ShipHit:
			if !w.Ship.Damage(now, s.rng, w) {
				continue
			}
			lives := s.ledger.LoseLife()
			s.emit(Event{Kind: EventShipHit, X: w.Ship.X, Y: w.Ship.Y})
			s.logger.Debug("ship hit", "lives", lives, "asteroid", a.Size)
		}
		fragments = append(fragments, s.destroyAsteroid(a)...)
	}

	w.compactAsteroids()
	w.compactProjectiles()
	w.Asteroids = append(w.Asteroids, fragments...)
	w.FlushSpawned()
}

// destroyAsteroid scores and breaks up an asteroid, returning its fragments.
func (s *Session) destroyAsteroid(a *object.Asteroid) []*object.Asteroid {
	a.MarkDestroyed()
	score := s.ledger.AddScore(a.Size)
	s.emit(Event{Kind: EventAsteroidDestroyed, X: a.X, Y: a.Y, Size: a.Size, Points: a.Size.Score()})
	if s.ledger.CheckBonusLife(score) {
		s.emit(Event{Kind: EventBonusLife})
		s.logger.Debug("bonus life", "score", score, "lives", s.ledger.Lives)
	}
	object.SpawnExplosion(a.X, a.Y, int(a.Size)*4, 15.0, 600*time.Millisecond, s.rng, s.world)
	return a.Fragment(s.rng)
}

// validate checks the invariants the pipeline relies on.
func (s *Session) validate() error {
	w := s.world
	if s.ledger.Lives < 0 || s.ledger.Score < 0 {
		return fmt.Errorf("%w: lives %d score %d", ErrCorruptState, s.ledger.Lives, s.ledger.Score)
	}
	level := s.director.State()
	if level.Number < 1 || level.SpeedMultiplier < 1 {
		return fmt.Errorf("%w: level %d multiplier %v", ErrCorruptState, level.Number, level.SpeedMultiplier)
	}
	if !physics.IsFinite(w.Ship.X, w.Ship.Y, w.Ship.VX, w.Ship.VY) {
		return fmt.Errorf("%w: ship at (%v, %v)", ErrCorruptState, w.Ship.X, w.Ship.Y)
	}
	for _, a := range w.Asteroids {
		if !physics.IsFinite(a.X, a.Y, a.VX, a.VY) {
			return fmt.Errorf("%w: %s asteroid at (%v, %v)", ErrCorruptState, a.Size, a.X, a.Y)
		}
	}
	return nil
}

// fault ends the session after an internal error.
func (s *Session) fault(err error) {
	s.logger.Error("session fault", "err", err)
	s.emit(Event{Kind: EventFault, Err: err})
	s.End()
}

// gameOver records the result and tears the game down.
func (s *Session) gameOver() {
	level := s.director.State()
	s.result = Result{
		Score:      s.ledger.Score,
		Level:      level.Number,
		Elapsed:    s.clock.Now(),
		Difficulty: s.difficulty,
	}
	s.emit(Event{Kind: EventGameOver, Level: level.Number})
	s.logger.Info("game over", "score", s.result.Score, "level", s.result.Level,
		"elapsed", s.result.Elapsed.Round(time.Second))
	s.teardown(PhaseOver)
}

// End stops the session early, e.g. when the player quits. The partial game
// does not produce a Result.
func (s *Session) End() {
	if s.phase != PhasePlaying {
		return
	}
	s.logger.Debug("session ended", "score", s.ledger.Score)
	s.teardown(PhaseEnded)
}

func (s *Session) teardown(phase Phase) {
	s.phase = phase
	s.world.discard()
	s.ledger = NewLedger(0, config.BonusLifeThreshold)
	s.director = NewDirector(s.difficulty, s.profile, s.logger)
}

func (s *Session) emit(e Event) {
	e.Score = s.ledger.Score
	e.Lives = s.ledger.Lives
	s.events.push(e)
}

// SafePosition implements object.Placer for hyperspace jumps.
func (s *Session) SafePosition(minDistance float64) (float64, float64) {
	x, y, ok := SafePosition(s.world.Arena, s.rng, minDistance, s.world.hazards())
	if !ok {
		s.logger.Warn("no safe hyperspace position", "attempts", config.SafeSpawnMaxAttempts)
	}
	return x, y
}

// Report implements object.Reporter.
func (s *Session) Report(n object.Notice) {
	switch n.Kind {
	case object.NoticeFired:
		s.emit(Event{Kind: EventShot, X: n.X, Y: n.Y})
	case object.NoticeHyperspace:
		s.emit(Event{Kind: EventHyperspace, X: n.X, Y: n.Y})
	case object.NoticeShieldDown:
		s.emit(Event{Kind: EventShieldDown, X: n.X, Y: n.Y})
	}
}

// Resize changes the arena to match the frontend's viewport.
func (s *Session) Resize(width, height float64) {
	s.world.Resize(width, height)
}

// Events drains the events raised since the last call.
func (s *Session) Events() []Event {
	return s.events.drain()
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// Phase returns the lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Difficulty returns the difficulty the session was started with.
func (s *Session) Difficulty() config.Difficulty { return s.difficulty }

// Now returns the simulated time since the first tick.
func (s *Session) Now() time.Duration { return s.clock.Now() }

// World exposes the actors for rendering. Callers must not modify them.
func (s *Session) World() *World { return s.world }

// Ship returns the player's ship, or nil once the game is over.
func (s *Session) Ship() *object.Ship { return s.world.Ship }

// Ledger returns a copy of the score state.
func (s *Session) Ledger() Ledger { return s.ledger }

// Level returns the current level state.
func (s *Session) Level() LevelState { return s.director.State() }

// Result returns the final result once the game is over.
func (s *Session) Result() (Result, bool) {
	return s.result, s.phase == PhaseOver
}

// Asteroids returns the asteroids on the field.
func (s *Session) Asteroids() []*object.Asteroid { return s.world.Asteroids }

// Projectiles returns the live projectiles.
func (s *Session) Projectiles() []*object.Projectile { return s.world.Projectiles }

// Debris returns the decorative particles.
func (s *Session) Debris() []*object.Particle { return s.world.Debris }

// Arena returns the current arena bounds.
func (s *Session) Arena() object.Arena { return s.world.Arena }
