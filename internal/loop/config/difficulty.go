package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Difficulty names a difficulty profile.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Difficult
)

// Difficulties lists every profile in menu order.
var Difficulties = []Difficulty{Easy, Medium, Difficult}

// String returns the lower-case profile name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Difficult:
		return "difficult"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts a profile name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// SpeedRange is an inclusive range of scalar speeds in units per second.
type SpeedRange struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Sample maps u in [0,1) onto the range.
func (r SpeedRange) Sample(u float64) float64 {
	return r.Min + u*(r.Max-r.Min)
}

// TierSpeeds holds a speed range per asteroid size tier.
type TierSpeeds struct {
	Large  SpeedRange `toml:"large"`
	Medium SpeedRange `toml:"medium"`
	Small  SpeedRange `toml:"small"`
}

// Profile is one row of the difficulty table.
type Profile struct {
	Obstacles        int        `toml:"obstacles"`         // Asteroids spawned on level 1
	Speeds           TierSpeeds `toml:"speeds"`            // Asteroid speeds per tier
	ShipAcceleration float64    `toml:"ship_acceleration"` // Units per second squared
	FireCooldown     float64    `toml:"fire_cooldown"`     // Seconds between shots
	StartingLives    int        `toml:"starting_lives"`
}

// FireInterval returns the fire cooldown as a duration.
func (p Profile) FireInterval() time.Duration {
	return time.Duration(math.Round(p.FireCooldown * float64(time.Second)))
}

// Validate reports the first nonsensical value in the profile.
func (p Profile) Validate() error {
	switch {
	case p.Obstacles < 1:
		return fmt.Errorf("obstacles must be at least 1, got %d", p.Obstacles)
	case p.StartingLives < 1:
		return fmt.Errorf("starting_lives must be at least 1, got %d", p.StartingLives)
	case p.ShipAcceleration <= 0:
		return fmt.Errorf("ship_acceleration must be positive, got %g", p.ShipAcceleration)
	case p.FireCooldown < 0:
		return fmt.Errorf("fire_cooldown must not be negative, got %g", p.FireCooldown)
	}
	tiers := []struct {
		name string
		r    SpeedRange
	}{
		{"large", p.Speeds.Large},
		{"medium", p.Speeds.Medium},
		{"small", p.Speeds.Small},
	}
	for _, tier := range tiers {
		if tier.r.Min < 0 || tier.r.Max < tier.r.Min {
			return fmt.Errorf("speeds.%s: invalid range [%g, %g]", tier.name, tier.r.Min, tier.r.Max)
		}
	}
	return nil
}

// Profiles is the difficulty table.
type Profiles map[Difficulty]Profile

// DefaultProfiles returns the built-in difficulty table.
func DefaultProfiles() Profiles {
	return Profiles{
		Easy: {
			Obstacles: 2,
			Speeds: TierSpeeds{
				Large:  SpeedRange{Min: 4, Max: 8},
				Medium: SpeedRange{Min: 7, Max: 12},
				Small:  SpeedRange{Min: 10, Max: 16},
			},
			ShipAcceleration: 45,
			FireCooldown:     0.15,
			StartingLives:    5,
		},
		Medium: {
			Obstacles: 3,
			Speeds: TierSpeeds{
				Large:  SpeedRange{Min: 6, Max: 11},
				Medium: SpeedRange{Min: 10, Max: 16},
				Small:  SpeedRange{Min: 14, Max: 22},
			},
			ShipAcceleration: 40,
			FireCooldown:     0.2,
			StartingLives:    3,
		},
		Difficult: {
			Obstacles: 5,
			Speeds: TierSpeeds{
				Large:  SpeedRange{Min: 9, Max: 15},
				Medium: SpeedRange{Min: 14, Max: 22},
				Small:  SpeedRange{Min: 20, Max: 30},
			},
			ShipAcceleration: 36,
			FireCooldown:     0.3,
			StartingLives:    2,
		},
	}
}

// Lookup returns the profile for d, falling back to the built-in Medium row.
func (p Profiles) Lookup(d Difficulty) Profile {
	if prof, ok := p[d]; ok {
		return prof
	}
	return DefaultProfiles()[Medium]
}

// profileFile is the on-disk shape of a difficulty table.
type profileFile struct {
	Easy      Profile `toml:"easy"`
	Medium    Profile `toml:"medium"`
	Difficult Profile `toml:"difficult"`
}

// LoadProfiles reads a TOML difficulty table. Tables missing from the file
// keep their built-in values; keys missing from a table keep the built-in
// value of that key.
func LoadProfiles(path string) (Profiles, error) {
	defaults := DefaultProfiles()
	file := profileFile{Easy: defaults[Easy], Medium: defaults[Medium], Difficult: defaults[Difficult]}

	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode difficulty file %s: %w", path, err)
	}

	out := Profiles{Easy: file.Easy, Medium: file.Medium, Difficult: file.Difficult}
	for _, diff := range Difficulties {
		if err := out[diff].Validate(); err != nil {
			return nil, fmt.Errorf("difficulty %s: %w", diff, err)
		}
	}
	return out, nil
}
