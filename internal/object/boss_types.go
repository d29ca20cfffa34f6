package object

import (
	"errors"
	"fmt"
)

// BossType identifies a boss configuration record.
type BossType string

// Stock boss tiers.
const (
	BossDreadnought BossType = "dreadnought"
	BossDestroyer   BossType = "destroyer"
	BossAnnihilator BossType = "annihilator"
)

// MovementPattern selects the closed-form movement function of a boss.
type MovementPattern string

// Movement patterns.
const (
	MovementSway     MovementPattern = "sway"     // Side to side around the anchor
	MovementStrafe   MovementPattern = "strafe"   // Flattened circle around the anchor
	MovementTracking MovementPattern = "tracking" // Eased pursuit of a sway target
)

// Valid reports whether p is a known pattern.
func (p MovementPattern) Valid() bool {
	switch p {
	case MovementSway, MovementStrafe, MovementTracking:
		return true
	}
	return false
}

// Movement holds pattern-specific parameters. Tracking uses the sway fields.
type Movement struct {
	Pattern       MovementPattern
	SwayAmplitude float64
	SwayPeriod    float64 // Seconds per sway cycle
	StrafeRadius  float64
	StrafePeriod  float64 // Seconds per lap
}

// Reward is paid out when a boss is defeated.
type Reward struct {
	Score int
	Cores int
}

// BossConfig is the per-type behavior record consumed by Boss.
type BossConfig struct {
	Type          BossType
	Name          string // Display name
	KillThreshold int    // Cumulative kills that summon this tier

	MaxHP        float64
	FireInterval float64 // Seconds between fire events
	BulletSpeed  float64
	BulletRange  float64
	BulletDamage float64

	SpreadThreshold float64 // HP fraction at or below which shots fan out
	SpreadCount     int

	RushThreshold float64 // HP fraction at or below which rushes happen; 0 disables
	RushSpeed     float64
	RushInterval  float64 // Seconds between rushes

	Movement Movement
	Reward   Reward
}

// Validate checks the record for values the engine cannot use.
func (c BossConfig) Validate() error {
	switch {
	case c.Type == "":
		return errors.New("missing type")
	case c.MaxHP <= 0:
		return fmt.Errorf("%s: max hp must be positive", c.Type)
	case c.FireInterval <= 0:
		return fmt.Errorf("%s: fire interval must be positive", c.Type)
	case c.SpreadCount < 1:
		return fmt.Errorf("%s: spread count must be at least 1", c.Type)
	case c.SpreadThreshold < 0 || c.SpreadThreshold > 1:
		return fmt.Errorf("%s: spread threshold outside [0,1]", c.Type)
	case c.RushThreshold < 0 || c.RushThreshold > 1:
		return fmt.Errorf("%s: rush threshold outside [0,1]", c.Type)
	case c.RushThreshold > 0 && (c.RushSpeed <= 0 || c.RushInterval <= 0):
		return fmt.Errorf("%s: rush needs positive speed and interval", c.Type)
	case !c.Movement.Pattern.Valid():
		return fmt.Errorf("%s: unknown movement pattern %q", c.Type, c.Movement.Pattern)
	case c.Movement.Pattern == MovementStrafe && c.Movement.StrafePeriod <= 0:
		return fmt.Errorf("%s: strafe period must be positive", c.Type)
	case c.Movement.Pattern != MovementStrafe && c.Movement.SwayPeriod <= 0:
		return fmt.Errorf("%s: sway period must be positive", c.Type)
	}
	return nil
}

// BossCatalog is an ordered list of boss records; order is tier order.
type BossCatalog []BossConfig

// Lookup returns the record for t.
func (c BossCatalog) Lookup(t BossType) (BossConfig, bool) {
	for _, cfg := range c {
		if cfg.Type == t {
			return cfg, true
		}
	}
	return BossConfig{}, false
}

// Validate checks every record, rejects duplicate types and requires kill
// thresholds to strictly increase with tier.
func (c BossCatalog) Validate() error {
	if len(c) == 0 {
		return errors.New("boss catalog is empty")
	}
	seen := make(map[BossType]bool, len(c))
	for i, cfg := range c {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if seen[cfg.Type] {
			return fmt.Errorf("duplicate boss type %q", cfg.Type)
		}
		seen[cfg.Type] = true
		if i > 0 && cfg.KillThreshold <= c[i-1].KillThreshold {
			return fmt.Errorf("%s: kill threshold %d must exceed %d", cfg.Type, cfg.KillThreshold, c[i-1].KillThreshold)
		}
	}
	return nil
}

// DefaultBossCatalog returns the built-in three-tier table.
func DefaultBossCatalog() BossCatalog {
	return BossCatalog{
		{
			Type:            BossDreadnought,
			Name:            "DREADNOUGHT",
			KillThreshold:   20,
			MaxHP:           50,
			FireInterval:    1.8,
			BulletSpeed:     35,
			BulletRange:     60,
			BulletDamage:    8,
			SpreadThreshold: 0.5,
			SpreadCount:     3,
			RushThreshold:   0.3,
			RushSpeed:       15,
			RushInterval:    4,
			Movement:        Movement{Pattern: MovementSway, SwayAmplitude: 4, SwayPeriod: 3},
			Reward:          Reward{Score: 100, Cores: 1},
		},
		{
			Type:            BossDestroyer,
			Name:            "DESTROYER",
			KillThreshold:   50,
			MaxHP:           120,
			FireInterval:    0.8,
			BulletSpeed:     35,
			BulletRange:     60,
			BulletDamage:    8,
			SpreadThreshold: 0.4,
			SpreadCount:     5,
			Movement:        Movement{Pattern: MovementStrafe, StrafeRadius: 6, StrafePeriod: 4},
			Reward:          Reward{Score: 100, Cores: 1},
		},
		{
			Type:            BossAnnihilator,
			Name:            "ANNIHILATOR",
			KillThreshold:   100,
			MaxHP:           250,
			FireInterval:    1.2,
			BulletSpeed:     35,
			BulletRange:     60,
			BulletDamage:    8,
			SpreadThreshold: 0.5,
			SpreadCount:     7,
			RushThreshold:   0.5,
			RushSpeed:       20,
			RushInterval:    10,
			Movement:        Movement{Pattern: MovementTracking, SwayAmplitude: 5, SwayPeriod: 3.5},
			Reward:          Reward{Score: 100, Cores: 3},
		},
	}
}
