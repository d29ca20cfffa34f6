package content

import (
	"fmt"

	"github.com/tomz197/railshooter/internal/object"
	"github.com/tomz197/railshooter/internal/parts"
	"gopkg.in/yaml.v3"
)

// LoadSpec reads the named file (see Load) and decodes it into T.
func LoadSpec[T any](dir, name string) (T, error) {
	var zero T
	data, err := Load(dir, name)
	if err != nil {
		return zero, fmt.Errorf("content: load %s: %w", name, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("content: unmarshal %s: %w", name, err)
	}
	return spec, nil
}

type BossSpec struct {
	ID              string       `yaml:"id"`
	Name            string       `yaml:"name"`
	KillThreshold   int          `yaml:"kill_threshold"`
	MaxHP           float64      `yaml:"max_hp"`
	FireInterval    float64      `yaml:"fire_interval"`
	BulletSpeed     float64      `yaml:"bullet_speed"`
	BulletRange     float64      `yaml:"bullet_range"`
	BulletDamage    float64      `yaml:"bullet_damage"`
	SpreadThreshold float64      `yaml:"spread_threshold"`
	SpreadCount     int          `yaml:"spread_count"`
	RushThreshold   float64      `yaml:"rush_threshold"`
	RushSpeed       float64      `yaml:"rush_speed"`
	RushInterval    float64      `yaml:"rush_interval"`
	Movement        MovementSpec `yaml:"movement"`
	Reward          RewardSpec   `yaml:"reward"`
}

type MovementSpec struct {
	Pattern       string  `yaml:"pattern"`
	SwayAmplitude float64 `yaml:"sway_amplitude"`
	SwayPeriod    float64 `yaml:"sway_period"`
	StrafeRadius  float64 `yaml:"strafe_radius"`
	StrafePeriod  float64 `yaml:"strafe_period"`
}

type RewardSpec struct {
	Score int `yaml:"score"`
	Cores int `yaml:"cores"`
}

// Config converts the spec into the engine's record.
func (s BossSpec) Config() object.BossConfig {
	return object.BossConfig{
		Type:            object.BossType(s.ID),
		Name:            s.Name,
		KillThreshold:   s.KillThreshold,
		MaxHP:           s.MaxHP,
		FireInterval:    s.FireInterval,
		BulletSpeed:     s.BulletSpeed,
		BulletRange:     s.BulletRange,
		BulletDamage:    s.BulletDamage,
		SpreadThreshold: s.SpreadThreshold,
		SpreadCount:     s.SpreadCount,
		RushThreshold:   s.RushThreshold,
		RushSpeed:       s.RushSpeed,
		RushInterval:    s.RushInterval,
		Movement: object.Movement{
			Pattern:       object.MovementPattern(s.Movement.Pattern),
			SwayAmplitude: s.Movement.SwayAmplitude,
			SwayPeriod:    s.Movement.SwayPeriod,
			StrafeRadius:  s.Movement.StrafeRadius,
			StrafePeriod:  s.Movement.StrafePeriod,
		},
		Reward: object.Reward{Score: s.Reward.Score, Cores: s.Reward.Cores},
	}
}

// LoadBossCatalog loads and validates the boss tiers.
func LoadBossCatalog(dir string) (object.BossCatalog, error) {
	specs, err := LoadSpec[[]BossSpec](dir, BossesFile)
	if err != nil {
		return nil, err
	}
	return BossCatalogFromSpecs(specs)
}

// BossCatalogFromSpecs converts and validates decoded boss specs.
func BossCatalogFromSpecs(specs []BossSpec) (object.BossCatalog, error) {
	catalog := make(object.BossCatalog, 0, len(specs))
	for _, s := range specs {
		catalog = append(catalog, s.Config())
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("content: %s: %w", BossesFile, err)
	}
	return catalog, nil
}

type PartSpec struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Category    string      `yaml:"category"`
	Description string      `yaml:"description"`
	Levels      []LevelSpec `yaml:"levels"`
}

type LevelSpec struct {
	Price       int                `yaml:"price"`
	CoreCost    int                `yaml:"core_cost"`
	Description string             `yaml:"description"`
	Stats       map[string]float64 `yaml:"stats"`
}

// Definition converts the spec into a parts definition.
func (s PartSpec) Definition() parts.Definition {
	levels := make([]parts.Level, 0, len(s.Levels))
	for _, l := range s.Levels {
		levels = append(levels, parts.Level{
			Price:       l.Price,
			CoreCost:    l.CoreCost,
			Stats:       l.Stats,
			Description: l.Description,
		})
	}
	return parts.Definition{
		ID:          s.ID,
		Name:        s.Name,
		Category:    parts.Category(s.Category),
		Description: s.Description,
		Levels:      levels,
	}
}

// LoadPartsCatalog loads and validates the shop parts.
func LoadPartsCatalog(dir string) (parts.Catalog, error) {
	specs, err := LoadSpec[[]PartSpec](dir, PartsFile)
	if err != nil {
		return nil, err
	}
	catalog := make(parts.Catalog, 0, len(specs))
	for _, s := range specs {
		catalog = append(catalog, s.Definition())
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("content: %s: %w", PartsFile, err)
	}
	return catalog, nil
}
