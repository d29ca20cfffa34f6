// Package parts models the upgradeable ship parts and the economy used to
// buy their levels.
package parts

import (
	"errors"
	"fmt"
)

// Category groups parts in the shop.
type Category string

// Part categories.
const (
	CategoryWeapon   Category = "weapon"
	CategoryDefense  Category = "defense"
	CategoryMobility Category = "mobility"
	CategorySpecial  Category = "special"
)

// Part identifiers.
const (
	LaserCannon     = "laser_cannon"
	MultiShot       = "multi_shot"
	HomingMissile   = "homing_missile"
	ShieldGenerator = "shield_generator"
	ArmorPlate      = "armor_plate"
	AutoRepair      = "auto_repair"
	Booster         = "booster"
	QuickTurn       = "quick_turn"
	ScoreBooster    = "score_booster"
	ShieldRecharge  = "shield_recharge"
)

// Stat names used in level stat bundles.
const (
	StatDamage           = "damage"
	StatRange            = "range"
	StatBulletSpeed      = "bulletSpeed"
	StatFireInterval     = "fireInterval"
	StatBulletCount      = "bulletCount"
	StatSpreadAngle      = "spreadAngle"
	StatTurnRate         = "turnRate"
	StatLockRange        = "lockRange"
	StatMaxHP            = "maxHP"
	StatDamageReduction  = "damageReduction"
	StatHealInterval     = "healInterval"
	StatHealAmount       = "healAmount"
	StatMoveSpeed        = "moveSpeed"
	StatAimLerp          = "aimLerp"
	StatScoreMultiplier  = "scoreMultiplier"
	StatRechargeCooldown = "rechargeCooldown"
	StatRechargePercent  = "rechargePercent"
)

// Level is one purchasable level of a part. Level 0 is the free baseline.
type Level struct {
	Price       int
	CoreCost    int
	Stats       map[string]float64
	Description string
}

// Definition describes a part and all of its levels.
type Definition struct {
	ID          string
	Name        string
	Category    Category
	Description string
	Levels      []Level
}

// Catalog is the ordered list of parts offered in the shop.
type Catalog []Definition

// Lookup returns the definition for id.
func (c Catalog) Lookup(id string) (Definition, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Validate rejects empty ids, duplicates, parts without levels and negative
// costs.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, d := range c {
		if d.ID == "" {
			return errors.New("part without id")
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate part %q", d.ID)
		}
		seen[d.ID] = true
		if len(d.Levels) == 0 {
			return fmt.Errorf("%s: no levels", d.ID)
		}
		for i, l := range d.Levels {
			if l.Price < 0 || l.CoreCost < 0 {
				return fmt.Errorf("%s: level %d has a negative cost", d.ID, i)
			}
		}
	}
	return nil
}

// State is the persisted economy of one profile.
type State struct {
	Score    int            `json:"score"`
	Cores    int            `json:"cores"`
	Equipped map[string]int `json:"equipped"`
}

// NewState returns the starting state: no currency and the baseline parts
// equipped at level 0.
func NewState() State {
	return State{
		Equipped: map[string]int{
			LaserCannon:     0,
			ShieldGenerator: 0,
			Booster:         0,
		},
	}
}

func (s State) clone() State {
	out := State{Score: s.Score, Cores: s.Cores, Equipped: make(map[string]int, len(s.Equipped))}
	for k, v := range s.Equipped {
		out.Equipped[k] = v
	}
	return out
}
