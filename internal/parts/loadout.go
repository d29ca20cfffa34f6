package parts

// Loadout is the resolved stat bundle the simulation reads each frame.
type Loadout struct {
	// Laser cannon
	Damage      float64
	Range       float64
	BulletSpeed float64

	// Multi-shot
	FireInterval float64
	BulletCount  int
	SpreadAngle  float64 // Degrees

	// Homing missile; TurnRate 0 disables the launcher
	MissileTurnRate     float64
	MissileFireInterval float64
	MissileDamage       float64
	MissileLockRange    float64

	// Defense
	MaxHP           float64
	DamageReduction float64 // Fraction in [0, MaxDamageReduction]
	HealInterval    float64
	HealAmount      float64

	// Mobility
	MoveSpeed float64
	AimLerp   float64

	// Special
	ScoreMultiplier  float64
	RechargeCooldown float64
	RechargePercent  float64
}

// MaxDamageReduction caps armor so damage never drops to zero.
const MaxDamageReduction = 0.9

// DefaultLoadout returns the stats used when no part provides them.
func DefaultLoadout() Loadout {
	return Loadout{
		Damage:              1,
		Range:               50,
		BulletSpeed:         40,
		FireInterval:        0.18,
		BulletCount:         1,
		MissileFireInterval: 2,
		MissileDamage:       1,
		MaxHP:               100,
		MoveSpeed:           12,
		AimLerp:             0.35,
		ScoreMultiplier:     1,
	}
}

// StatSource resolves a single stat of a part at its current level.
type StatSource interface {
	Stat(partID, stat string) (float64, bool)
}

// ResolveLoadout builds a Loadout from src, keeping the default for any stat
// the source does not provide.
func ResolveLoadout(src StatSource) Loadout {
	l := DefaultLoadout()
	if src == nil {
		return l
	}

	set := func(dst *float64, partID, stat string) {
		if v, ok := src.Stat(partID, stat); ok {
			*dst = v
		}
	}

	set(&l.Damage, LaserCannon, StatDamage)
	set(&l.Range, LaserCannon, StatRange)
	set(&l.BulletSpeed, LaserCannon, StatBulletSpeed)

	set(&l.FireInterval, MultiShot, StatFireInterval)
	if v, ok := src.Stat(MultiShot, StatBulletCount); ok && v >= 1 {
		l.BulletCount = int(v)
	}
	set(&l.SpreadAngle, MultiShot, StatSpreadAngle)

	set(&l.MissileTurnRate, HomingMissile, StatTurnRate)
	set(&l.MissileFireInterval, HomingMissile, StatFireInterval)
	set(&l.MissileDamage, HomingMissile, StatDamage)
	set(&l.MissileLockRange, HomingMissile, StatLockRange)

	set(&l.MaxHP, ShieldGenerator, StatMaxHP)
	set(&l.DamageReduction, ArmorPlate, StatDamageReduction)
	set(&l.HealInterval, AutoRepair, StatHealInterval)
	set(&l.HealAmount, AutoRepair, StatHealAmount)

	set(&l.MoveSpeed, Booster, StatMoveSpeed)
	set(&l.AimLerp, QuickTurn, StatAimLerp)

	set(&l.ScoreMultiplier, ScoreBooster, StatScoreMultiplier)
	set(&l.RechargeCooldown, ShieldRecharge, StatRechargeCooldown)
	set(&l.RechargePercent, ShieldRecharge, StatRechargePercent)

	l.sanitize()
	return l
}

// sanitize replaces values the simulation cannot use with defaults.
func (l *Loadout) sanitize() {
	d := DefaultLoadout()
	if l.BulletSpeed <= 0 {
		l.BulletSpeed = d.BulletSpeed
	}
	if l.Range <= 0 {
		l.Range = d.Range
	}
	if l.FireInterval <= 0 {
		l.FireInterval = d.FireInterval
	}
	if l.MaxHP <= 0 {
		l.MaxHP = d.MaxHP
	}
	if l.MoveSpeed < 0 {
		l.MoveSpeed = 0
	}
	if l.ScoreMultiplier <= 0 {
		l.ScoreMultiplier = d.ScoreMultiplier
	}
	if l.DamageReduction < 0 {
		l.DamageReduction = 0
	} else if l.DamageReduction > MaxDamageReduction {
		l.DamageReduction = MaxDamageReduction
	}
	if l.MissileFireInterval <= 0 {
		l.MissileFireInterval = d.MissileFireInterval
	}
}
