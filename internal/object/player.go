package object

import (
	"math"

	"github.com/tomz197/railshooter/internal/parts"
	"github.com/tomz197/railshooter/internal/physics"
)

// Play field limits for the player craft.
const (
	PlayerMinX = -7.0
	PlayerMaxX = 7.0
	PlayerMinZ = -9.0
	PlayerMaxZ = 6.0

	MaxAimAngle  = math.Pi / 3 // Aim is clamped to ±60° off forward
	PlayerMuzzle = 0.9         // Shots leave this far ahead of the hull

	baseAimRate = 4.0  // Radians per second at the baseline aim lerp
	baseAimLerp = 0.35 // Baseline quick_turn stat
)

// Controls is the player's intent for one frame.
type Controls struct {
	MoveX, MoveZ float64 // Each in [-1, 1]
	AimLeft      bool
	AimRight     bool
	Fire         bool
}

// Player is the player-controlled craft on the bounded plane.
type Player struct {
	Pos physics.Vec3 // Position (y is always 0)
	Aim float64      // Radians off forward (-z); positive aims towards +x

	loadout      parts.Loadout
	hp           float64
	fireCooldown float64
	healTimer    float64
	sinceHit     float64 // Seconds since the last damage
	recharged    bool    // Shield recharge already used this lull
}

// NewPlayer creates a craft at the start position with full HP.
func NewPlayer(l parts.Loadout) *Player {
	p := &Player{}
	p.Reset(l)
	return p
}

// Reset recenters the craft, applies the loadout and refills HP.
func (p *Player) Reset(l parts.Loadout) {
	p.Pos = physics.V3(0, 0, 0)
	p.Aim = 0
	p.loadout = l
	p.hp = l.MaxHP
	p.fireCooldown = 0
	p.healTimer = 0
	p.sinceHit = 0
	p.recharged = false
}

// SetLoadout applies new stats mid-run. A higher max HP grants the
// difference; a lower one caps current HP.
func (p *Player) SetLoadout(l parts.Loadout) {
	if gain := l.MaxHP - p.loadout.MaxHP; gain > 0 {
		p.hp += gain
	}
	p.loadout = l
	p.hp = math.Min(p.hp, l.MaxHP)
}

// Loadout returns the stats in use.
func (p *Player) Loadout() parts.Loadout {
	return p.loadout
}

// AimDirection returns the unit aim vector on the x/z plane.
func (p *Player) AimDirection() physics.Vec3 {
	return aimVector(p.Aim)
}

func aimVector(angle float64) physics.Vec3 {
	return physics.V3(math.Sin(angle), 0, -math.Cos(angle))
}

// Update moves and aims the craft, regenerates shields and fires into emit
// while c.Fire is held.
func (p *Player) Update(dt float64, c Controls, emit Emitter) {
	l := p.loadout

	move := physics.V3(c.MoveX, 0, c.MoveZ)
	if !move.IsZero() {
		move = move.NormalizeOr(physics.Vec3{})
		p.Pos = p.Pos.Add(move.Scale(l.MoveSpeed * dt))
	}
	p.Pos.X = physics.Clamp(p.Pos.X, PlayerMinX, PlayerMaxX)
	p.Pos.Z = physics.Clamp(p.Pos.Z, PlayerMinZ, PlayerMaxZ)
	p.Pos.Y = 0

	aimRate := baseAimRate
	if l.AimLerp > 0 {
		aimRate *= l.AimLerp / baseAimLerp
	}
	if c.AimLeft {
		p.Aim -= aimRate * dt
	}
	if c.AimRight {
		p.Aim += aimRate * dt
	}
	p.Aim = physics.Clamp(p.Aim, -MaxAimAngle, MaxAimAngle)

	p.regenerate(dt)

	p.fireCooldown -= dt
	if c.Fire && p.fireCooldown <= 0 && emit != nil {
		p.fire(emit)
		p.fireCooldown = l.FireInterval
	}
}

// fire emits BulletCount shots fanned symmetrically over SpreadAngle degrees.
func (p *Player) fire(emit Emitter) {
	n := max(p.loadout.BulletCount, 1)
	spread := p.loadout.SpreadAngle * math.Pi / 180

	for i := 0; i < n; i++ {
		angle := p.Aim
		if n > 1 {
			angle += -spread/2 + float64(i)*spread/float64(n-1)
		}
		dir := aimVector(angle)
		emit.Emit(p.Pos.Add(dir.Scale(PlayerMuzzle)), dir)
	}
}

func (p *Player) regenerate(dt float64) {
	l := p.loadout
	maxHP := l.MaxHP

	if l.HealInterval > 0 && l.HealAmount > 0 {
		p.healTimer += dt
		for p.healTimer >= l.HealInterval {
			p.healTimer -= l.HealInterval
			p.hp = math.Min(maxHP, p.hp+l.HealAmount)
		}
	}

	p.sinceHit += dt
	if l.RechargeCooldown > 0 && l.RechargePercent > 0 && !p.recharged && p.sinceHit >= l.RechargeCooldown {
		p.hp = math.Min(maxHP, p.hp+l.RechargePercent*maxHP)
		p.recharged = true
	}
}

// TakeDamage applies armor-reduced damage. It returns true on the hit that
// brings HP to zero and false on every other call.
func (p *Player) TakeDamage(amount float64) bool {
	if p.hp <= 0 || amount <= 0 {
		return false
	}
	p.hp = math.Max(0, p.hp-amount*(1-p.loadout.DamageReduction))
	p.sinceHit = 0
	p.recharged = false
	return p.hp == 0
}

// HP returns the current hit points.
func (p *Player) HP() float64 {
	return p.hp
}

// MaxHP returns the hit point ceiling from the loadout.
func (p *Player) MaxHP() float64 {
	return p.loadout.MaxHP
}

// Alive reports whether HP is above zero.
func (p *Player) Alive() bool {
	return p.hp > 0
}
