package object

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomz197/railshooter/internal/physics"
)

// Boss behavior constants shared by every tier.
const (
	RushDuration   = 1.2         // Seconds a rush lasts
	SpreadArc      = math.Pi / 4 // Total fan width of a spread volley
	MuzzleDistance = 2.0         // Muzzle offset along the aim direction
	MuzzleHeight   = 0.5         // Muzzle offset above the hull center

	strafeDepthScale = 0.3 // Z compression of the strafe ellipse
	trackingRate     = 0.5 // Per-second easing rate towards the sway target
)

// ErrUnknownBossType is returned by Spawn for a type missing from the catalog.
var ErrUnknownBossType = errors.New("unknown boss type")

// bossForward is the fallback aim when the player sits exactly on the boss.
var bossForward = physics.V3(0, 0, 1)

// Boss is the singleton encounter engine. One instance is reused for every
// tier; Spawn loads the tier's record and resets all counters.
type Boss struct {
	Pos physics.Vec3 // World position

	catalog BossCatalog
	cfg     BossConfig // Captured at spawn
	anchor  physics.Vec3
	hp      float64
	maxHP   float64
	active  bool

	phase         float64 // Movement clock in seconds
	fireCooldown  float64
	rushCooldown  float64
	rushRemaining float64
	rushing       bool

	emit Emitter // Borrowed for the current encounter only
}

// NewBoss creates an inactive boss that spawns from catalog.
func NewBoss(catalog BossCatalog) *Boss {
	return &Boss{catalog: catalog}
}

// SetCatalog replaces the records used by later spawns. An active encounter
// keeps the record it spawned with.
func (b *Boss) SetCatalog(catalog BossCatalog) {
	b.catalog = catalog
}

// Catalog returns the records used for spawning.
func (b *Boss) Catalog() BossCatalog {
	return b.catalog
}

// Spawn activates the boss at pos as type t. Shots go to emit, which may be
// nil for a boss that never fires.
func (b *Boss) Spawn(pos physics.Vec3, t BossType, emit Emitter) error {
	cfg, ok := b.catalog.Lookup(t)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBossType, t)
	}

	b.cfg = cfg
	b.Pos = pos
	b.anchor = pos
	b.maxHP = cfg.MaxHP
	b.hp = cfg.MaxHP
	b.phase = 0
	b.fireCooldown = cfg.FireInterval
	b.rushCooldown = cfg.RushInterval
	b.rushRemaining = 0
	b.rushing = false
	b.emit = emit
	b.active = true
	return nil
}

// Update advances rush, movement and fire for one frame. player may be nil
// when no player position is known; the boss then neither rushes nor fires.
func (b *Boss) Update(dt float64, player *physics.Vec3) {
	if !b.active {
		return
	}

	frac := b.HPFraction()

	if b.cfg.RushThreshold > 0 && frac <= b.cfg.RushThreshold && player != nil {
		b.updateRush(dt, *player)
	}

	if !b.rushing {
		b.move(dt)
	}

	b.fireCooldown -= dt
	if b.fireCooldown <= 0 && player != nil && b.emit != nil {
		b.fire(*player, frac)
		b.fireCooldown = b.cfg.FireInterval
	}
}

// updateRush runs the rush sub-state. The cooldown restarts when a rush
// ends, not when it begins.
func (b *Boss) updateRush(dt float64, player physics.Vec3) {
	b.rushCooldown -= dt

	if b.rushing {
		b.rushRemaining -= dt
		b.rushStep(dt, player)
		if b.rushRemaining <= 0 {
			b.rushing = false
			b.rushCooldown = b.cfg.RushInterval
		}
		return
	}

	if b.rushCooldown <= 0 {
		b.rushing = true
		b.rushRemaining = RushDuration
	}
}

// rushStep charges straight at the player on the x/z plane without
// overshooting.
func (b *Boss) rushStep(dt float64, player physics.Vec3) {
	toPlayer := player.Sub(b.Pos).Flat()
	dist := toPlayer.Length()
	if dist == 0 {
		return
	}
	step := math.Min(b.cfg.RushSpeed*dt, dist)
	b.Pos = b.Pos.Add(toPlayer.Scale(step / dist))
}

// move dispatches on the movement pattern.
func (b *Boss) move(dt float64) {
	b.phase += dt
	m := b.cfg.Movement

	switch m.Pattern {
	case MovementSway:
		b.Pos.X = b.swayTarget()
	case MovementStrafe:
		if m.StrafePeriod <= 0 {
			return
		}
		angle := 2 * math.Pi * b.phase / m.StrafePeriod
		b.Pos.X = b.anchor.X + math.Cos(angle)*m.StrafeRadius
		b.Pos.Z = b.anchor.Z + math.Sin(angle)*m.StrafeRadius*strafeDepthScale
	case MovementTracking:
		target := b.swayTarget()
		b.Pos.X += (target - b.Pos.X) * math.Min(1, trackingRate*dt)
	}
}

func (b *Boss) swayTarget() float64 {
	m := b.cfg.Movement
	if m.SwayPeriod <= 0 {
		return b.anchor.X
	}
	return b.anchor.X + math.Sin(2*math.Pi*b.phase/m.SwayPeriod)*m.SwayAmplitude
}

// fire aims at the player. Above the spread threshold it emits one shot;
// at or below it emits SpreadCount shots fanned evenly across SpreadArc.
func (b *Boss) fire(player physics.Vec3, frac float64) {
	dir := player.Sub(b.Pos).Flat().NormalizeOr(bossForward)
	origin := b.Pos.Add(dir.Scale(MuzzleDistance)).Add(physics.V3(0, MuzzleHeight, 0))

	if frac > b.cfg.SpreadThreshold || b.cfg.SpreadCount <= 1 {
		b.emit.Emit(origin, dir)
		return
	}

	n := b.cfg.SpreadCount
	step := SpreadArc / float64(n-1)
	for i := 0; i < n; i++ {
		angle := -SpreadArc/2 + float64(i)*step
		b.emit.Emit(origin, dir.RotateY(angle).NormalizeOr(dir))
	}
}

// TakeDamage subtracts amount from HP, clamped at zero. It returns true only
// on the call that defeats the boss; the boss is then inactive.
// Negative amounts count as zero.
func (b *Boss) TakeDamage(amount float64) bool {
	if !b.active {
		return false
	}
	if amount < 0 || math.IsNaN(amount) {
		amount = 0
	}
	b.hp = math.Max(0, b.hp-amount)
	if b.hp == 0 {
		b.Deactivate()
		return true
	}
	return false
}

// Deactivate ends the encounter and drops the emitter. Safe to call more
// than once.
func (b *Boss) Deactivate() {
	b.active = false
	b.rushing = false
	b.emit = nil
}

// Active reports whether an encounter is running.
func (b *Boss) Active() bool {
	return b.active
}

// HP returns the current hit points.
func (b *Boss) HP() float64 {
	return b.hp
}

// MaxHP returns the hit points captured at spawn.
func (b *Boss) MaxHP() float64 {
	return b.maxHP
}

// HPFraction returns HP / MaxHP, or 0 when MaxHP is zero.
func (b *Boss) HPFraction() float64 {
	if b.maxHP <= 0 {
		return 0
	}
	return b.hp / b.maxHP
}

// Rushing reports whether a rush is in progress.
func (b *Boss) Rushing() bool {
	return b.rushing
}

// Config returns the record captured at spawn.
func (b *Boss) Config() BossConfig {
	return b.cfg
}
