package object

import (
	"math"

	"github.com/tomz197/railshooter/internal/physics"
)

// Projectile is a single pooled shot. It is only meaningful while active.
type Projectile struct {
	Pos      physics.Vec3 // Position
	Vel      physics.Vec3 // Velocity, magnitude is the fire speed
	Lifetime float64      // Seconds remaining before the slot frees up
	Damage   float64      // Per-hit damage carried by the shot
	active   bool
}

// Active reports whether the slot is in flight.
func (p *Projectile) Active() bool {
	return p.active
}

// Deactivate frees the slot. Safe to call more than once.
func (p *Projectile) Deactivate() {
	p.active = false
	p.Lifetime = 0
}

// PoolOptions configures a ProjectilePool.
type PoolOptions struct {
	Capacity int
	Speed    float64      // Used when Fire gets a non-positive speed
	Range    float64      // Used when Fire gets a non-positive range
	Damage   float64      // Copied onto every shot
	Forward  physics.Vec3 // Direction used when Fire gets a zero-length direction
}

// PlayerBulletOptions returns the player's pool defaults.
func PlayerBulletOptions() PoolOptions {
	return PoolOptions{
		Capacity: 32,
		Speed:    40,
		Range:    50,
		Forward:  physics.V3(0, 0, -1),
	}
}

// BossBulletOptions returns the boss pool defaults.
func BossBulletOptions() PoolOptions {
	return PoolOptions{
		Capacity: 50,
		Speed:    35,
		Range:    60,
		Damage:   8,
		Forward:  physics.V3(0, 0, 1),
	}
}

// ProjectilePool is a fixed set of reusable projectile slots.
//
// Fire takes the first inactive slot; when every slot is in flight it
// overwrites slot 0. The pool never grows.
type ProjectilePool struct {
	slots  []Projectile
	opts   PoolOptions
	active []*Projectile // Reused by Active
}

// NewProjectilePool pre-allocates all slots.
func NewProjectilePool(opts PoolOptions) *ProjectilePool {
	if opts.Capacity < 1 {
		opts.Capacity = 1
	}
	if opts.Forward.IsZero() {
		opts.Forward = physics.V3(0, 0, -1)
	}
	return &ProjectilePool{
		slots:  make([]Projectile, opts.Capacity),
		opts:   opts,
		active: make([]*Projectile, 0, opts.Capacity),
	}
}

// Fire launches a projectile from origin along dir.
// Lifetime is range/speed; non-positive speed or range fall back to the pool
// defaults.
func (p *ProjectilePool) Fire(origin, dir physics.Vec3, speed, rng float64) *Projectile {
	if speed <= 0 {
		speed = p.opts.Speed
	}
	if rng <= 0 {
		rng = p.opts.Range
	}

	slot := &p.slots[0]
	for i := range p.slots {
		if !p.slots[i].active {
			slot = &p.slots[i]
			break
		}
	}

	slot.Pos = origin
	slot.Vel = dir.NormalizeOr(p.opts.Forward).Scale(speed)
	slot.Lifetime = rng / speed
	slot.Damage = p.opts.Damage
	slot.active = true
	return slot
}

// Emit fires with the pool's default speed and range.
func (p *ProjectilePool) Emit(origin, dir physics.Vec3) {
	p.Fire(origin, dir, p.opts.Speed, p.opts.Range)
}

// Update moves every active projectile and expires spent ones.
// A projectile whose lifetime runs out this frame does not move.
func (p *ProjectilePool) Update(dt float64) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.active {
			continue
		}

		s.Lifetime -= dt
		if s.Lifetime <= 0 {
			s.Deactivate()
			continue
		}

		s.Pos = s.Pos.Add(s.Vel.Scale(dt))
	}
}

// Active returns the projectiles currently in flight, in slot order.
// The slice is reused and only valid until the next call.
func (p *ProjectilePool) Active() []*Projectile {
	p.active = p.active[:0]
	for i := range p.slots {
		if p.slots[i].active {
			p.active = append(p.active, &p.slots[i])
		}
	}
	return p.active
}

// ActiveCount returns the number of projectiles in flight.
func (p *ProjectilePool) ActiveCount() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].active {
			n++
		}
	}
	return n
}

// Capacity returns the fixed number of slots.
func (p *ProjectilePool) Capacity() int {
	return len(p.slots)
}

// Reset deactivates every slot.
func (p *ProjectilePool) Reset() {
	for i := range p.slots {
		p.slots[i].Deactivate()
	}
}

var _ Emitter = (*ProjectilePool)(nil)

// Steer turns every active projectile towards the nearest target within
// lockRange, by at most turnRate radians per second about the vertical axis.
// Speed is preserved. A non-positive turnRate or lockRange does nothing.
func (p *ProjectilePool) Steer(dt, turnRate, lockRange float64, targets []physics.Vec3) {
	if turnRate <= 0 || lockRange <= 0 || len(targets) == 0 {
		return
	}
	maxTurn := turnRate * dt
	lockSq := lockRange * lockRange

	for i := range p.slots {
		s := &p.slots[i]
		if !s.active {
			continue
		}

		best, bestSq := physics.Vec3{}, math.Inf(1)
		for _, t := range targets {
			if d := physics.DistanceSquared(s.Pos, t); d < bestSq {
				best, bestSq = t, d
			}
		}
		if bestSq > lockSq {
			continue
		}

		to := best.Sub(s.Pos).Flat()
		if to.IsZero() {
			continue
		}
		turn := angleDiff(math.Atan2(to.X, to.Z), math.Atan2(s.Vel.X, s.Vel.Z))
		s.Vel = s.Vel.RotateY(physics.Clamp(turn, -maxTurn, maxTurn))
	}
}

// angleDiff returns a-b wrapped to [-π, π].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
