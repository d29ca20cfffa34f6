package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/railshooter/internal/physics"
)

// Particle is a short-lived debris fragment. Purely visual.
type Particle struct {
	Pos         physics.Vec3
	Vel         physics.Vec3
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	active      bool
}

// Active reports whether the particle is alive.
func (p *Particle) Active() bool {
	return p.active
}

// Faded reports whether the particle is in the last quarter of its life.
func (p *Particle) Faded() bool {
	return p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25
}

// particleDrag is the per-frame velocity decay, normalized to 60fps.
const particleDrag = 0.95

// ParticlePool is a fixed set of particle slots. New bursts overwrite the
// oldest slots once the pool is full.
type ParticlePool struct {
	slots  []Particle
	next   int
	rng    *rand.Rand
	active []*Particle
}

// NewParticlePool creates a pool with capacity slots. A nil rng seeds one
// from the clock.
func NewParticlePool(capacity int, rng *rand.Rand) *ParticlePool {
	if capacity < 1 {
		capacity = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ParticlePool{
		slots:  make([]Particle, capacity),
		rng:    rng,
		active: make([]*Particle, 0, capacity),
	}
}

// SpawnExplosion emits count particles in a flat circular burst at pos.
func (p *ParticlePool) SpawnExplosion(pos physics.Vec3, count int, speed, lifetime float64) {
	for i := 0; i < count; i++ {
		angle := p.rng.Float64() * 2 * math.Pi
		// Speed varies 50% to 150%, lifetime 50% to 100%
		spd := speed * (0.5 + p.rng.Float64())
		life := lifetime * (0.5 + p.rng.Float64()*0.5)

		s := &p.slots[p.next]
		p.next = (p.next + 1) % len(p.slots)

		s.Pos = pos
		s.Vel = physics.V3(math.Sin(angle)*spd, 0, math.Cos(angle)*spd)
		s.Lifetime = life
		s.MaxLifetime = life
		s.active = true
	}
}

// Update moves particles with drag and expires old ones.
func (p *ParticlePool) Update(dt float64) {
	dragFactor := math.Pow(particleDrag, dt*60)
	for i := range p.slots {
		s := &p.slots[i]
		if !s.active {
			continue
		}
		s.Lifetime -= dt
		if s.Lifetime <= 0 {
			s.active = false
			continue
		}
		s.Vel = s.Vel.Scale(dragFactor)
		s.Pos = s.Pos.Add(s.Vel.Scale(dt))
	}
}

// Active returns the live particles. The slice is reused and only valid
// until the next call.
func (p *ParticlePool) Active() []*Particle {
	p.active = p.active[:0]
	for i := range p.slots {
		if p.slots[i].active {
			p.active = append(p.active, &p.slots[i])
		}
	}
	return p.active
}

// Reset clears every particle.
func (p *ParticlePool) Reset() {
	for i := range p.slots {
		p.slots[i].active = false
	}
	p.next = 0
}
