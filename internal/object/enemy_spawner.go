package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/railshooter/internal/physics"
)

// SpawnerOptions configures an EnemySpawner.
type SpawnerOptions struct {
	Capacity       int     // Pool slots
	MaxActive      int     // Concurrent active limit for timed spawns
	Interval       float64 // Base seconds between spawn attempts
	IntervalJitter float64 // Extra random seconds added to Interval

	X     Range // Lateral spawn range
	Z     Range // Spawn distance range
	Speed Range // Forward speed range

	SwayAmplitude Range
	SwayPhase     Range
	SwaySpeed     Range

	DespawnZ float64 // Enemies past this z leave play
}

// DefaultSpawnerOptions returns the stock wave tuning.
func DefaultSpawnerOptions() SpawnerOptions {
	return SpawnerOptions{
		Capacity:       18,
		MaxActive:      8,
		Interval:       1.6,
		IntervalJitter: 0.9,
		X:              Range{-6.5, 6.5},
		Z:              Range{-34, -24},
		Speed:          Range{6, 11},
		SwayAmplitude:  Range{0.4, 1.6},
		SwayPhase:      Range{0, 2 * math.Pi},
		SwaySpeed:      Range{1.2, 2.1},
		DespawnZ:       9,
	}
}

// EnemySpawner owns the enemy pool, spawns on a jittered timer and counts
// kills reported by the orchestrator.
type EnemySpawner struct {
	slots    []Enemy
	opts     SpawnerOptions
	rng      *rand.Rand
	timer    float64
	spawning bool
	kills    int
	active   []*Enemy // Reused by Active
}

// NewEnemySpawner creates a spawner with all slots inactive.
// A nil rng seeds one from the clock.
func NewEnemySpawner(opts SpawnerOptions, rng *rand.Rand) *EnemySpawner {
	if opts.Capacity < 1 {
		opts.Capacity = 1
	}
	if opts.MaxActive < 0 {
		opts.MaxActive = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &EnemySpawner{
		slots:    make([]Enemy, opts.Capacity),
		opts:     opts,
		rng:      rng,
		spawning: true,
		active:   make([]*Enemy, 0, opts.Capacity),
	}
	s.resetTimer()
	return s
}

// Update runs the spawn timer, then moves enemies and despawns those that
// flew past the player.
func (s *EnemySpawner) Update(dt float64) {
	s.timer -= dt
	if s.timer <= 0 {
		s.trySpawn()
	}

	for i := range s.slots {
		e := &s.slots[i]
		if !e.active {
			continue
		}
		e.update(dt)
		if e.Pos.Z > s.opts.DespawnZ {
			e.Deactivate()
		}
	}
}

// trySpawn spawns one enemy when allowed. The timer restarts either way.
func (s *EnemySpawner) trySpawn() {
	defer s.resetTimer()

	if !s.spawning || s.ActiveCount() >= s.opts.MaxActive {
		return
	}
	if s.freeSlot() == nil {
		return
	}
	s.Spawn()
}

// Spawn activates an enemy with freshly sampled position, speed and sway.
// It takes the first free slot, or overwrites slot 0 when the pool is full.
// Spawn ignores the enabled flag and the active limit.
func (s *EnemySpawner) Spawn() *Enemy {
	e := s.freeSlot()
	if e == nil {
		e = &s.slots[0]
	}

	pos := physics.V3(s.opts.X.Sample(s.rng), 0, s.opts.Z.Sample(s.rng))
	e.activate(
		pos,
		s.opts.Speed.Sample(s.rng),
		s.opts.SwayAmplitude.Sample(s.rng),
		s.opts.SwayPhase.Sample(s.rng),
		s.opts.SwaySpeed.Sample(s.rng),
	)
	return e
}

func (s *EnemySpawner) freeSlot() *Enemy {
	for i := range s.slots {
		if !s.slots[i].active {
			return &s.slots[i]
		}
	}
	return nil
}

func (s *EnemySpawner) resetTimer() {
	s.timer = s.opts.Interval + s.rng.Float64()*s.opts.IntervalJitter
}

// SetSpawningEnabled turns timed spawns on or off. Enemies already in play
// are unaffected.
func (s *EnemySpawner) SetSpawningEnabled(enabled bool) {
	s.spawning = enabled
}

// SpawningEnabled reports whether timed spawns are on.
func (s *EnemySpawner) SpawningEnabled() bool {
	return s.spawning
}

// Active returns the enemies in play, in slot order.
// The slice is reused and only valid until the next call.
func (s *EnemySpawner) Active() []*Enemy {
	s.active = s.active[:0]
	for i := range s.slots {
		if s.slots[i].active {
			s.active = append(s.active, &s.slots[i])
		}
	}
	return s.active
}

// ActiveCount returns the number of enemies in play.
func (s *EnemySpawner) ActiveCount() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].active {
			n++
		}
	}
	return n
}

// Capacity returns the fixed number of slots.
func (s *EnemySpawner) Capacity() int {
	return len(s.slots)
}

// Kills returns the kill counter.
func (s *EnemySpawner) Kills() int {
	return s.kills
}

// IncrementKills records one confirmed kill.
func (s *EnemySpawner) IncrementKills() {
	s.kills++
}

// Reset deactivates all enemies, zeroes the kill counter, re-enables
// spawning and restarts the timer.
func (s *EnemySpawner) Reset() {
	for i := range s.slots {
		s.slots[i].Deactivate()
	}
	s.kills = 0
	s.spawning = true
	s.resetTimer()
}
