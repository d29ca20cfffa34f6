// Package object holds the simulated actors of a run: pooled projectiles,
// pooled enemies, the boss and the player craft.
//
// Everything here is frame-stepped by the caller with a delta in seconds and
// never blocks, allocates per frame, or reads the clock.
package object

import (
	"math/rand"

	"github.com/tomz197/railshooter/internal/physics"
)

// Collision radii.
const (
	ProjectileRadius = 0.15
	EnemyRadius      = 1.0
	PlayerRadius     = 1.0
	BossRadius       = 3.0
)

// Emitter receives projectiles fired by an actor.
// The orchestrator hands one to the boss at spawn time and to the player each
// frame; it usually forwards to a ProjectilePool.
type Emitter interface {
	Emit(origin, dir physics.Vec3)
}

// EmitterFunc adapts a plain function to the Emitter interface.
type EmitterFunc func(origin, dir physics.Vec3)

// Emit calls f(origin, dir).
func (f EmitterFunc) Emit(origin, dir physics.Vec3) {
	f(origin, dir)
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// Sample returns a uniform value in [Min, Max).
func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
